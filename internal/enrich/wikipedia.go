package enrich

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fortmap/fortmap/internal/geo"
)

// articleResult is the usable part of an encyclopedia lookup.
type articleResult struct {
	Description string
	Images      []string
	Link        geo.Link
}

type wikiSummary struct {
	Extract   string `json:"extract"`
	Thumbnail *struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

type wikiMediaList struct {
	Items []struct {
		Type   string `json:"type"`
		Srcset []struct {
			Src string `json:"src"`
		} `json:"srcset"`
	} `json:"items"`
}

// lookupArticle fetches the summary and media listing for a "language:Title"
// reference. The summary is required; a failing media listing only costs the
// extra images.
func (c *Client) lookupArticle(ctx context.Context, ref string) (articleResult, error) {
	lang, title, ok := splitWikiRef(ref)
	if !ok {
		return articleResult{}, fmt.Errorf("malformed reference %q", ref)
	}

	base := c.wikipediaBase
	if strings.Contains(base, "%s") {
		base = fmt.Sprintf(base, lang)
	}
	slug := url.PathEscape(strings.ReplaceAll(title, " ", "_"))

	var summary wikiSummary
	if err := c.getJSON(ctx, base+"/api/rest_v1/page/summary/"+slug, &summary); err != nil {
		return articleResult{}, err
	}

	result := articleResult{
		Description: summary.Extract,
		Link: geo.Link{
			Title: "Wikipedia",
			URL:   summary.ContentURLs.Desktop.Page,
		},
	}
	if result.Link.URL == "" {
		result.Link.URL = base + "/wiki/" + slug
	}
	if summary.Thumbnail != nil && summary.Thumbnail.Source != "" {
		result.Images = append(result.Images, summary.Thumbnail.Source)
	}

	var media wikiMediaList
	if err := c.getJSON(ctx, base+"/api/rest_v1/page/media-list/"+slug, &media); err != nil {
		log.Debug().Err(err).Str("ref", ref).Msg("Media listing unavailable")
		return result, nil
	}

	for _, item := range media.Items {
		if item.Type != "image" || len(item.Srcset) == 0 {
			continue
		}
		src := item.Srcset[0].Src
		if strings.HasPrefix(src, "//") {
			src = "https:" + src
		}
		result.Images = appendUnique(result.Images, src)
	}
	return result, nil
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}
