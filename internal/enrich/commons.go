package enrich

import (
	"context"
	"net/url"
	"strings"
)

const searchLimit = "8"

// commonsSearchResponse covers the part of the MediaWiki search reply we
// read; everything else is ignored.
type commonsSearchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

// searchImages runs a file-namespace search against the image repository and
// returns direct file URLs. An empty result is not an error.
func (c *Client) searchImages(ctx context.Context, key string) ([]string, error) {
	if key == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("list", "search")
	q.Set("srnamespace", "6") // File:
	q.Set("srlimit", searchLimit)
	q.Set("srsearch", key+" "+domainKeyword)

	var r commonsSearchResponse
	if err := c.getJSON(ctx, c.commonsAPI+"?"+q.Encode(), &r); err != nil {
		return nil, err
	}

	images := make([]string, 0, len(r.Query.Search))
	for _, hit := range r.Query.Search {
		name := strings.TrimPrefix(hit.Title, "File:")
		if name == "" {
			continue
		}
		images = append(images, c.filePathBase()+url.PathEscape(name)+"?width=800")
	}
	return images, nil
}

// filePathBase derives the direct-file URL prefix from the API endpoint.
func (c *Client) filePathBase() string {
	return strings.TrimSuffix(c.commonsAPI, "/w/api.php") + "/wiki/Special:FilePath/"
}
