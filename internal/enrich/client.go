// Package enrich augments single features with imagery, descriptions and
// links from external read-only sources. Every lookup is best-effort: a
// failing source degrades to "no data" and never aborts the others.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/fortmap/fortmap/internal/config"
	"github.com/fortmap/fortmap/internal/geo"
	"github.com/fortmap/fortmap/internal/metrics"
)

// domainKeyword is appended to every image search to keep results on topic.
const domainKeyword = "fortification"

// Client performs per-feature enrichment against configured endpoints.
type Client struct {
	http           *http.Client
	commonsAPI     string
	wikidataAPI    string
	wikipediaBase  string
	ttl            time.Duration
	fallbackImages []string

	now func() time.Time
}

// New builds a client from the enrichment configuration. A nil http client
// falls back to a 10s-timeout default.
func New(cfg config.Enrichment, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		http:           client,
		commonsAPI:     cfg.CommonsAPI,
		wikidataAPI:    cfg.WikidataAPI,
		wikipediaBase:  cfg.WikipediaBase,
		ttl:            cfg.FreshnessTTL(),
		fallbackImages: cfg.FallbackImages,
		now:            time.Now,
	}
}

// Enrich returns an augmented copy of the feature. The input is never
// mutated, no error is ever returned: partial data still counts as success
// and a catastrophic failure yields the original feature unchanged.
func (c *Client) Enrich(ctx context.Context, f geo.Feature) (out geo.Feature) {
	out = f
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("id", f.ID).Msg("Enrichment failed, keeping feature unmodified")
			out = f
		}
	}()

	if f.Props.Fresh(c.ttl, c.now()) {
		metrics.EnrichSkipped.Inc()
		log.Debug().Str("id", f.ID).Msg("Feature still fresh, skipping enrichment")
		return f
	}
	metrics.EnrichRequests.Inc()

	out = f.Clone()

	var (
		images  []string
		facts   entityFacts
		article articleResult
		hasWiki bool
	)

	// The three sources write disjoint result slots, so they can run
	// concurrently; results are applied below in a fixed order.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := c.searchImages(gctx, c.searchKey(f))
		if err != nil {
			metrics.EnrichSourceFailures.WithLabelValues("commons").Inc()
			log.Warn().Err(err).Str("id", f.ID).Msg("Image search failed")
			return nil
		}
		images = found
		return nil
	})
	if qid := f.Props.Wikidata; qid != "" {
		g.Go(func() error {
			found, err := c.entityFacts(gctx, qid)
			if err != nil {
				metrics.EnrichSourceFailures.WithLabelValues("wikidata").Inc()
				log.Warn().Err(err).Str("id", f.ID).Str("entity", qid).Msg("Knowledge-base lookup failed")
				return nil
			}
			facts = found
			return nil
		})
	}
	if ref := f.Props.Wikipedia; ref != "" {
		g.Go(func() error {
			found, err := c.lookupArticle(gctx, ref)
			if err != nil {
				metrics.EnrichSourceFailures.WithLabelValues("wikipedia").Inc()
				log.Warn().Err(err).Str("id", f.ID).Str("ref", ref).Msg("Encyclopedia lookup failed")
				return nil
			}
			article = found
			hasWiki = true
			return nil
		})
	}
	_ = g.Wait()

	// Fixed application order resolves the image race: the image repository
	// first, the encyclopedia last so its imagery always wins.
	if len(images) > 0 {
		out.Props.Images = images
		out.Props.ImageSource = "commons"
	} else if len(out.Props.Images) == 0 && len(c.fallbackImages) > 0 {
		out.Props.Images = append([]string(nil), c.fallbackImages...)
		out.Props.ImageSource = "fallback"
	}

	if facts.Period != "" {
		out.Props.Period = facts.Period
	}
	if facts.Style != "" {
		out.Props.Style = facts.Style
	}

	if hasWiki {
		if article.Description != "" {
			out.Props.Description = article.Description
		}
		if len(article.Images) > 0 {
			out.Props.Images = article.Images
			out.Props.ImageSource = "wikipedia"
		}
		if article.Link.URL != "" {
			out.Props.Links = appendLink(out.Props.Links, article.Link)
		}
	}

	stamp := c.now()
	out.Props.LastFetched = &stamp
	return out
}

// searchKey derives a human-readable image search key: name, then the
// encyclopedia title, then the legacy denomination fields, then coordinates.
func (c *Client) searchKey(f geo.Feature) string {
	if f.Props.Name != "" {
		return f.Props.Name
	}
	if _, title, ok := splitWikiRef(f.Props.Wikipedia); ok {
		return title
	}
	if f.Props.Deno != "" {
		return f.Props.Deno
	}
	if f.Props.Tico != "" {
		return f.Props.Tico
	}
	return f.CoordKey()
}

// splitWikiRef parses a "language:Title" encyclopedia reference.
func splitWikiRef(ref string) (lang, title string, ok bool) {
	lang, title, ok = strings.Cut(ref, ":")
	if !ok || lang == "" || title == "" {
		return "", "", false
	}
	return lang, title, true
}

func appendLink(links []geo.Link, l geo.Link) []geo.Link {
	for _, have := range links {
		if have.URL == l.URL {
			return links
		}
	}
	return append(links, l)
}

// getJSON issues a GET with the request context and decodes the body.
func (c *Client) getJSON(ctx context.Context, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
