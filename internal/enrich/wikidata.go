package enrich

import (
	"context"
	"net/url"
	"strings"
)

// Claim properties read from the knowledge base.
const (
	claimPeriod = "P2348" // time period
	claimStyle  = "P149"  // architectural style
)

// entityFacts holds the mapped claim labels.
type entityFacts struct {
	Period string
	Style  string
}

type wikidataEntity struct {
	Claims map[string][]struct {
		Mainsnak struct {
			Datavalue struct {
				Value struct {
					ID string `json:"id"`
				} `json:"value"`
			} `json:"datavalue"`
		} `json:"mainsnak"`
	} `json:"claims"`
	Labels map[string]struct {
		Value string `json:"value"`
	} `json:"labels"`
}

type wikidataResponse struct {
	Entities map[string]wikidataEntity `json:"entities"`
}

// entityFacts retrieves the entity's claims and resolves the period and
// style targets to labels with a second lookup. Missing or malformed claims
// are skipped silently.
func (c *Client) entityFacts(ctx context.Context, qid string) (entityFacts, error) {
	var facts entityFacts

	entity, err := c.getEntities(ctx, []string{qid}, "claims")
	if err != nil {
		return facts, err
	}

	periodID := firstClaimTarget(entity[qid], claimPeriod)
	styleID := firstClaimTarget(entity[qid], claimStyle)
	if periodID == "" && styleID == "" {
		return facts, nil
	}

	var targets []string
	for _, id := range []string{periodID, styleID} {
		if id != "" {
			targets = append(targets, id)
		}
	}

	labels, err := c.getEntities(ctx, targets, "labels")
	if err != nil {
		return facts, err
	}

	facts.Period = entityLabel(labels[periodID])
	facts.Style = entityLabel(labels[styleID])
	return facts, nil
}

func (c *Client) getEntities(ctx context.Context, ids []string, props string) (map[string]wikidataEntity, error) {
	q := url.Values{}
	q.Set("action", "wbgetentities")
	q.Set("format", "json")
	q.Set("ids", strings.Join(ids, "|"))
	q.Set("props", props)
	q.Set("languages", "en|fr")

	var r wikidataResponse
	if err := c.getJSON(ctx, c.wikidataAPI+"?"+q.Encode(), &r); err != nil {
		return nil, err
	}
	return r.Entities, nil
}

func firstClaimTarget(e wikidataEntity, property string) string {
	claims := e.Claims[property]
	if len(claims) == 0 {
		return ""
	}
	return claims[0].Mainsnak.Datavalue.Value.ID
}

func entityLabel(e wikidataEntity) string {
	for _, lang := range []string{"en", "fr"} {
		if l, ok := e.Labels[lang]; ok && l.Value != "" {
			return l.Value
		}
	}
	return ""
}
