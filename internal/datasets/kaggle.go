// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package datasets

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/pkg/types"
)

var kaggleListBase = "https://www.kaggle.com/api/v1/datasets/list"

// KaggleBackend searches the Kaggle dataset marketplace. The public
// endpoint rejects unauthenticated callers, so failures here are
// expected and left for the finder to log.
type KaggleBackend struct {
	Client    *http.Client
	UserAgent string
}

func (b *KaggleBackend) Name() string { return "kaggle" }

type kaggleDataset struct {
	Ref      string `json:"ref"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	URL      string `json:"url"`
}

func (b *KaggleBackend) Search(ctx context.Context, query string, max int) ([]types.DatasetCandidate, error) {
	params := url.Values{}
	params.Set("search", query)

	var hits []kaggleDataset
	if err := httputil.GetJSON(ctx, b.Client, kaggleListBase, params, b.UserAgent, &hits); err != nil {
		return nil, err
	}

	var candidates []types.DatasetCandidate
	for _, hit := range hits {
		if len(candidates) == max {
			break
		}
		if hit.Title == "" {
			continue
		}
		link := hit.URL
		if link == "" && hit.Ref != "" {
			link = "https://www.kaggle.com/datasets/" + hit.Ref
		}
		candidates = append(candidates, types.DatasetCandidate{
			Name:          hit.Title,
			Source:        b.Name(),
			URL:           link,
			Description:   hit.Subtitle,
			Accessibility: "registration required",
		})
	}
	return candidates, nil
}
