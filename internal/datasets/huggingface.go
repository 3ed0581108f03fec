// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package datasets

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/pkg/types"
)

var huggingFaceDatasetsBase = "https://huggingface.co/api/datasets"

// HuggingFaceBackend searches the Hugging Face dataset hub.
type HuggingFaceBackend struct {
	Client    *http.Client
	UserAgent string
}

func (b *HuggingFaceBackend) Name() string { return "huggingface" }

type hfDataset struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Private     bool     `json:"private"`
}

func (b *HuggingFaceBackend) Search(ctx context.Context, query string, max int) ([]types.DatasetCandidate, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("limit", strconv.Itoa(max))

	var hits []hfDataset
	if err := httputil.GetJSON(ctx, b.Client, huggingFaceDatasetsBase, params, b.UserAgent, &hits); err != nil {
		return nil, err
	}

	var candidates []types.DatasetCandidate
	for _, hit := range hits {
		if hit.ID == "" {
			continue
		}
		access := "open"
		if hit.Private {
			access = "restricted"
		}
		candidates = append(candidates, types.DatasetCandidate{
			Name:          hit.ID,
			Source:        b.Name(),
			URL:           "https://huggingface.co/datasets/" + hit.ID,
			Description:   hit.Description,
			DataType:      hfModality(hit.Tags),
			Accessibility: access,
		})
	}
	return candidates, nil
}

// hfModality pulls the first modality tag, if any.
func hfModality(tags []string) string {
	for _, tag := range tags {
		if rest, ok := strings.CutPrefix(tag, "modality:"); ok {
			return rest
		}
	}
	return ""
}
