// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package datasets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/pkg/types"
)

var dataGovSearchBase = "https://catalog.data.gov/api/3/action/package_search"

// DataGovBackend searches the US government open data catalog through
// its CKAN package_search action.
type DataGovBackend struct {
	Client    *http.Client
	UserAgent string
	APIKey    string
}

func (b *DataGovBackend) Name() string { return "data.gov" }

type ckanResponse struct {
	Success bool       `json:"success"`
	Result  ckanResult `json:"result"`
}

type ckanResult struct {
	Count   int           `json:"count"`
	Results []ckanPackage `json:"results"`
}

type ckanPackage struct {
	Name         string `json:"name"`
	Title        string `json:"title"`
	Notes        string `json:"notes"`
	Organization struct {
		Title string `json:"title"`
	} `json:"organization"`
	Resources []struct {
		Format string `json:"format"`
	} `json:"resources"`
}

func (b *DataGovBackend) Search(ctx context.Context, query string, max int) ([]types.DatasetCandidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("rows", strconv.Itoa(max))
	if b.APIKey != "" {
		params.Set("api_key", b.APIKey)
	}

	var resp ckanResponse
	if err := httputil.GetJSON(ctx, b.Client, dataGovSearchBase, params, b.UserAgent, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("package_search reported failure")
	}

	var candidates []types.DatasetCandidate
	for _, pkg := range resp.Result.Results {
		if pkg.Title == "" {
			continue
		}
		dataType := ""
		if len(pkg.Resources) > 0 {
			dataType = pkg.Resources[0].Format
		}
		candidates = append(candidates, types.DatasetCandidate{
			Name:          pkg.Title,
			Source:        b.Name(),
			URL:           "https://catalog.data.gov/dataset/" + pkg.Name,
			Description:   pkg.Notes,
			DataType:      dataType,
			Geography:     "United States",
			Accessibility: "open",
		})
	}
	return candidates, nil
}
