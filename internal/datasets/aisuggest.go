// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package datasets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/research-agent/internal/ai"
	"github.com/pdiddy/research-agent/pkg/types"
)

const suggestRole = "You are a data librarian with broad knowledge of public and commercial datasets. You respond only with JSON."

var suggestPromptTmpl = template.Must(template.New("suggest").Parse(`Suggest real, existing datasets matching this search: "{{.Query}}"

Only name datasets you are confident exist. Respond with JSON only:
{
  "datasets": [
    {
      "name": "...",
      "source": "who publishes it",
      "url": "...",
      "description": "...",
      "data_type": "panel|survey|transaction|text|...",
      "variables": ["..."],
      "time_period": "...",
      "geography": "...",
      "accessibility": "open|registration required|paid|restricted"
    }
  ]
}`))

// AISuggestBackend asks the model itself for dataset suggestions,
// covering sources no catalog API reaches.
type AISuggestBackend struct {
	AI ai.Client
}

func (b *AISuggestBackend) Name() string { return "ai-suggest" }

type suggestedDataset struct {
	Name          string   `json:"name"`
	Source        string   `json:"source"`
	URL           string   `json:"url"`
	Description   string   `json:"description"`
	DataType      string   `json:"data_type"`
	Variables     []string `json:"variables"`
	TimePeriod    string   `json:"time_period"`
	Geography     string   `json:"geography"`
	Accessibility string   `json:"accessibility"`
}

func (b *AISuggestBackend) Search(ctx context.Context, query string, max int) ([]types.DatasetCandidate, error) {
	var buf strings.Builder
	if err := suggestPromptTmpl.Execute(&buf, struct{ Query string }{Query: query}); err != nil {
		return nil, fmt.Errorf("rendering suggest prompt: %w", err)
	}

	raw, err := b.AI.CompleteJSON(ctx, suggestRole, buf.String(), 0.3)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Datasets []suggestedDataset `json:"datasets"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parsing suggestions: %w", err)
	}

	var candidates []types.DatasetCandidate
	for _, d := range resp.Datasets {
		if len(candidates) == max {
			break
		}
		if d.Name == "" {
			continue
		}
		source := d.Source
		if source == "" {
			source = b.Name()
		}
		candidates = append(candidates, types.DatasetCandidate{
			Name:          d.Name,
			Source:        source,
			URL:           d.URL,
			Description:   d.Description,
			DataType:      d.DataType,
			Variables:     d.Variables,
			TimePeriod:    d.TimePeriod,
			Geography:     d.Geography,
			Accessibility: d.Accessibility,
		})
	}
	return candidates, nil
}
