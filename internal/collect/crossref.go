// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/pkg/types"
)

// crossRefWorksBase is the CrossRef Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossRefWorksBase = "https://api.crossref.org/works"

// CrossRefBackend fetches journal articles from the CrossRef API. It runs
// after OpenAlex; papers already collected fall out as duplicates on
// insertion.
type CrossRefBackend struct {
	Client *http.Client
	// Email is sent as mailto parameter for the polite pool.
	Email string
}

// Name returns the backend identifier.
func (b *CrossRefBackend) Name() string { return "crossref" }

// FetchJournal lists the journal's most-cited articles in the configured
// year range.
func (b *CrossRefBackend) FetchJournal(ctx context.Context, journal types.Journal, cfg types.CollectConfig) ([]types.Paper, error) {
	rows := cfg.MaxPerJournal
	if rows <= 0 {
		rows = 200
	}
	if rows > 1000 {
		rows = 1000
	}

	filter := fmt.Sprintf("issn:%s,from-pub-date:%d-01-01,until-pub-date:%d-12-31,type:journal-article",
		journal.ISSN, cfg.FromYear, cfg.ToYear)

	params := url.Values{
		"filter": {filter},
		"rows":   {fmt.Sprintf("%d", rows)},
		"sort":   {"is-referenced-by-count"},
		"order":  {"desc"},
	}
	if b.Email != "" {
		params.Set("mailto", b.Email)
	}

	var cr crossRefResponse
	if err := httputil.GetJSON(ctx, b.Client, crossRefWorksBase, params, cfg.UserAgent, &cr); err != nil {
		return nil, fmt.Errorf("CrossRef works query: %w", err)
	}

	var papers []types.Paper
	for _, item := range cr.Message.Items {
		if len(item.Title) == 0 || item.Title[0] == "" {
			continue
		}
		p := types.Paper{
			Title:         item.Title[0],
			JournalCode:   journal.Code,
			JournalName:   journal.Name,
			Abstract:      stripJATS(item.Abstract),
			SourceURL:     item.URL,
			CitationCount: item.IsReferencedByCount,
		}

		for _, a := range item.Author {
			name := strings.TrimSpace(a.Family + ", " + a.Given)
			if name != "," {
				p.Authors = append(p.Authors, strings.Trim(name, ", "))
			}
		}

		if len(item.Issued.DateParts) > 0 && len(item.Issued.DateParts[0]) > 0 {
			p.Year = item.Issued.DateParts[0][0]
		}

		papers = append(papers, p)
	}
	return papers, nil
}

// jatsTag matches the JATS XML markup CrossRef embeds in abstracts.
var jatsTag = regexp.MustCompile(`</?jats:[^>]*>|</?[a-zA-Z][^>]*>`)

// stripJATS removes JATS/XML tags from a CrossRef abstract.
func stripJATS(s string) string {
	if s == "" {
		return ""
	}
	s = jatsTag.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// CrossRef API JSON structures.
type crossRefResponse struct {
	Message crossRefMessage `json:"message"`
}

type crossRefMessage struct {
	Items []crossRefItem `json:"items"`
}

type crossRefItem struct {
	Title               []string        `json:"title"`
	Author              []crossRefName  `json:"author"`
	Abstract            string          `json:"abstract"`
	URL                 string          `json:"URL"`
	IsReferencedByCount int             `json:"is-referenced-by-count"`
	Issued              crossRefPartial `json:"issued"`
}

type crossRefName struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossRefPartial struct {
	DateParts [][]int `json:"date-parts"`
}
