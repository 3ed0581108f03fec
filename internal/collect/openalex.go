// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/pkg/types"
)

// openAlexWorksBase is the OpenAlex Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexWorksBase = "https://api.openalex.org/works"

// maxConcepts caps how many OpenAlex concepts become paper keywords.
const maxConcepts = 8

// OpenAlexBackend fetches journal articles from the OpenAlex API, most
// cited first.
type OpenAlexBackend struct {
	Client *http.Client
	// Email is sent as mailto parameter for polite pool access.
	Email string
}

// Name returns the backend identifier.
func (b *OpenAlexBackend) Name() string { return "openalex" }

// FetchJournal lists the journal's most-cited articles in the configured
// year range.
func (b *OpenAlexBackend) FetchJournal(ctx context.Context, journal types.Journal, cfg types.CollectConfig) ([]types.Paper, error) {
	perPage := cfg.MaxPerJournal
	if perPage <= 0 {
		perPage = 200
	}
	if perPage > 200 {
		perPage = 200
	}

	filter := fmt.Sprintf("primary_location.source.issn:%s,publication_year:%d-%d,type:article",
		journal.ISSN, cfg.FromYear, cfg.ToYear)

	params := url.Values{
		"filter":   {filter},
		"sort":     {"cited_by_count:desc"},
		"per_page": {fmt.Sprintf("%d", perPage)},
	}
	if b.Email != "" {
		params.Set("mailto", b.Email)
	}

	var oar openAlexResponse
	if err := httputil.GetJSON(ctx, b.Client, openAlexWorksBase, params, cfg.UserAgent, &oar); err != nil {
		return nil, fmt.Errorf("OpenAlex works query: %w", err)
	}

	var papers []types.Paper
	for _, work := range oar.Results {
		if work.Title == "" {
			continue
		}
		p := types.Paper{
			Title:         work.Title,
			JournalCode:   journal.Code,
			JournalName:   journal.Name,
			Year:          work.PublicationYear,
			Abstract:      reconstructAbstract(work.AbstractInvertedIndex),
			CitationCount: work.CitedByCount,
		}

		for _, authorship := range work.Authorships {
			if authorship.Author.DisplayName != "" {
				p.Authors = append(p.Authors, authorship.Author.DisplayName)
			}
		}

		if work.DOI != "" {
			p.SourceURL = work.DOI
		} else {
			p.SourceURL = work.ID
		}
		if work.OpenAccess.IsOA && work.OpenAccess.OAURL != "" {
			p.PDFURL = work.OpenAccess.OAURL
		}

		for i, c := range work.Concepts {
			if i >= maxConcepts {
				break
			}
			if c.DisplayName != "" {
				p.Keywords = append(p.Keywords, strings.ToLower(c.DisplayName))
			}
		}

		papers = append(papers, p)
	}
	return papers, nil
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to the positions where it
// appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationYear       int                  `json:"publication_year"`
	CitedByCount          int                  `json:"cited_by_count"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	OpenAccess            openAlexOpenAccess   `json:"open_access"`
	Concepts              []openAlexConcept    `json:"concepts"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexOpenAccess struct {
	IsOA     bool   `json:"is_oa"`
	OAStatus string `json:"oa_status"`
	OAURL    string `json:"oa_url"`
}

type openAlexConcept struct {
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
}
