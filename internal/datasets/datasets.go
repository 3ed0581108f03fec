// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package datasets finds candidate datasets for research ideas. Search
// queries are derived from the idea, fanned out across several dataset
// repositories concurrently, deduplicated, scored for relevance, and
// the best matches persisted.
package datasets

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/research-agent/internal/ai"
	"github.com/pdiddy/research-agent/internal/store"
	"github.com/pdiddy/research-agent/pkg/types"
)

const (
	defaultMaxQueries = 7
	defaultMaxResults = 10
	perBackendResults = 5
	defaultRelevance  = 50
)

// Backend searches one dataset repository.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, max int) ([]types.DatasetCandidate, error)
}

// Finder runs the dataset matching stage.
type Finder struct {
	ai       ai.Client
	store    *store.Store
	backends []Backend
	cfg      types.DatasetsConfig
}

// New builds a Finder over the given repository backends.
func New(client ai.Client, st *store.Store, backends []Backend, cfg types.DatasetsConfig) *Finder {
	return &Finder{ai: client, store: st, backends: backends, cfg: cfg}
}

// FindForIdea searches all backends for datasets matching the idea and
// persists the top matches by relevance. Backend failures are logged
// and tolerated.
func (f *Finder) FindForIdea(ctx context.Context, ideaID int64, w io.Writer) ([]types.DatasetCandidate, error) {
	idea, err := f.store.IdeaByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	queries := f.generateQueries(ctx, idea, w)
	if len(queries) == 0 {
		return nil, fmt.Errorf("no search queries for idea %d", ideaID)
	}

	var candidates []types.DatasetCandidate
	for i, query := range queries {
		if i > 0 && f.cfg.QueryDelay > 0 {
			time.Sleep(f.cfg.QueryDelay)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		candidates = append(candidates, f.searchAll(ctx, query, w)...)
	}

	candidates = dedupe(candidates)
	if len(candidates) == 0 {
		fmt.Fprintf(w, "no datasets found for %q\n", idea.Title)
		return nil, nil
	}

	f.scoreCandidates(ctx, idea, candidates, w)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RelevanceScore > candidates[j].RelevanceScore
	})

	keep := f.cfg.MaxResults
	if keep <= 0 {
		keep = defaultMaxResults
	}
	if len(candidates) > keep {
		candidates = candidates[:keep]
	}

	if err := f.store.InsertDatasets(ctx, ideaID, candidates); err != nil {
		return nil, err
	}

	for _, c := range candidates {
		fmt.Fprintf(w, "dataset %s (%s, relevance %.0f)\n", c.Name, c.Source, c.RelevanceScore)
	}
	fmt.Fprintf(w, "\nmatched %d datasets to %q\n", len(candidates), idea.Title)
	return candidates, nil
}

// searchAll fans one query out across every backend concurrently.
func (f *Finder) searchAll(ctx context.Context, query string, w io.Writer) []types.DatasetCandidate {
	type result struct {
		backend    string
		candidates []types.DatasetCandidate
		err        error
	}

	results := make(chan result, len(f.backends))
	var wg sync.WaitGroup
	for _, b := range f.backends {
		wg.Add(1)
		go func(b Backend) {
			defer wg.Done()
			found, err := b.Search(ctx, query, perBackendResults)
			results <- result{backend: b.Name(), candidates: found, err: err}
		}(b)
	}
	wg.Wait()
	close(results)

	var all []types.DatasetCandidate
	for r := range results {
		if r.err != nil {
			fmt.Fprintf(w, "warning: %s search %q: %v\n", r.backend, query, r.err)
			continue
		}
		all = append(all, r.candidates...)
	}
	return all
}

// dedupe drops candidates whose case-folded (name, source) pair was
// already seen, keeping the first occurrence.
func dedupe(candidates []types.DatasetCandidate) []types.DatasetCandidate {
	seen := make(map[string]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		key := strings.ToLower(strings.TrimSpace(c.Name)) + "\x00" + strings.ToLower(strings.TrimSpace(c.Source))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
