// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect gathers paper metadata for the registered journals from
// bibliographic APIs and writes raw paper records into the store.
// OpenAlex is the primary source; CrossRef runs second, with duplicates
// absorbed by the store's (title, journal) uniqueness rule.
package collect

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/research-agent/internal/store"
	"github.com/pdiddy/research-agent/pkg/types"
)

// Backend fetches paper metadata for one journal. Each bibliographic API
// implements this interface.
type Backend interface {
	Name() string
	FetchJournal(ctx context.Context, journal types.Journal, cfg types.CollectConfig) ([]types.Paper, error)
}

// Summary holds counts from one collection run.
type Summary struct {
	Inserted   int
	Duplicates int
	Downloaded int
	Failed     int
}

// Total returns the number of papers processed.
func (s Summary) Total() int {
	return s.Inserted + s.Duplicates + s.Failed
}

// HasFailures reports whether any journal fetch or insert failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Downloader fetches a paper's open-access PDF and returns the local path.
type Downloader interface {
	Download(ctx context.Context, paper *types.Paper) (string, error)
}

// Collector bundles a collection run's dependencies so the stage can be
// invoked repeatedly with one call.
type Collector struct {
	Store      *store.Store
	Backends   []Backend
	Downloader Downloader
	Cfg        types.CollectConfig
}

// Run collects papers with the bundled dependencies.
func (c *Collector) Run(ctx context.Context, w io.Writer) (Summary, error) {
	return Run(ctx, c.Store, c.Backends, c.Downloader, c.Cfg, w)
}

// Run collects papers from every backend for the selected journals. A
// failing journal or paper is logged and counted, never fatal; store
// errors other than duplicates propagate.
func Run(ctx context.Context, st *store.Store, backends []Backend, dl Downloader, cfg types.CollectConfig, w io.Writer) (Summary, error) {
	journals := types.SelectJournals(cfg.Journals)
	if len(journals) == 0 {
		return Summary{}, fmt.Errorf("no known journals selected from %v", cfg.Journals)
	}

	var summary Summary
	first := true
	for _, journal := range journals {
		for _, b := range backends {
			if !first && cfg.RequestDelay > 0 {
				time.Sleep(cfg.RequestDelay)
			}
			first = false

			papers, err := b.FetchJournal(ctx, journal, cfg)
			if err != nil {
				fmt.Fprintf(w, "failed  %s/%s: %v\n", journal.Code, b.Name(), err)
				summary.Failed++
				continue
			}

			fmt.Fprintf(w, "fetched %s/%s: %d papers\n", journal.Code, b.Name(), len(papers))

			for i := range papers {
				paper := &papers[i]
				created, err := st.InsertPaper(ctx, paper)
				if err != nil {
					return summary, fmt.Errorf("storing paper %q: %w", paper.Title, err)
				}
				if !created {
					summary.Duplicates++
					continue
				}
				summary.Inserted++

				if cfg.DownloadPDFs && dl != nil && paper.PDFURL != "" {
					path, err := dl.Download(ctx, paper)
					if err != nil {
						fmt.Fprintf(w, "warning: pdf %s: %v\n", paper.Title, err)
						continue
					}
					if err := st.UpdatePaperPDFPath(ctx, paper.ID, path); err != nil {
						return summary, err
					}
					summary.Downloaded++
				}
			}
		}
	}

	fmt.Fprintf(w, "\ninserted: %d, duplicates: %d, downloaded: %d, failed: %d\n",
		summary.Inserted, summary.Duplicates, summary.Downloaded, summary.Failed)

	return summary, nil
}
