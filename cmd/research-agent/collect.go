// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-agent/internal/collect"
	"github.com/pdiddy/research-agent/pkg/types"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect papers from the registered marketing journals",
	Long: `Collect fetches paper metadata for the registered journals from
OpenAlex and CrossRef, most-cited first, and stores new papers. Papers
already collected are counted as duplicates and skipped. With
--download-pdfs, open-access PDFs are saved under the data directory.`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().Int("from", time.Now().Year()-5, "earliest publication year")
	collectCmd.Flags().Int("to", time.Now().Year(), "latest publication year")
	collectCmd.Flags().StringSlice("journals", nil, "journal codes to collect (default: all registered)")
	collectCmd.Flags().Int("max", 50, "maximum papers per journal per source")
	collectCmd.Flags().Duration("delay", 0, "delay between API requests (default 1s)")
	collectCmd.Flags().Bool("download-pdfs", false, "download open-access PDFs")
	collectCmd.Flags().String("mailto", "", "contact email for polite API access (default: openalex-email secret)")
	collectCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(collectCmd)
}

func collectConfig(cmd *cobra.Command) types.CollectConfig {
	from, _ := cmd.Flags().GetInt("from")
	to, _ := cmd.Flags().GetInt("to")
	journals, _ := cmd.Flags().GetStringSlice("journals")
	max, _ := cmd.Flags().GetInt("max")
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	download, _ := cmd.Flags().GetBool("download-pdfs")
	mailto, _ := cmd.Flags().GetString("mailto")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return types.CollectConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		FromYear:      from,
		ToYear:        to,
		Journals:      journals,
		MaxPerJournal: max,
		Mailto:        secretDefault("openalex-email", mailto),
		RequestDelay:  delay,
		DownloadPDFs:  download,
	}
}

func runCollect(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	cfg := collectConfig(cmd)
	client := newHTTPClient(cmd)

	backends := []collect.Backend{
		&collect.OpenAlexBackend{Client: client, Email: cfg.Mailto},
		&collect.CrossRefBackend{Client: client, Email: cfg.Mailto},
	}
	downloader := &collect.PDFDownloader{
		Client:    client,
		Dir:       filepath.Join(st.DataDir(), "pdfs"),
		UserAgent: cfg.UserAgent,
	}

	summary, err := collect.Run(context.Background(), st, backends, downloader, cfg, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d journal fetch(es) failed", summary.Failed)
	}
	return nil
}
