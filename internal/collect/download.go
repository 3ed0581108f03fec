// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/pdiddy/research-agent/pkg/types"
)

// PDFDownloader fetches open-access PDFs into a local directory.
type PDFDownloader struct {
	Client    *http.Client
	Dir       string
	UserAgent string
}

// Download fetches the paper's open-access PDF and returns the local path.
// The file is written to a temp name first and renamed into place so a
// failed download never leaves a partial PDF.
func (d *PDFDownloader) Download(ctx context.Context, paper *types.Paper) (string, error) {
	if paper.PDFURL == "" {
		return "", fmt.Errorf("paper %q has no open-access PDF", paper.Title)
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating pdf directory: %w", err)
	}

	destPath := filepath.Join(d.Dir, fmt.Sprintf("%s-%d.pdf", slug(paper.JournalCode), paper.ID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, paper.PDFURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", d.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, paper.PDFURL)
	}

	tmpFile, err := os.CreateTemp(d.Dir, ".collect-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return destPath, nil
}

// slug lowercases s and keeps only letters, digits, and hyphens.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		}
	}
	return b.String()
}
