// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fulltext recovers plain text from downloaded papers. PDF
// extraction is delegated to the pdftotext binary when present; a sidecar
// .txt file next to the PDF is used when one exists. Recovery is
// best-effort: any failure yields empty text, never an error into the
// pipeline.
package fulltext

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunCapture(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunCapture(name string, args ...string) ([]byte, error) {
	var buf bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &buf
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const binPdftotext = "pdftotext"

// Reader recovers text from local paper files.
type Reader struct {
	exec executor
}

// NewReader returns a Reader using the host pdftotext binary if installed.
func NewReader() *Reader {
	return &Reader{exec: &osExecutor{}}
}

// Read returns the recovered text for the file at path, or "" when path is
// empty, the file is missing, or extraction fails.
func (r *Reader) Read(path string) string {
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}

	// A sidecar .txt wins over re-extraction.
	sidecar := strings.TrimSuffix(path, filepath.Ext(path)) + ".txt"
	if sidecar != path {
		if data, err := os.ReadFile(sidecar); err == nil {
			return string(data)
		}
	}

	if strings.EqualFold(filepath.Ext(path), ".txt") {
		data, err := os.ReadFile(path)
		if err != nil {
			return ""
		}
		return string(data)
	}

	if _, err := r.exec.LookPath(binPdftotext); err != nil {
		return ""
	}
	out, err := r.exec.RunCapture(binPdftotext, "-enc", "UTF-8", "-q", path, "-")
	if err != nil {
		return ""
	}
	return string(out)
}
