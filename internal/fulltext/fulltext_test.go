package fulltext

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// mockExecutor simulates pdftotext availability and output.
type mockExecutor struct {
	available bool
	output    string
	err       error
	ranWith   []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.available {
		return "/usr/bin/" + file, nil
	}
	return "", fmt.Errorf("%s not found", file)
}

func (m *mockExecutor) RunCapture(name string, args ...string) ([]byte, error) {
	m.ranWith = args
	if m.err != nil {
		return nil, m.err
	}
	return []byte(m.output), nil
}

func writePDF(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "paper.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadEmptyPath(t *testing.T) {
	r := &Reader{exec: &mockExecutor{available: true}}
	if got := r.Read(""); got != "" {
		t.Errorf("read of empty path = %q", got)
	}
}

func TestReadMissingFile(t *testing.T) {
	r := &Reader{exec: &mockExecutor{available: true, output: "should not run"}}
	if got := r.Read(filepath.Join(t.TempDir(), "absent.pdf")); got != "" {
		t.Errorf("read of missing file = %q", got)
	}
}

func TestReadSidecarWins(t *testing.T) {
	dir := t.TempDir()
	path := writePDF(t, dir)
	sidecar := filepath.Join(dir, "paper.txt")
	if err := os.WriteFile(sidecar, []byte("sidecar text"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := &Reader{exec: &mockExecutor{available: true, output: "extractor text"}}
	if got := r.Read(path); got != "sidecar text" {
		t.Errorf("got %q, want sidecar text", got)
	}
}

func TestReadRunsPdftotext(t *testing.T) {
	path := writePDF(t, t.TempDir())

	mock := &mockExecutor{available: true, output: "extracted body"}
	r := &Reader{exec: mock}
	if got := r.Read(path); got != "extracted body" {
		t.Errorf("got %q", got)
	}
	if len(mock.ranWith) == 0 || mock.ranWith[len(mock.ranWith)-1] != "-" {
		t.Errorf("pdftotext args = %v, want stdout sink", mock.ranWith)
	}
}

func TestReadBinaryUnavailable(t *testing.T) {
	path := writePDF(t, t.TempDir())

	r := &Reader{exec: &mockExecutor{available: false}}
	if got := r.Read(path); got != "" {
		t.Errorf("got %q, want empty when pdftotext is missing", got)
	}
}

func TestReadExtractionFailure(t *testing.T) {
	path := writePDF(t, t.TempDir())

	r := &Reader{exec: &mockExecutor{available: true, err: fmt.Errorf("exit 1")}}
	if got := r.Read(path); got != "" {
		t.Errorf("got %q, want empty on extractor failure", got)
	}
}

func TestReadPlainTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("plain text body"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := &Reader{exec: &mockExecutor{available: false}}
	if got := r.Read(path); got != "plain text body" {
		t.Errorf("got %q", got)
	}
}
