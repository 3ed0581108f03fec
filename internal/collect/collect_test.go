package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/pdiddy/research-agent/internal/store"
	"github.com/pdiddy/research-agent/pkg/types"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(types.StoreConfig{DataDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// fakeBackend returns canned papers or an error.
type fakeBackend struct {
	name   string
	papers []types.Paper
	err    error
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) FetchJournal(ctx context.Context, journal types.Journal, cfg types.CollectConfig) ([]types.Paper, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]types.Paper, len(f.papers))
	copy(out, f.papers)
	for i := range out {
		out[i].JournalCode = journal.Code
		out[i].JournalName = journal.Name
	}
	return out, nil
}

func TestRunInsertsAndCountsDuplicates(t *testing.T) {
	s := testStore(t)

	shared := types.Paper{Title: "Shared Paper", Year: 2022, CitationCount: 10}
	only := types.Paper{Title: "OpenAlex Only", Year: 2023}

	backends := []Backend{
		&fakeBackend{name: "openalex", papers: []types.Paper{shared, only}},
		&fakeBackend{name: "crossref", papers: []types.Paper{shared}},
	}

	var buf strings.Builder
	cfg := types.CollectConfig{Journals: []string{"JM"}}
	summary, err := Run(context.Background(), s, backends, nil, cfg, &buf)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Inserted != 2 {
		t.Errorf("inserted = %d, want 2", summary.Inserted)
	}
	if summary.Duplicates != 1 {
		t.Errorf("duplicates = %d, want 1", summary.Duplicates)
	}
	if summary.Failed != 0 {
		t.Errorf("failed = %d", summary.Failed)
	}

	papers, err := s.UnanalyzedPapers(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 2 {
		t.Errorf("stored papers = %d, want 2", len(papers))
	}
}

func TestRunContinuesPastBackendFailure(t *testing.T) {
	s := testStore(t)

	backends := []Backend{
		&fakeBackend{name: "openalex", err: fmt.Errorf("HTTP 500")},
		&fakeBackend{name: "crossref", papers: []types.Paper{{Title: "Survivor"}}},
	}

	var buf strings.Builder
	cfg := types.CollectConfig{Journals: []string{"JMR"}}
	summary, err := Run(context.Background(), s, backends, nil, cfg, &buf)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Failed != 1 {
		t.Errorf("failed = %d, want 1", summary.Failed)
	}
	if summary.Inserted != 1 {
		t.Errorf("inserted = %d, want 1", summary.Inserted)
	}
	if !strings.Contains(buf.String(), "failed  JMR/openalex") {
		t.Errorf("missing failure line in output:\n%s", buf.String())
	}
}

func TestRunRejectsUnknownJournals(t *testing.T) {
	s := testStore(t)
	cfg := types.CollectConfig{Journals: []string{"NOPE"}}
	_, err := Run(context.Background(), s, nil, nil, cfg, &strings.Builder{})
	if err == nil {
		t.Fatal("expected error for unknown journal selection")
	}
}

func TestOpenAlexFetchJournal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("filter")
		if !strings.Contains(filter, "primary_location.source.issn:0022-2429") {
			t.Errorf("filter = %q", filter)
		}
		if !strings.Contains(filter, "publication_year:2020-2024") {
			t.Errorf("filter missing year range: %q", filter)
		}
		if got := r.URL.Query().Get("sort"); got != "cited_by_count:desc" {
			t.Errorf("sort = %q", got)
		}
		if got := r.URL.Query().Get("mailto"); got != "me@example.com" {
			t.Errorf("mailto = %q", got)
		}

		fmt.Fprint(w, `{"meta": {"count": 1}, "results": [{
			"id": "https://openalex.org/W1",
			"title": "Price Framing Effects",
			"doi": "https://doi.org/10.1000/jm.1",
			"publication_year": 2022,
			"cited_by_count": 150,
			"authorships": [{"author": {"display_name": "Jane Smith"}}],
			"abstract_inverted_index": {"We": [0], "study": [1], "pricing.": [2]},
			"open_access": {"is_oa": true, "oa_url": "https://example.com/p.pdf"},
			"concepts": [{"display_name": "Marketing", "score": 0.9}]
		}]}`)
	}))
	defer ts.Close()

	old := openAlexWorksBase
	openAlexWorksBase = ts.URL
	defer func() { openAlexWorksBase = old }()

	b := &OpenAlexBackend{Client: ts.Client(), Email: "me@example.com"}
	journal, _ := types.JournalByCode("JM")
	cfg := types.CollectConfig{FromYear: 2020, ToYear: 2024, MaxPerJournal: 50}

	papers, err := b.FetchJournal(context.Background(), journal, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 1 {
		t.Fatalf("papers = %d", len(papers))
	}

	p := papers[0]
	if p.Title != "Price Framing Effects" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Abstract != "We study pricing." {
		t.Errorf("abstract = %q", p.Abstract)
	}
	if p.CitationCount != 150 || p.Year != 2022 {
		t.Errorf("citations/year = %d/%d", p.CitationCount, p.Year)
	}
	if p.PDFURL != "https://example.com/p.pdf" {
		t.Errorf("pdf url = %q", p.PDFURL)
	}
	if len(p.Keywords) != 1 || p.Keywords[0] != "marketing" {
		t.Errorf("keywords = %v", p.Keywords)
	}
	if p.JournalCode != "JM" {
		t.Errorf("journal code = %q", p.JournalCode)
	}
}

func TestCrossRefFetchJournal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("filter")
		if !strings.Contains(filter, "issn:0732-2399") {
			t.Errorf("filter = %q", filter)
		}
		if !strings.Contains(filter, "from-pub-date:2021-01-01") {
			t.Errorf("filter missing from-pub-date: %q", filter)
		}

		fmt.Fprint(w, `{"message": {"items": [{
			"title": ["Demand Estimation at Scale"],
			"author": [{"given": "Ana", "family": "Lopez"}],
			"abstract": "<jats:p>A structural model of demand.</jats:p>",
			"URL": "https://doi.org/10.1000/mksc.2",
			"is-referenced-by-count": 75,
			"issued": {"date-parts": [[2021, 6]]}
		}]}}`)
	}))
	defer ts.Close()

	old := crossRefWorksBase
	crossRefWorksBase = ts.URL
	defer func() { crossRefWorksBase = old }()

	b := &CrossRefBackend{Client: ts.Client()}
	journal, _ := types.JournalByCode("MKSC")
	cfg := types.CollectConfig{FromYear: 2021, ToYear: 2023}

	papers, err := b.FetchJournal(context.Background(), journal, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 1 {
		t.Fatalf("papers = %d", len(papers))
	}

	p := papers[0]
	if p.Title != "Demand Estimation at Scale" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Abstract != "A structural model of demand." {
		t.Errorf("abstract = %q", p.Abstract)
	}
	if len(p.Authors) != 1 || p.Authors[0] != "Lopez, Ana" {
		t.Errorf("authors = %v", p.Authors)
	}
	if p.Year != 2021 || p.CitationCount != 75 {
		t.Errorf("year/citations = %d/%d", p.Year, p.CitationCount)
	}
}

func TestPDFDownloader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 body"))
	}))
	defer ts.Close()

	dir := t.TempDir()
	dl := &PDFDownloader{Client: ts.Client(), Dir: dir, UserAgent: "test/0.1"}
	paper := &types.Paper{ID: 7, Title: "Has PDF", JournalCode: "JM", PDFURL: ts.URL + "/p.pdf"}

	path, err := dl.Download(context.Background(), paper)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%PDF-1.4 body" {
		t.Errorf("content = %q", data)
	}
	if !strings.HasSuffix(path, "jm-7.pdf") {
		t.Errorf("path = %q", path)
	}

	// No stray temp files.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("dir entries = %d, want 1", len(entries))
	}
}

func TestPDFDownloaderHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer ts.Close()

	dl := &PDFDownloader{Client: ts.Client(), Dir: t.TempDir()}
	paper := &types.Paper{ID: 1, JournalCode: "JM", PDFURL: ts.URL}
	if _, err := dl.Download(context.Background(), paper); err == nil {
		t.Fatal("expected error on HTTP 403")
	}
}

func TestStripJATS(t *testing.T) {
	in := `<jats:p>We show <jats:italic>effects</jats:italic> of ads.</jats:p>`
	if got := stripJATS(in); got != "We show effects of ads." {
		t.Errorf("got %q", got)
	}
}
