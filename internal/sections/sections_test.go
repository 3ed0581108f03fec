package sections

import (
	"strings"
	"testing"
)

func TestExtractMethodologyStopsAtResults(t *testing.T) {
	text := strings.Join([]string{
		"Some preamble text.",
		"methodology",
		"We ran a field experiment with 400 participants.",
		"Participants were randomly assigned to conditions.",
		"results",
		"The treatment group purchased 12% more.",
	}, "\n")

	got := Extract(text)

	want := "We ran a field experiment with 400 participants.\nParticipants were randomly assigned to conditions."
	if got.Methodology != want {
		t.Errorf("methodology = %q, want %q", got.Methodology, want)
	}
	if !strings.Contains(got.Results, "purchased 12% more") {
		t.Errorf("results = %q", got.Results)
	}
	if strings.Contains(got.Methodology, "purchased") {
		t.Error("methodology capture ran past the results header")
	}
}

func TestExtractFullPaper(t *testing.T) {
	text := strings.Join([]string{
		"Abstract",
		"We examine price framing.",
		"",
		"1. Introduction",
		"Pricing is central to marketing.",
		"",
		"Research Design",
		"A lab study was conducted.",
		"",
		"Discussion",
		"The effect generalizes.",
		"",
		"References",
		"Smith (2020).",
	}, "\n")

	got := Extract(text)

	if got.Abstract != "We examine price framing." {
		t.Errorf("abstract = %q", got.Abstract)
	}
	if got.Introduction != "Pricing is central to marketing." {
		t.Errorf("introduction = %q", got.Introduction)
	}
	if got.Methodology != "A lab study was conducted." {
		t.Errorf("methodology = %q", got.Methodology)
	}
	if got.Discussion != "The effect generalizes." {
		t.Errorf("discussion = %q", got.Discussion)
	}
	if got.References != "Smith (2020)." {
		t.Errorf("references = %q", got.References)
	}
}

func TestExtractMissingSectionsAreEmpty(t *testing.T) {
	got := Extract("Just a plain paragraph with no headers at all.")

	for name, val := range map[string]string{
		"abstract":     got.Abstract,
		"introduction": got.Introduction,
		"methodology":  got.Methodology,
		"results":      got.Results,
		"discussion":   got.Discussion,
		"references":   got.References,
	} {
		if val != "" {
			t.Errorf("%s = %q, want empty", name, val)
		}
	}
}

func TestExtractHeaderCaseInsensitive(t *testing.T) {
	text := "METHODOLOGY\nSurvey of 1,200 respondents.\nCONCLUSIONS\nDone."

	got := Extract(text)
	if got.Methodology != "Survey of 1,200 respondents." {
		t.Errorf("methodology = %q", got.Methodology)
	}
	if got.Discussion != "Done." {
		t.Errorf("discussion = %q", got.Discussion)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	got := Extract("")
	if got.Methodology != "" || got.Abstract != "" {
		t.Errorf("sections of empty text should be empty: %+v", got)
	}
}
