// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sections splits recovered paper text into labeled sections using
// keyword boundary detection. Each section is located by its own
// independent scan over the full text, so ambiguous lines may be claimed
// by more than one section; that is the defined behavior, not a bug to
// resolve with global segmentation.
package sections

import "strings"

// Sections holds the labeled section bodies. A section that was not found
// is the empty string.
type Sections struct {
	Abstract     string
	Introduction string
	Methodology  string
	Results      string
	Discussion   string
	References   string
}

// sectionKeywords maps each section to the case-folded header phrases that
// open it. A section starts at a line that equals or starts with one of
// its phrases; capture stops at a line matching another section's phrase.
var sectionKeywords = map[string][]string{
	"abstract": {"abstract"},
	"introduction": {
		"introduction", "1. introduction", "1 introduction",
	},
	"methodology": {
		"methodology", "methods", "method", "research design",
		"data and methodology", "data and methods", "empirical strategy",
		"study design",
	},
	"results": {
		"results", "findings", "empirical results", "empirical findings",
	},
	"discussion": {
		"discussion", "general discussion", "conclusion", "conclusions",
		"implications", "managerial implications",
	},
	"references": {"references", "bibliography", "works cited"},
}

// Extract runs the six independent scans over fullText.
func Extract(fullText string) Sections {
	lines := strings.Split(fullText, "\n")
	return Sections{
		Abstract:     scan(lines, "abstract"),
		Introduction: scan(lines, "introduction"),
		Methodology:  scan(lines, "methodology"),
		Results:      scan(lines, "results"),
		Discussion:   scan(lines, "discussion"),
		References:   scan(lines, "references"),
	}
}

// scan captures the body of one section: lines after its header keyword up
// to the next line that opens a different section, trimmed and
// newline-joined.
func scan(lines []string, section string) string {
	keywords := sectionKeywords[section]

	var body []string
	capturing := false
	for _, raw := range lines {
		folded := strings.ToLower(strings.TrimSpace(raw))

		if !capturing {
			if matchesAny(folded, keywords) {
				capturing = true
			}
			continue
		}

		if opensOtherSection(folded, section) {
			break
		}
		body = append(body, strings.TrimSpace(raw))
	}

	return strings.TrimSpace(strings.Join(body, "\n"))
}

// opensOtherSection reports whether a folded line matches a header phrase
// belonging to a section other than current. Phrases shared with the
// current section's list never terminate capture.
func opensOtherSection(folded, current string) bool {
	currentSet := sectionKeywords[current]
	for name, phrases := range sectionKeywords {
		if name == current {
			continue
		}
		for _, phrase := range phrases {
			if contains(currentSet, phrase) {
				continue
			}
			if folded == phrase || strings.HasPrefix(folded, phrase) {
				return true
			}
		}
	}
	return false
}

func matchesAny(folded string, phrases []string) bool {
	for _, phrase := range phrases {
		if folded == phrase || strings.HasPrefix(folded, phrase) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
