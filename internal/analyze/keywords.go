// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// maxKeywords caps the keyword list length.
const maxKeywords = 20

// Keyword is one extracted term with its weight.
type Keyword struct {
	Term   string
	Weight float64
}

// stopwords are dropped before counting terms.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "from": true, "are": true, "was": true, "were": true,
	"have": true, "has": true, "had": true, "not": true, "but": true,
	"can": true, "our": true, "their": true, "these": true, "those": true,
	"such": true, "which": true, "when": true, "where": true, "while": true,
	"into": true, "than": true, "then": true, "its": true, "also": true,
	"more": true, "most": true, "may": true, "between": true, "based": true,
	"using": true, "used": true, "use": true, "how": true, "what": true,
	"each": true, "both": true, "all": true, "one": true, "two": true,
	"however": true, "results": true, "study": true, "paper": true,
	"research": true, "findings": true, "effect": true, "effects": true,
}

// ExtractKeywords ranks the document's terms by TF-IDF weight. With a
// single document the IDF term is a constant, so the ranking reduces to
// term frequency; weights stay non-negative and descending. Returns at
// most 20 terms; empty input yields an empty list.
func ExtractKeywords(text string) []Keyword {
	counts := make(map[string]int)
	total := 0

	for _, tok := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(tok) < 3 || stopwords[tok] {
			continue
		}
		counts[tok]++
		total++
	}

	if total == 0 {
		return nil
	}

	// Single-document IDF: log(1 + corpus/docs-containing) with both 1.
	idf := math.Log(2)

	keywords := make([]Keyword, 0, len(counts))
	for term, count := range counts {
		tf := float64(count) / float64(total)
		keywords = append(keywords, Keyword{Term: term, Weight: tf * idf})
	}

	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Weight != keywords[j].Weight {
			return keywords[i].Weight > keywords[j].Weight
		}
		return keywords[i].Term < keywords[j].Term
	})

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// Terms returns just the ordered term strings.
func Terms(keywords []Keyword) []string {
	out := make([]string, len(keywords))
	for i, k := range keywords {
		out[i] = k.Term
	}
	return out
}
