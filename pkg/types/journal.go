// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Journal describes one target journal with its source identifiers.
type Journal struct {
	// Code is the short registry code used throughout the pipeline.
	Code string `json:"code" yaml:"code"`

	// Name is the full journal name.
	Name string `json:"name" yaml:"name"`

	// ISSN is the print ISSN used for CrossRef and OpenAlex filters.
	ISSN string `json:"issn" yaml:"issn"`

	// EISSN is the electronic ISSN.
	EISSN string `json:"eissn,omitempty" yaml:"eissn,omitempty"`

	// OpenAlexID is the OpenAlex source identifier (e.g. "S205187041").
	OpenAlexID string `json:"openalex_id" yaml:"openalex_id"`
}

// Journals is the registry of target marketing journals.
var Journals = []Journal{
	{Code: "JM", Name: "Journal of Marketing", ISSN: "0022-2429", EISSN: "1547-7185", OpenAlexID: "S205187041"},
	{Code: "JMR", Name: "Journal of Marketing Research", ISSN: "0022-2437", EISSN: "1547-7193", OpenAlexID: "S49861276"},
	{Code: "MKSC", Name: "Marketing Science", ISSN: "0732-2399", EISSN: "1526-548X", OpenAlexID: "S16512636"},
	{Code: "JCR", Name: "Journal of Consumer Research", ISSN: "0093-5301", EISSN: "1537-5277", OpenAlexID: "S144285006"},
	{Code: "JAMS", Name: "Journal of the Academy of Marketing Science", ISSN: "0092-0703", EISSN: "1552-7824", OpenAlexID: "S122842597"},
	{Code: "IJRM", Name: "International Journal of Research in Marketing", ISSN: "0167-8116", EISSN: "1872-8383", OpenAlexID: "S204335043"},
}

// JournalByCode looks up a journal by its registry code, case-insensitively.
func JournalByCode(code string) (Journal, bool) {
	for _, j := range Journals {
		if strings.EqualFold(j.Code, code) {
			return j, true
		}
	}
	return Journal{}, false
}

// SelectJournals resolves a list of codes to registry entries. An empty
// list selects every registered journal. Unknown codes are skipped.
func SelectJournals(codes []string) []Journal {
	if len(codes) == 0 {
		return Journals
	}
	var out []Journal
	for _, code := range codes {
		if j, ok := JournalByCode(code); ok {
			out = append(out, j)
		}
	}
	return out
}
