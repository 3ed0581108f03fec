// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/research-agent/pkg/types"
)

// methodologyRole is the system instruction for methodology analysis.
const methodologyRole = "You are an expert in marketing research methodology. You analyze academic papers and respond only with JSON."

// successRole is the system instruction for publishability assessment.
const successRole = "You are a senior reviewer for top marketing journals. You assess what makes papers publishable and respond only with JSON."

// methodologyPromptTmpl asks for a structured methodology summary of one
// paper's methodology section.
var methodologyPromptTmpl = template.Must(template.New("methodology").Parse(`Analyze the methodology of this academic marketing paper.

Respond with a JSON object with these fields:
- methodology: one-sentence summary of the research design (e.g. "between-subjects lab experiment", "panel regression on scanner data")
- data_sources: list of data sources used (e.g. ["consumer survey", "scanner panel"])
- analysis_methods: list of analytical techniques (e.g. ["difference-in-differences", "structural equation modeling"])
- key_findings: one or two sentences on the main result
- theoretical_framework: the theory or framework the paper builds on

Do not include any text outside the JSON object.

Methodology section:
{{.Text}}
`))

// successPromptTmpl asks for sub-scores and success factors for one paper.
var successPromptTmpl = template.Must(template.New("success").Parse(`Assess what makes this marketing paper publishable in a top journal.

Paper: {{.Title}}
Journal: {{.Journal}}
Year: {{.Year}}
Citations: {{.Citations}}

Respond with a JSON object with these fields, scoring each dimension 0-100:
- data_quality: quality and richness of the data
- methodology_rigor: rigor of the research design and analysis
- theoretical_contribution: strength of the theoretical advance
- novelty: originality of the question or approach
- impact: likely influence on research and practice
- key_success_factors: JSON object describing what makes this paper succeed
- methodology_details: JSON object with design, sample, and measures
- data_characteristics: JSON object with data scale, period, and granularity
- analytical_approach: JSON object with the main techniques and why they fit
- recommendations: list of short recommendations for researchers emulating this paper

Do not include any text outside the JSON object.

Paper text:
{{.Text}}
`))

func renderMethodologyPrompt(text string) (string, error) {
	var buf bytes.Buffer
	err := methodologyPromptTmpl.Execute(&buf, struct{ Text string }{Text: text})
	return buf.String(), err
}

func renderSuccessPrompt(paper *types.Paper, text string) (string, error) {
	var buf bytes.Buffer
	err := successPromptTmpl.Execute(&buf, struct {
		Title     string
		Journal   string
		Year      int
		Citations int
		Text      string
	}{paper.Title, paper.JournalName, paper.Year, paper.CitationCount, text})
	return buf.String(), err
}
