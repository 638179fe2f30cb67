// Package semantic issues deeper analysis requests to an external
// text-completion provider through a caller-supplied proxy, defensively
// decodes the JSON it returns, and maps it to findings. Line attribution for
// these findings is best-effort text matching, not exact positioning.
package semantic

import "context"

// CompleteFunc is the outbound provider boundary: it accepts a prompt and a
// system instruction and returns the raw response text. The core treats it
// as an opaque, possibly slow, possibly failing capability.
type CompleteFunc func(ctx context.Context, prompt, system string) (string, error)

// referencedIssue is one provider-reported issue anchored to an excerpt of
// the document text.
type referencedIssue struct {
	Description string `json:"description"`
	Excerpt     string `json:"excerpt"`
}

// contradiction references the two conflicting excerpts.
type contradiction struct {
	Description   string `json:"description"`
	FirstExcerpt  string `json:"first_excerpt"`
	SecondExcerpt string `json:"second_excerpt"`
}

// loadAssessment is the provider's cognitive-load estimate on a 1-10 scale.
type loadAssessment struct {
	Score     int    `json:"score"`
	Rationale string `json:"rationale"`
}

// outputShape is the provider's prediction of what the prompt will produce.
type outputShape struct {
	Shape      string `json:"shape"`
	Confidence string `json:"confidence"`
}

// documentAnalysis is the combined single-document response payload.
type documentAnalysis struct {
	Contradictions []contradiction   `json:"contradictions"`
	Ambiguities    []referencedIssue `json:"ambiguities"`
	PersonaIssues  []referencedIssue `json:"persona_issues"`
	CognitiveLoad  *loadAssessment   `json:"cognitive_load"`
	OutputShape    *outputShape      `json:"predicted_output"`
	CoverageGaps   []referencedIssue `json:"coverage_gaps"`
}

// compositionConflict is one cross-document conflict from the composed pass.
type compositionConflict struct {
	Description    string `json:"description"`
	SourceExcerpt  string `json:"source_excerpt"`
	LinkedExcerpt  string `json:"linked_excerpt"`
	LinkedDocument string `json:"linked_document"`
}

// compositionAnalysis is the composed-view response payload.
type compositionAnalysis struct {
	Conflicts []compositionConflict `json:"conflicts"`
}
