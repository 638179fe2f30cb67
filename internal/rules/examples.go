package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/harrison/promptcheck/internal/models"
	"github.com/harrison/promptcheck/internal/parser"
)

// Finding codes produced by the example-sufficiency check.
const (
	CodeMissingExample      = "missing-example"
	CodeExamplePairMismatch = "example-pair-mismatch"
)

var (
	// formatRequestPattern matches lines demanding a structured output format.
	formatRequestPattern = regexp.MustCompile(
		`(?i)\b(?:respond|reply|answer|output|format|return)\b[^.\n]{0,40}\b(json|xml|yaml|csv|markdown table|table)\b`)

	// exampleMarkerPattern matches labeled example input/output markers.
	exampleMarkerPattern = regexp.MustCompile(`(?i)^\s*(?:###?\s*)?(?:example\s+)?(input|output)\s*[:#]`)
)

// checkExamples applies two heuristics: a structured output format requested
// without any example, and mismatched counts of labeled input/output example
// markers.
func checkExamples(doc *parser.Document) []models.Finding {
	var findings []models.Finding

	formatLine := -1
	formatName := ""
	hasFence := false
	hasExampleWord := false
	inputs := 0
	outputs := 0
	firstMarkerLine := -1
	inCodeBlock := false

	for i, line := range doc.Lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			hasFence = true
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock || withinFrontmatter(doc, i) {
			continue
		}

		if formatLine < 0 {
			if m := formatRequestPattern.FindStringSubmatch(line); m != nil {
				formatLine = i
				formatName = strings.ToLower(m[1])
			}
		}
		if strings.Contains(strings.ToLower(line), "example") {
			hasExampleWord = true
		}
		if m := exampleMarkerPattern.FindStringSubmatch(line); m != nil {
			if firstMarkerLine < 0 {
				firstMarkerLine = i
			}
			if strings.EqualFold(m[1], "input") {
				inputs++
			} else {
				outputs++
			}
		}
	}

	if formatLine >= 0 && !hasFence && !hasExampleWord {
		findings = append(findings, models.Finding{
			Code:     CodeMissingExample,
			Message:  fmt.Sprintf("a %s output format is requested but the document shows no example of it", formatName),
			Severity: models.SeverityInfo,
			Range:    models.WholeLine(formatLine, lineLen(doc, formatLine)),
			Source:   "examples",
		})
	}

	if (inputs > 0 || outputs > 0) && inputs != outputs {
		findings = append(findings, models.Finding{
			Code:     CodeExamplePairMismatch,
			Message:  fmt.Sprintf("labeled examples are unpaired: %d input marker(s) vs %d output marker(s)", inputs, outputs),
			Severity: models.SeverityWarning,
			Range:    models.WholeLine(firstMarkerLine, lineLen(doc, firstMarkerLine)),
			Source:   "examples",
		})
	}

	return findings
}
