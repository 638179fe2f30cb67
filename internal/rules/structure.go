package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/harrison/promptcheck/internal/models"
	"github.com/harrison/promptcheck/internal/parser"
)

// Finding codes produced by the structural lint.
const (
	CodeMixedStructure = "mixed-structure"
	CodeUnbalancedTag  = "unbalanced-tag"
)

var (
	xmlOpenPattern  = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9_-]*)>`)
	xmlClosePattern = regexp.MustCompile(`</([a-zA-Z][a-zA-Z0-9_-]*)>`)
	headingPattern  = regexp.MustCompile(`^#{1,6}\s+\S`)
)

// checkStructure flags documents mixing markdown headings with XML-style
// sectioning tags, and tags whose open and close counts disagree.
func checkStructure(doc *parser.Document) []models.Finding {
	var findings []models.Finding

	opens := make(map[string]int)
	closes := make(map[string]int)
	firstOpenLine := make(map[string]int)
	firstCloseLine := make(map[string]int)
	hasHeading := false
	firstTagLine := -1
	inCodeBlock := false

	for i, line := range doc.Lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock || withinFrontmatter(doc, i) {
			continue
		}

		if headingPattern.MatchString(line) {
			hasHeading = true
		}

		for _, m := range xmlOpenPattern.FindAllStringSubmatch(line, -1) {
			name := strings.ToLower(m[1])
			opens[name]++
			if _, seen := firstOpenLine[name]; !seen {
				firstOpenLine[name] = i
			}
			if firstTagLine < 0 {
				firstTagLine = i
			}
		}
		for _, m := range xmlClosePattern.FindAllStringSubmatch(line, -1) {
			name := strings.ToLower(m[1])
			closes[name]++
			if _, seen := firstCloseLine[name]; !seen {
				firstCloseLine[name] = i
			}
		}
	}

	// Tags that are opened and closed somewhere in the document are being
	// used for sectioning; mixing that with markdown headings makes section
	// boundaries convention-dependent.
	usesTags := false
	for name := range opens {
		if closes[name] > 0 {
			usesTags = true
			break
		}
	}
	if usesTags && hasHeading && firstTagLine >= 0 {
		findings = append(findings, models.Finding{
			Code:     CodeMixedStructure,
			Message:  "document mixes markdown headings and XML-style tags for sectioning; pick one convention",
			Severity: models.SeverityInfo,
			Range:    models.WholeLine(firstTagLine, len(doc.Lines[firstTagLine])),
			Source:   "structure",
		})
	}

	for name, openCount := range opens {
		closeCount := closes[name]
		if openCount != closeCount {
			line := firstOpenLine[name]
			findings = append(findings, models.Finding{
				Code:     CodeUnbalancedTag,
				Message:  fmt.Sprintf("tag <%s> is opened %d time(s) but closed %d time(s)", name, openCount, closeCount),
				Severity: models.SeverityWarning,
				Range:    models.WholeLine(line, len(doc.Lines[line])),
				Source:   "structure",
			})
		}
	}
	for name, closeCount := range closes {
		if opens[name] == 0 {
			line := firstCloseLine[name]
			findings = append(findings, models.Finding{
				Code:     CodeUnbalancedTag,
				Message:  fmt.Sprintf("tag </%s> is closed %d time(s) but never opened", name, closeCount),
				Severity: models.SeverityWarning,
				Range:    models.WholeLine(line, lineLen(doc, line)),
				Source:   "structure",
			})
		}
	}

	return findings
}

func lineLen(doc *parser.Document, line int) int {
	if line < 0 || line >= len(doc.Lines) {
		return 0
	}
	return len(doc.Lines[line])
}
