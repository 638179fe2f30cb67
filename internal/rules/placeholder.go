package rules

import (
	"fmt"
	"strings"

	"github.com/harrison/promptcheck/internal/models"
	"github.com/harrison/promptcheck/internal/parser"
)

// Finding codes produced by the placeholder check.
const (
	CodePlaceholderEmpty     = "placeholder-empty"
	CodePlaceholderUndefined = "placeholder-undefined"
)

// runtimePlaceholderAllowlist holds conventional context variable names that
// hosts supply at use time. These never get "undefined" flags.
var runtimePlaceholderAllowlist = map[string]bool{
	"input":        true,
	"user_input":   true,
	"query":        true,
	"question":     true,
	"context":      true,
	"history":      true,
	"date":         true,
	"output":       true,
	"selection":    true,
	"file":         true,
	"workspace":    true,
	"tools":        true,
	"current_date": true,
}

// checkPlaceholders flags empty double-brace placeholders and placeholders
// that are neither declared in the metadata header nor on the runtime
// allow-list.
func checkPlaceholders(doc *parser.Document) []models.Finding {
	var findings []models.Finding

	declared := declaredPlaceholders(doc)

	for name, lines := range doc.Placeholders {
		for _, line := range lines {
			span := placeholderSpan(doc, line, name)

			if name == "" {
				findings = append(findings, models.Finding{
					Code:     CodePlaceholderEmpty,
					Message:  "empty placeholder: {{ }} has no name",
					Severity: models.SeverityError,
					Range:    span,
					Source:   "placeholders",
				})
				continue
			}

			if declared[strings.ToLower(name)] || runtimePlaceholderAllowlist[strings.ToLower(name)] {
				continue
			}

			findings = append(findings, models.Finding{
				Code:     CodePlaceholderUndefined,
				Message:  fmt.Sprintf("placeholder {{%s}} is not declared in the metadata header and is not a conventional runtime variable", name),
				Severity: models.SeverityWarning,
				Range:    span,
				Source:   "placeholders",
			})
		}
	}

	return findings
}

// declaredPlaceholders collects names the metadata header declares, either as
// top-level keys or entries of a variables/inputs/args list.
func declaredPlaceholders(doc *parser.Document) map[string]bool {
	declared := make(map[string]bool)
	if doc.Frontmatter == nil {
		return declared
	}

	for key, value := range doc.Frontmatter {
		declared[strings.ToLower(key)] = true
		switch key {
		case "variables", "inputs", "args":
			switch v := value.(type) {
			case []any:
				for _, item := range v {
					if s, ok := item.(string); ok {
						declared[strings.ToLower(s)] = true
					}
				}
			case map[string]any:
				for name := range v {
					declared[strings.ToLower(name)] = true
				}
			}
		}
	}
	return declared
}

// placeholderSpan locates the column span of a placeholder occurrence on a
// line, falling back to the whole line when the text moved.
func placeholderSpan(doc *parser.Document, line int, name string) models.Range {
	if line < 0 || line >= len(doc.Lines) {
		return models.WholeLine(line, 0)
	}
	text := doc.Lines[line]
	for _, idx := range placeholderOccurrences(text) {
		if strings.TrimSpace(text[idx[2]:idx[3]]) == name || text[idx[2]:idx[3]] == name {
			return models.LineRange(line, idx[0], idx[1])
		}
	}
	return models.WholeLine(line, len(text))
}

// placeholderOccurrences returns submatch indexes of each double-brace
// placeholder on a line.
func placeholderOccurrences(line string) [][]int {
	return parser.PlaceholderPattern().FindAllStringSubmatchIndex(line, -1)
}
