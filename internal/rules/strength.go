package rules

import (
	"fmt"
	"strings"

	"github.com/harrison/promptcheck/internal/models"
	"github.com/harrison/promptcheck/internal/parser"
)

// Finding codes produced by the instruction-strength check.
const (
	CodeWeakInstruction       = "weak-instruction"
	CodeWeakSafetyInstruction = "weak-safety-instruction"
)

// Instruction vocabulary, bucketed by how binding the phrasing is. Only weak
// phrases produce findings; the strong and medium lists keep the check from
// flagging lines that already carry a binding verb alongside a weak one.
var (
	strongPhrases = []string{
		"must", "must not", "always", "never", "do not", "shall", "required to", "only",
	}
	mediumPhrases = []string{
		"should", "should not", "prefer", "avoid", "recommended",
	}
	weakPhrases = []string{
		"try to", "attempt to", "if possible", "maybe", "ideally",
		"it would be good", "it would be nice", "where feasible", "consider",
	}
)

// defaultWeakSuggestions maps each weak phrase to a stronger replacement for
// the flagged span. Overridable through Options.WeakPhraseSuggestions.
var defaultWeakSuggestions = map[string]string{
	"try to":           "always",
	"attempt to":       "always",
	"if possible":      "",
	"maybe":            "",
	"ideally":          "",
	"it would be good": "you must",
	"it would be nice": "you must",
	"where feasible":   "always",
	"consider":         "you must",
}

// safetyKeywords escalate weak phrasing to error severity when they share a
// line with it.
var safetyKeywords = []string{
	"safety", "safe", "unsafe", "harmful", "harm", "dangerous", "refuse",
	"security", "secure", "jailbreak", "injection", "illegal", "malicious",
	"sensitive", "confidential", "pii",
}

// newStrengthCheck builds the instruction-strength check with optional
// suggestion overrides.
func newStrengthCheck(overrides map[string]string) func(*parser.Document) []models.Finding {
	suggestions := make(map[string]string, len(defaultWeakSuggestions))
	for phrase, repl := range defaultWeakSuggestions {
		suggestions[phrase] = repl
	}
	for phrase, repl := range overrides {
		suggestions[strings.ToLower(phrase)] = repl
	}

	return func(doc *parser.Document) []models.Finding {
		var findings []models.Finding
		inCodeBlock := false

		for i, line := range doc.Lines {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				inCodeBlock = !inCodeBlock
				continue
			}
			if inCodeBlock || withinFrontmatter(doc, i) {
				continue
			}

			lower := strings.ToLower(line)
			for _, phrase := range weakPhrases {
				col := strings.Index(lower, phrase)
				if col < 0 {
					continue
				}

				code := CodeWeakInstruction
				severity := models.SeverityWarning
				message := fmt.Sprintf("weak phrasing %q leaves the instruction optional", phrase)
				if containsAny(lower, safetyKeywords) {
					code = CodeWeakSafetyInstruction
					severity = models.SeverityError
					message = fmt.Sprintf("weak phrasing %q on a safety-related instruction; safety rules need binding language", phrase)
				}

				findings = append(findings, models.Finding{
					Code:       code,
					Message:    message,
					Severity:   severity,
					Range:      models.LineRange(i, col, col+len(phrase)),
					Source:     "instruction-strength",
					Suggestion: suggestions[phrase],
				})
			}
		}

		return findings
	}
}

// withinFrontmatter reports whether a line sits inside the metadata header
// block.
func withinFrontmatter(doc *parser.Document, line int) bool {
	return doc.FrontmatterRange != nil && line <= doc.FrontmatterRange.End.Line
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
