package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/harrison/promptcheck/internal/models"
	"github.com/harrison/promptcheck/internal/parser"
)

// Finding codes produced by the ambiguity check.
const (
	CodeAmbiguousQuantifier = "ambiguous-quantifier"
	CodeVagueDirective      = "vague-directive"
	CodeDanglingReference   = "dangling-reference"
)

// quantifierWords are vague amounts that leave the model to pick a number.
var quantifierWords = []string{
	"some", "several", "many", "few", "various", "a lot of", "a bit of", "numerous",
}

// vagueAdjectives flag only inside a "be X" style construction, where they
// stand in for a concrete requirement.
var vagueAdjectives = []string{
	"appropriate", "reasonable", "good", "nice", "proper", "suitable",
	"relevant", "adequate", "sensible", "helpful",
}

// danglingPhrases reference surrounding text that may not survive prompt
// assembly.
var danglingPhrases = []string{
	"as mentioned above", "as described above", "as stated above",
	"as mentioned earlier", "as described earlier", "see above",
	"the previous section", "as noted before", "as explained previously",
}

var quantifierPattern = buildWordPattern(quantifierWords)

// vagueDirectivePattern matches "be X" / "keep it X" constructions.
var vagueDirectivePattern = regexp.MustCompile(
	`(?i)\b(?:be|being|keep it|stay|remain)\s+(` + strings.Join(vagueAdjectives, "|") + `)\b`)

// checkAmbiguity flags quantifier words, vague "be X" directives, and
// dangling references to surrounding text.
func checkAmbiguity(doc *parser.Document) []models.Finding {
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

		if loc := quantifierPattern.FindStringIndex(lower); loc != nil {
			word := lower[loc[0]:loc[1]]
			findings = append(findings, models.Finding{
				Code:     CodeAmbiguousQuantifier,
				Message:  fmt.Sprintf("quantifier %q is ambiguous; state a concrete number or bound", word),
				Severity: models.SeverityInfo,
				Range:    models.LineRange(i, loc[0], loc[1]),
				Source:   "ambiguity",
			})
		}

		if loc := vagueDirectivePattern.FindStringSubmatchIndex(line); loc != nil {
			adj := line[loc[2]:loc[3]]
			findings = append(findings, models.Finding{
				Code:     CodeVagueDirective,
				Message:  fmt.Sprintf("%q is vague as a directive; describe the observable behavior instead", adj),
				Severity: models.SeverityWarning,
				Range:    models.LineRange(i, loc[0], loc[1]),
				Source:   "ambiguity",
			})
		}

		for _, phrase := range danglingPhrases {
			if col := strings.Index(lower, phrase); col >= 0 {
				findings = append(findings, models.Finding{
					Code:     CodeDanglingReference,
					Message:  fmt.Sprintf("%q depends on document order that may not survive composition; restate the referenced content", phrase),
					Severity: models.SeverityWarning,
					Range:    models.LineRange(i, col, col+len(phrase)),
					Source:   "ambiguity",
				})
			}
		}
	}

	return findings
}

// buildWordPattern compiles a word-boundary alternation for phrase matching.
func buildWordPattern(words []string) *regexp.Regexp {
	escaped := make([]string, len(words))
	for i, w := range words {
		escaped[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(escaped, "|") + `)\b`)
}
