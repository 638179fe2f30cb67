package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clipperhouse/uax29/v2/words"

	"github.com/harrison/promptcheck/internal/models"
	"github.com/harrison/promptcheck/internal/parser"
)

// Finding codes produced by the token budget check.
const (
	CodeTokenBudgetExceeded = "token-budget-exceeded"
	CodeTokenBudgetNear     = "token-budget-near"
)

// Tokenizer counts tokens in text. Implementations may be exact (a real
// model tokenizer) or approximate.
type Tokenizer interface {
	Count(text string) int
}

// contextWindows is the table of known context-window sizes the budget check
// warns against.
var contextWindows = map[string]int{
	"4k":   4096,
	"8k":   8192,
	"16k":  16384,
	"32k":  32768,
	"128k": 131072,
	"200k": 204800,
}

// DefaultBudgetWindow is used when no window is configured.
const DefaultBudgetWindow = "8k"

const (
	budgetWarnRatio = 0.8
	budgetNearRatio = 0.5
)

// WordTokenizer approximates model tokens by Unicode word segmentation.
// Subword tokenizers emit slightly more tokens than words, so each word-like
// segment counts as 1.3 tokens.
type WordTokenizer struct{}

// Count implements Tokenizer.
func (WordTokenizer) Count(text string) int {
	segments := 0
	tokens := words.FromString(text)
	for tokens.Next() {
		if strings.TrimSpace(tokens.Value()) != "" {
			segments++
		}
	}
	return int(float64(segments) * 1.3)
}

// estimateTokens uses the tokenizer when available, else the
// four-characters-per-token estimate.
func estimateTokens(tok Tokenizer, text string) int {
	if tok != nil {
		return tok.Count(text)
	}
	return (len(text) + 3) / 4
}

// newBudgetCheck builds the token budget check for the named context window.
func newBudgetCheck(tok Tokenizer, window string) func(*parser.Document) []models.Finding {
	size, ok := contextWindows[strings.ToLower(window)]
	if !ok {
		size = contextWindows[DefaultBudgetWindow]
		window = DefaultBudgetWindow
	}

	return func(doc *parser.Document) []models.Finding {
		total := estimateTokens(tok, doc.Text)

		ratio := float64(total) / float64(size)
		if ratio < budgetNearRatio {
			return nil
		}

		code := CodeTokenBudgetNear
		severity := models.SeverityInfo
		if ratio >= budgetWarnRatio {
			code = CodeTokenBudgetExceeded
			severity = models.SeverityWarning
		}

		return []models.Finding{{
			Code: code,
			Message: fmt.Sprintf("document is ~%d tokens, %.0f%% of the %s context window%s",
				total, ratio*100, window, sectionBreakdown(tok, doc)),
			Severity: severity,
			Range:    models.WholeLine(0, lineLen(doc, 0)),
			Source:   "token-budget",
		}}
	}
}

// sectionBreakdown renders the heaviest sections as a message suffix.
func sectionBreakdown(tok Tokenizer, doc *parser.Document) string {
	if len(doc.Sections) == 0 {
		return ""
	}

	type sectionCost struct {
		name   string
		tokens int
	}
	costs := make([]sectionCost, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		if s.StartLine < 0 || s.EndLine >= len(doc.Lines) || s.StartLine > s.EndLine {
			continue
		}
		text := strings.Join(doc.Lines[s.StartLine:s.EndLine+1], "\n")
		costs = append(costs, sectionCost{name: s.Name, tokens: estimateTokens(tok, text)})
	}
	if len(costs) == 0 {
		return ""
	}

	sort.Slice(costs, func(i, j int) bool { return costs[i].tokens > costs[j].tokens })
	if len(costs) > 3 {
		costs = costs[:3]
	}

	parts := make([]string, len(costs))
	for i, c := range costs {
		parts[i] = fmt.Sprintf("%s: ~%d", c.name, c.tokens)
	}
	return " (largest sections: " + strings.Join(parts, ", ") + ")"
}
