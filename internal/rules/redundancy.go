package rules

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/harrison/promptcheck/internal/models"
	"github.com/harrison/promptcheck/internal/parser"
)

// Finding codes produced by the redundancy check.
const (
	CodeRedundantInstruction = "redundant-instruction"
	CodeSubsumedInstruction  = "subsumed-instruction"
)

// redundancyStopwords are filtered out before clauses are compared.
var redundancyStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "to": true, "of": true, "in": true,
	"for": true, "on": true, "with": true, "at": true, "by": true, "and": true,
	"or": true, "be": true, "is": true, "are": true, "that": true, "this": true,
	"it": true, "any": true, "all": true, "your": true, "you": true,
}

// negationWords determine clause polarity.
var negationWords = map[string]bool{
	"never": true, "not": true, "don't": true, "dont": true, "avoid": true, "no": true,
}

type clause struct {
	text     string
	line     int
	words    []string // normalized, sorted, stopwords removed
	wordSet  map[string]bool
	negative bool
}

// checkRedundancy flags near-duplicate imperative clauses and clauses fully
// subsumed by an earlier, broader clause of the same polarity.
func checkRedundancy(doc *parser.Document) []models.Finding {
	clauses := extractClauses(doc)

	var findings []models.Finding
	seen := make(map[string]clause)

	for _, c := range clauses {
		key := strings.Join(c.words, " ")
		if key == "" {
			continue
		}

		if prev, ok := seen[key]; ok {
			findings = append(findings, models.Finding{
				Code:     CodeRedundantInstruction,
				Message:  fmt.Sprintf("instruction repeats line %d: %q", prev.line+1, truncateText(prev.text, 60)),
				Severity: models.SeverityInfo,
				Range:    models.WholeLine(c.line, lineLen(doc, c.line)),
				Source:   "redundancy",
			})
			continue
		}
		seen[key] = c
	}

	// Subsumption: a broader clause (fewer, fully-shared words) makes a
	// narrower one of the same polarity redundant.
	for i, narrow := range clauses {
		for j, broad := range clauses {
			if i == j || narrow.negative != broad.negative {
				continue
			}
			if len(broad.words) == 0 || len(broad.words) >= len(narrow.words) {
				continue
			}
			if isSubset(broad.wordSet, narrow.wordSet) {
				findings = append(findings, models.Finding{
					Code:     CodeSubsumedInstruction,
					Message:  fmt.Sprintf("instruction is already covered by the broader rule on line %d: %q", broad.line+1, truncateText(broad.text, 60)),
					Severity: models.SeverityInfo,
					Range:    models.WholeLine(narrow.line, lineLen(doc, narrow.line)),
					Source:   "redundancy",
				})
				break
			}
		}
	}

	return findings
}

// extractClauses collects instruction-like clauses: bullet items and short
// imperative lines outside code blocks, headings, and the metadata header.
func extractClauses(doc *parser.Document) []clause {
	var clauses []clause
	inCodeBlock := false

	for i, line := range doc.Lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock || withinFrontmatter(doc, i) || trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}

		text := trimmed
		for _, marker := range []string{"- ", "* ", "+ "} {
			if strings.HasPrefix(text, marker) {
				text = strings.TrimSpace(text[len(marker):])
				break
			}
		}
		if text == "" {
			continue
		}

		words, negative := normalizeClause(text)
		if len(words) < 2 {
			continue
		}
		set := make(map[string]bool, len(words))
		for _, w := range words {
			set[w] = true
		}
		clauses = append(clauses, clause{
			text:     text,
			line:     i,
			words:    words,
			wordSet:  set,
			negative: negative,
		})
	}

	return clauses
}

// normalizeClause lowercases, strips punctuation, drops stopwords, and sorts
// the remaining words. The polarity flag records whether the clause negates.
func normalizeClause(text string) ([]string, bool) {
	var cleaned strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '\'' {
			cleaned.WriteRune(r)
		} else {
			cleaned.WriteRune(' ')
		}
	}

	negative := false
	var words []string
	for _, w := range strings.Fields(cleaned.String()) {
		if negationWords[w] {
			negative = true
			continue
		}
		if redundancyStopwords[w] {
			continue
		}
		words = append(words, w)
	}

	sort.Strings(words)
	return words, negative
}

func isSubset(small, large map[string]bool) bool {
	for w := range small {
		if !large[w] {
			return false
		}
	}
	return true
}

func truncateText(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
