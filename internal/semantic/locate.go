package semantic

import (
	"strings"

	"github.com/harrison/promptcheck/internal/parser"
)

// locateWordCount is how many leading words of an excerpt participate in
// overlap matching.
const locateWordCount = 8

// locateLine finds the approximate line an excerpt refers to: exact
// case-insensitive containment first, then word-overlap matching on the
// excerpt's first words, finally defaulting to line zero. The result is
// inherently approximate: providers paraphrase, and phrases repeat.
func locateLine(doc *parser.Document, excerpt string) int {
	needle := strings.ToLower(strings.TrimSpace(excerpt))
	if needle == "" {
		return 0
	}

	for i, line := range doc.Lines {
		if strings.Contains(strings.ToLower(line), needle) {
			return i
		}
	}

	words := strings.Fields(needle)
	if len(words) > locateWordCount {
		words = words[:locateWordCount]
	}
	if len(words) == 0 {
		return 0
	}

	bestLine := 0
	bestOverlap := 0
	for i, line := range doc.Lines {
		lower := strings.ToLower(line)
		overlap := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				overlap++
			}
		}
		if overlap > bestOverlap {
			bestOverlap = overlap
			bestLine = i
		}
	}

	// Require at least half the words to call it a match.
	if bestOverlap*2 < len(words) {
		return 0
	}
	return bestLine
}
