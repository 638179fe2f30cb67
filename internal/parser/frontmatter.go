package parser

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harrison/promptcheck/internal/models"
)

const frontmatterDelimiter = "---"

// parseFrontmatter extracts the metadata header from the leading delimited
// block. Line 0 must be exactly the three-dash delimiter; the block ends at
// the next matching delimiter line.
//
// Returns (nil, nil) when no block is present or the opening delimiter is
// never closed: a malformed open block is "no header", not an error.
// Returns (nil, range) when the block is delimited but its YAML does not
// decode, so range-based diagnostics still have somewhere to anchor while
// field-level checks are skipped.
func parseFrontmatter(lines []string) (map[string]any, *models.Range) {
	if len(lines) == 0 || lines[0] != frontmatterDelimiter {
		return nil, nil
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == frontmatterDelimiter {
			closing = i
			break
		}
	}
	if closing < 0 {
		return nil, nil
	}

	blockRange := &models.Range{
		Start: models.Position{Line: 0, Column: 0},
		End:   models.Position{Line: closing, Column: len(frontmatterDelimiter)},
	}

	block := strings.Join(lines[1:closing], "\n")
	var header map[string]any
	if err := yaml.Unmarshal([]byte(block), &header); err != nil || header == nil {
		return nil, blockRange
	}

	return header, blockRange
}
