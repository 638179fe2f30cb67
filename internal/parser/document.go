// Package parser turns raw prompt-document text into a structured model:
// category, metadata header, sections, placeholder occurrences, and
// cross-document composition links with safely resolved paths.
package parser

import (
	"path/filepath"
	"strings"

	"github.com/harrison/promptcheck/internal/models"
)

// Category is the document kind inferred from the identifier's name pattern.
// It drives which metadata-header rules apply.
type Category string

const (
	CategoryAgent        Category = "agent"
	CategoryPrompt       Category = "prompt"
	CategoryInstructions Category = "instructions"
	CategorySkill        Category = "skill"
	CategoryUnrecognized Category = "unrecognized"
)

// Section is a heading with the line span of its content. EndLine is the line
// before the next heading, or the last document line. Heading level is not
// retained.
type Section struct {
	Name      string
	StartLine int
	EndLine   int
}

// Link is a composition link to another document. Resolved is empty when the
// target could not be safely resolved to an absolute path.
type Link struct {
	// Target is the raw path text as written in the document.
	Target string

	// Resolved is the absolute path of the target, or empty if absent.
	Resolved string

	// Line is the zero-based line the link appears on.
	Line int

	// Span covers the whole link markup on that line.
	Span models.Range

	// PathSpan covers only the path text inside the link.
	PathSpan models.Range
}

// Document is the structured model of one text snapshot. It is immutable once
// produced; a new snapshot gets a new Document.
type Document struct {
	Identifier string
	Text       string
	Lines      []string
	Category   Category

	// Frontmatter is the decoded metadata header, nil when the block is
	// missing or malformed.
	Frontmatter map[string]any

	// FrontmatterRange is the raw line range of the header block when one was
	// delimited, even if decoding failed. Nil when no block was found.
	FrontmatterRange *models.Range

	Sections     []Section
	Placeholders map[string][]int
	Links        []Link
}

// Body returns the document text with the metadata header removed. Useful for
// checks that should ignore header lines.
func (d *Document) Body() string {
	if d.FrontmatterRange == nil {
		return d.Text
	}
	after := d.FrontmatterRange.End.Line + 1
	if after >= len(d.Lines) {
		return ""
	}
	return strings.Join(d.Lines[after:], "\n")
}

// exactBasenames maps case-insensitive basenames to their category. Exact
// names win over suffix patterns.
var exactBasenames = map[string]Category{
	"agents.md":               CategoryAgent,
	"agent.md":                CategoryAgent,
	"claude.md":               CategoryInstructions,
	"copilot-instructions.md": CategoryInstructions,
	"prompt.md":               CategoryPrompt,
	"system_prompt.md":        CategoryPrompt,
	"skill.md":                CategorySkill,
}

// suffixPatterns maps case-insensitive basename suffixes to their category.
var suffixPatterns = map[string]Category{
	".agent.md":        CategoryAgent,
	".prompt.md":       CategoryPrompt,
	".instructions.md": CategoryInstructions,
	".skill.md":        CategorySkill,
}

// Classify matches the identifier's trailing path segment against exact
// basenames first, then suffix patterns, then a skills-directory containment
// pattern. Matching is case-insensitive. Unmatched identifiers are
// CategoryUnrecognized.
func Classify(identifier string) Category {
	normalized := strings.ToLower(filepath.ToSlash(identifier))
	base := normalized
	if idx := strings.LastIndex(normalized, "/"); idx >= 0 {
		base = normalized[idx+1:]
	}

	if cat, ok := exactBasenames[base]; ok {
		return cat
	}

	for suffix, cat := range suffixPatterns {
		if strings.HasSuffix(base, suffix) {
			return cat
		}
	}

	// Skill documents commonly live as <skills dir>/<name>/SKILL.md; treat
	// any markdown file under a skills directory as a skill document.
	if strings.HasSuffix(base, ".md") && strings.Contains(normalized, "/skills/") {
		return CategorySkill
	}

	return CategoryUnrecognized
}
