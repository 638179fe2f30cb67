package parser

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Parser builds Document models from raw text snapshots. Create once, reuse;
// safe for concurrent use.
type Parser struct {
	markdown goldmark.Markdown
}

// New creates a Parser.
func New() *Parser {
	return &Parser{
		markdown: goldmark.New(),
	}
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*(\w*)\s*\}\}`)

// atxHeadingPattern matches a section-starting heading line.
var atxHeadingPattern = regexp.MustCompile(`^ {0,3}#{1,6}(\s|$)`)

// PlaceholderPattern exposes the double-brace pattern for callers that need
// occurrence columns on a line.
func PlaceholderPattern() *regexp.Regexp {
	return placeholderPattern
}

// Parse turns raw text plus a document identifier into a structured Document.
// Parsing never fails; malformed constructs degrade to absent fields. Links
// are extracted but left unresolved; use ParseWithRoot for resolution.
func (p *Parser) Parse(rawText, identifier string) *Document {
	lines := strings.Split(rawText, "\n")

	doc := &Document{
		Identifier: identifier,
		Text:       rawText,
		Lines:      lines,
		Category:   Classify(identifier),
	}

	doc.Frontmatter, doc.FrontmatterRange = parseFrontmatter(lines)
	doc.Sections = p.extractSections([]byte(rawText), lines)
	doc.Placeholders = extractPlaceholders(lines)
	doc.Links = extractLinks(lines)

	return doc
}

// ParseWithRoot is Parse plus link resolution against a workspace root. An
// empty root keeps the unsafe-default policy of rejecting absolute targets.
func (p *Parser) ParseWithRoot(rawText, identifier, workspaceRoot string) *Document {
	doc := p.Parse(rawText, identifier)
	for i := range doc.Links {
		doc.Links[i].Resolved = ResolveLink(doc.Links[i].Target, documentDir(identifier), workspaceRoot)
	}
	return doc
}

// extractSections walks the goldmark AST for headings and converts byte
// offsets to line numbers. Only ATX headings (1-6 leading '#') start a
// section; setext headings are skipped, otherwise a metadata header's
// closing "---" would turn the YAML above it into a phantom section. Each
// section ends the line before the next heading, or on the last document
// line.
func (p *Parser) extractSections(source []byte, lines []string) []Section {
	root := p.markdown.Parser().Parse(text.NewReader(source))
	offsets := lineOffsets(source)

	var sections []Section
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}
		seg := heading.Lines().At(0)
		start := lineAt(offsets, seg.Start)
		if start >= len(lines) || !atxHeadingPattern.MatchString(lines[start]) {
			return ast.WalkContinue, nil
		}
		sections = append(sections, Section{
			Name:      string(headingText(heading, source)),
			StartLine: start,
		})
		return ast.WalkContinue, nil
	})

	for i := range sections {
		if i+1 < len(sections) {
			sections[i].EndLine = sections[i+1].StartLine - 1
		} else {
			sections[i].EndLine = len(lines) - 1
		}
	}

	return sections
}

// headingText collects the plain text of a heading node.
func headingText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
	}
	return buf.Bytes()
}

// extractPlaceholders scans for the double-brace naming convention. The
// result maps each placeholder name (possibly empty) to the ordered list of
// zero-based lines it occurs on.
func extractPlaceholders(lines []string) map[string][]int {
	placeholders := make(map[string][]int)
	for i, line := range lines {
		for _, match := range placeholderPattern.FindAllStringSubmatch(line, -1) {
			name := match[1]
			placeholders[name] = append(placeholders[name], i)
		}
	}
	return placeholders
}

// lineOffsets returns the byte offset of the start of each line.
func lineOffsets(source []byte) []int {
	offsets := []int{0}
	for i, b := range source {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// lineAt converts a byte offset into a zero-based line number.
func lineAt(offsets []int, offset int) int {
	line := 0
	for line+1 < len(offsets) && offsets[line+1] <= offset {
		line++
	}
	return line
}
