package parser

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/harrison/promptcheck/internal/models"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
	schemePattern       = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
)

// extractLinks scans the document line by line for markdown links, skipping
// fenced code blocks. A link is retained only when its target survives
// normalization and resembles a document of a recognized category.
func extractLinks(lines []string) []Link {
	var links []Link
	inCodeBlock := false

	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}

		for _, idx := range markdownLinkPattern.FindAllStringSubmatchIndex(line, -1) {
			target := line[idx[4]:idx[5]]
			normalized, ok := normalizeTarget(target)
			if !ok {
				continue
			}
			if Classify(normalized) == CategoryUnrecognized {
				continue
			}
			links = append(links, Link{
				Target:   target,
				Line:     i,
				Span:     models.LineRange(i, idx[0], idx[1]),
				PathSpan: models.LineRange(i, idx[4], idx[5]),
			})
		}
	}

	return links
}

// normalizeTarget strips surrounding angle brackets and a trailing quoted
// title, discards bare-anchor and external-scheme targets, and removes an
// in-document anchor suffix. The second return is false when the target is
// not a local path at all.
func normalizeTarget(target string) (string, bool) {
	t := strings.TrimSpace(target)

	// Trailing markdown title: (path "title")
	if idx := strings.IndexAny(t, " \t"); idx >= 0 {
		rest := strings.TrimSpace(t[idx:])
		if strings.HasPrefix(rest, `"`) || strings.HasPrefix(rest, "'") {
			t = t[:idx]
		}
	}

	t = strings.TrimPrefix(t, "<")
	t = strings.TrimSuffix(t, ">")
	t = strings.TrimSpace(t)

	if t == "" || strings.HasPrefix(t, "#") {
		return "", false
	}
	if schemePattern.MatchString(t) {
		// Windows drive letters are paths, not schemes.
		if !(len(t) > 2 && t[1] == ':' && (t[2] == '\\' || t[2] == '/')) {
			return "", false
		}
	}

	// Strip in-document anchor.
	if idx := strings.Index(t, "#"); idx >= 0 {
		t = t[:idx]
	}
	if t == "" {
		return "", false
	}

	return t, true
}

// documentDir returns the directory of a document identifier, or "" when the
// identifier carries no usable directory.
func documentDir(identifier string) string {
	dir := filepath.Dir(identifier)
	if dir == "." {
		return ""
	}
	return dir
}

// ResolveLink resolves a raw link target to an absolute path, or "" when the
// target cannot be resolved safely.
//
// Containment policy: with a workspace root, any resolved path outside that
// root (including via ".." traversal) is rejected; this is the traversal
// defense, enforced even for absolute-looking targets. Without a workspace
// root, absolute targets are rejected outright as an unsafe default, and
// relative targets resolve only when the document's own directory is already
// absolute.
func ResolveLink(target, documentDir, workspaceRoot string) string {
	normalized, ok := normalizeTarget(target)
	if !ok {
		return ""
	}

	if workspaceRoot == "" {
		if filepath.IsAbs(normalized) {
			return ""
		}
		if documentDir == "" || !filepath.IsAbs(documentDir) {
			return ""
		}
		return filepath.Clean(filepath.Join(documentDir, normalized))
	}

	root := filepath.Clean(workspaceRoot)

	var resolved string
	if filepath.IsAbs(normalized) {
		resolved = filepath.Clean(normalized)
	} else {
		dir := documentDir
		if dir == "" {
			dir = root
		} else if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		resolved = filepath.Clean(filepath.Join(dir, normalized))
	}

	if !pathWithin(resolved, root) {
		return ""
	}
	return resolved
}

// pathWithin reports whether path is root itself or contained inside it.
func pathWithin(path, root string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
