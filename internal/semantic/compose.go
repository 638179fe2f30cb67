package semantic

import (
	"fmt"
	"strings"

	"github.com/harrison/promptcheck/internal/fileutil"
	"github.com/harrison/promptcheck/internal/parser"
)

// Delimiters marking the data region of a prompt. Linked document text has
// these exact markers stripped before inclusion, so a malicious linked
// document cannot forge a closing delimiter and escape the data region.
const (
	documentOpenDelimiter  = "<<<PROMPT_DOCUMENT_BEGIN>>>"
	documentCloseDelimiter = "<<<PROMPT_DOCUMENT_END>>>"
)

// composedSizeCeiling bounds the total size of a composed view; linked
// documents are dropped once it is reached.
const composedSizeCeiling = 48_000

// sanitizeEmbedded removes our delimiter markers from untrusted text.
func sanitizeEmbedded(text string) string {
	text = strings.ReplaceAll(text, documentOpenDelimiter, "")
	text = strings.ReplaceAll(text, documentCloseDelimiter, "")
	return text
}

// wrapDocument wraps body in the explicit delimiter pair.
func wrapDocument(body string) string {
	return documentOpenDelimiter + "\n" + sanitizeEmbedded(body) + "\n" + documentCloseDelimiter
}

// composeWithLinks builds the composed view: the current document plus the
// text of each resolved link, concatenated with explicit begin/end markers
// per link. Link read failures are skipped silently; they surface through
// the static reachability check instead.
func composeWithLinks(doc *parser.Document, probe fileutil.Probe) string {
	var sb strings.Builder
	sb.WriteString(wrapDocument(doc.Body()))

	if probe == nil {
		return sb.String()
	}

	for _, link := range doc.Links {
		if link.Resolved == "" {
			continue
		}
		if sb.Len() >= composedSizeCeiling {
			break
		}

		text, err := probe.ReadText(link.Resolved)
		if err != nil {
			continue
		}

		section := fmt.Sprintf("\n\n--- BEGIN LINKED DOCUMENT %s ---\n%s\n--- END LINKED DOCUMENT %s ---",
			link.Target, sanitizeEmbedded(text), link.Target)
		if sb.Len()+len(section) > composedSizeCeiling {
			remaining := composedSizeCeiling - sb.Len()
			if remaining > 0 {
				sb.WriteString(section[:remaining])
			}
			break
		}
		sb.WriteString(section)
	}

	return sb.String()
}
