package semantic

import (
	"encoding/json"
	"strings"
)

// extractPayload pulls the JSON payload out of a provider response, which may
// arrive wrapped in a fenced code block. It searches for an opening and
// closing triple-backtick span and falls back to the raw trimmed text.
func extractPayload(response string) string {
	trimmed := strings.TrimSpace(response)

	open := strings.Index(trimmed, "```")
	if open < 0 {
		return trimmed
	}

	rest := trimmed[open+3:]
	// Drop an optional language tag on the fence line.
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		tag := strings.TrimSpace(rest[:nl])
		if tag == "" || tag == "json" {
			rest = rest[nl+1:]
		}
	}

	if close := strings.Index(rest, "```"); close >= 0 {
		return strings.TrimSpace(rest[:close])
	}
	return strings.TrimSpace(rest)
}

// decodeDocumentAnalysis decodes a combined-analysis response. The second
// return is false on any parse failure; the failure is never propagated as a
// user-facing error, the sub-analysis just contributes nothing.
func decodeDocumentAnalysis(response string) (documentAnalysis, bool) {
	var payload documentAnalysis
	if err := json.Unmarshal([]byte(extractPayload(response)), &payload); err != nil {
		return documentAnalysis{}, false
	}
	return payload, true
}

// decodeCompositionAnalysis decodes a composed-pass response.
func decodeCompositionAnalysis(response string) (compositionAnalysis, bool) {
	var payload compositionAnalysis
	if err := json.Unmarshal([]byte(extractPayload(response)), &payload); err != nil {
		return compositionAnalysis{}, false
	}
	return payload, true
}
