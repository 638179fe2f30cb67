// Package models defines the value types shared across the analysis
// pipeline: findings, severities, and source ranges.
package models

import (
	"encoding/json"
	"fmt"
)

// Severity indicates how urgent a finding is. Lower values are more urgent.
type Severity int

const (
	// SeverityError indicates an issue that will likely break the prompt.
	SeverityError Severity = iota
	// SeverityWarning indicates an issue that degrades prompt quality.
	SeverityWarning
	// SeverityInfo indicates an observation worth reviewing.
	SeverityInfo
	// SeverityHint indicates a minor stylistic suggestion.
	SeverityHint
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a severity name back to its Severity value.
func ParseSeverity(name string) (Severity, error) {
	switch name {
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	case "hint":
		return SeverityHint, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity: %q", name)
	}
}

// MarshalJSON encodes the severity as its name so cache snapshots stay
// readable and stable across releases.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Position is a zero-based line and column in a document.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// LineRange returns a range covering columns [startCol, endCol) on a single line.
func LineRange(line, startCol, endCol int) Range {
	return Range{
		Start: Position{Line: line, Column: startCol},
		End:   Position{Line: line, Column: endCol},
	}
}

// WholeLine returns a range covering an entire line of the given length.
func WholeLine(line, length int) Range {
	return LineRange(line, 0, length)
}

// Finding is one reported issue. Findings are pure values with no identity
// beyond their content; duplicates are permitted (e.g. the two ends of one
// contradiction).
type Finding struct {
	// Code is the stable kind identifier, e.g. "placeholder-empty".
	Code string `json:"code"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// Severity is the urgency of the finding.
	Severity Severity `json:"severity"`

	// Range is the source span the finding refers to.
	Range Range `json:"range"`

	// Source names the check or category that produced the finding.
	Source string `json:"source"`

	// Suggestion is optional replacement text for the range.
	Suggestion string `json:"suggestion,omitempty"`
}

// CountBySeverity tallies findings per severity.
func CountBySeverity(findings []Finding) map[Severity]int {
	counts := make(map[Severity]int)
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}
