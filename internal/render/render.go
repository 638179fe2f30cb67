// Package render prints finding lists for terminal consumption.
package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/harrison/promptcheck/internal/models"
)

var severityColors = map[models.Severity]*color.Color{
	models.SeverityError:   color.New(color.FgRed, color.Bold),
	models.SeverityWarning: color.New(color.FgYellow),
	models.SeverityInfo:    color.New(color.FgCyan),
	models.SeverityHint:    color.New(color.Faint),
}

// Findings writes one line per finding for a document, followed by nothing
// when the list is empty. Positions print one-based for humans.
func Findings(w io.Writer, identifier string, findings []models.Finding) {
	if len(findings) == 0 {
		return
	}

	fmt.Fprintf(w, "%s\n", color.New(color.Bold).Sprint(identifier))
	for _, f := range findings {
		label := severityColors[f.Severity].Sprint(f.Severity.String())
		fmt.Fprintf(w, "  %d:%d  %s  %s  [%s]\n",
			f.Range.Start.Line+1, f.Range.Start.Column+1, label, f.Message, f.Code)
		if f.Suggestion != "" {
			fmt.Fprintf(w, "         suggestion: %q\n", f.Suggestion)
		}
	}
}

// Summary writes the severity tally for a whole run.
func Summary(w io.Writer, total int, counts map[models.Severity]int) {
	if total == 0 {
		fmt.Fprintln(w, color.GreenString("no findings"))
		return
	}
	fmt.Fprintf(w, "%d finding(s): %d error(s), %d warning(s), %d info, %d hint(s)\n",
		total,
		counts[models.SeverityError],
		counts[models.SeverityWarning],
		counts[models.SeverityInfo],
		counts[models.SeverityHint])
}
