package rules

import (
	"fmt"

	"github.com/harrison/promptcheck/internal/fileutil"
	"github.com/harrison/promptcheck/internal/models"
	"github.com/harrison/promptcheck/internal/parser"
)

// Finding codes produced by the link reachability check.
const (
	CodeLinkUnresolved  = "link-unresolved"
	CodeLinkMissingFile = "link-missing-file"
)

// newReachabilityCheck builds the only check in this engine that touches the
// filesystem. A link target that never resolved is distinguished from one
// that resolved inside the workspace but fails the existence probe.
func newReachabilityCheck(probe fileutil.Probe) func(*parser.Document) []models.Finding {
	return func(doc *parser.Document) []models.Finding {
		var findings []models.Finding

		for _, link := range doc.Links {
			if link.Resolved == "" {
				findings = append(findings, models.Finding{
					Code:     CodeLinkUnresolved,
					Message:  fmt.Sprintf("link target %q could not be resolved to a path inside the workspace", link.Target),
					Severity: models.SeverityWarning,
					Range:    link.PathSpan,
					Source:   "link-reachability",
				})
				continue
			}

			if probe != nil && !probe.Exists(link.Resolved) {
				findings = append(findings, models.Finding{
					Code:     CodeLinkMissingFile,
					Message:  fmt.Sprintf("link target %q resolves to %s, which does not exist", link.Target, link.Resolved),
					Severity: models.SeverityWarning,
					Range:    link.PathSpan,
					Source:   "link-reachability",
				})
			}
		}

		return findings
	}
}
