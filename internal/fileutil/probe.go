// Package fileutil provides the filesystem boundary used by link validation
// and cross-document composition, plus document discovery for the CLI.
package fileutil

import "os"

// Probe is the file-reading capability consumed by the analysis pipeline.
// Failures are swallowed by callers and surfaced as ordinary findings, never
// as process-level errors.
type Probe interface {
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool

	// ReadText reads the file at path as UTF-8 text.
	ReadText(path string) (string, error)
}

// OSProbe is the default Probe backed by the real filesystem.
type OSProbe struct{}

// Exists implements Probe.
func (OSProbe) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ReadText implements Probe.
func (OSProbe) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
