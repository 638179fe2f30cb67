// Package rules implements the static checks run over a parsed document.
// Every check is a pure function of the Document model; only the link
// reachability check touches the filesystem, through the injected Probe.
package rules

import (
	"github.com/harrison/promptcheck/internal/fileutil"
	"github.com/harrison/promptcheck/internal/models"
	"github.com/harrison/promptcheck/internal/parser"
)

// Profile selects which subset of checks to run.
type Profile int

const (
	// ProfileQuick runs only the checks with no filesystem or tokenizer
	// cost, safe to run synchronously on every edit.
	ProfileQuick Profile = iota
	// ProfileFull runs the complete check set.
	ProfileFull
)

// Rule is one stateless check. Quick rules must not touch external resources
// or the tokenizer.
type Rule struct {
	Name  string
	Quick bool
	Check func(doc *parser.Document) []models.Finding
}

// Options configures the engine.
type Options struct {
	// Probe backs the link reachability check. Nil disables it.
	Probe fileutil.Probe

	// Tokenizer backs the token budget check. Nil falls back to the
	// four-characters-per-token estimate.
	Tokenizer Tokenizer

	// BudgetWindow names the context window the token budget check warns
	// against; empty selects the default window.
	BudgetWindow string

	// WeakPhraseSuggestions overrides the default replacement for a weak
	// phrase, keyed by the phrase.
	WeakPhraseSuggestions map[string]string
}

// Engine runs the fixed rule set over documents. Rules are independent of
// execution order.
type Engine struct {
	rules []Rule
}

// NewEngine builds an engine with the complete rule set.
func NewEngine(opts Options) *Engine {
	strength := newStrengthCheck(opts.WeakPhraseSuggestions)
	budget := newBudgetCheck(opts.Tokenizer, opts.BudgetWindow)
	reach := newReachabilityCheck(opts.Probe)

	return &Engine{
		rules: []Rule{
			{Name: "placeholders", Quick: true, Check: checkPlaceholders},
			{Name: "instruction-strength", Quick: true, Check: strength},
			{Name: "ambiguity", Quick: true, Check: checkAmbiguity},
			{Name: "structure", Quick: true, Check: checkStructure},
			{Name: "redundancy", Quick: true, Check: checkRedundancy},
			{Name: "examples", Quick: true, Check: checkExamples},
			{Name: "metadata", Quick: true, Check: checkMetadata},
			{Name: "token-budget", Quick: false, Check: budget},
			{Name: "link-reachability", Quick: false, Check: reach},
		},
	}
}

// Run executes the rules selected by profile and returns all findings in
// rule order.
func (e *Engine) Run(doc *parser.Document, profile Profile) []models.Finding {
	var findings []models.Finding
	for _, rule := range e.rules {
		if profile == ProfileQuick && !rule.Quick {
			continue
		}
		findings = append(findings, rule.Check(doc)...)
	}
	return findings
}

// RuleNames returns the names of the rules active under profile.
func (e *Engine) RuleNames(profile Profile) []string {
	var names []string
	for _, rule := range e.rules {
		if profile == ProfileQuick && !rule.Quick {
			continue
		}
		names = append(names, rule.Name)
	}
	return names
}
