// Package analyzer wires the document parser, the static rule engine, the
// semantic orchestrator, and the shared result cache into the inbound
// Analyze/AnalyzeQuick operations.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/harrison/promptcheck/internal/cache"
	"github.com/harrison/promptcheck/internal/config"
	"github.com/harrison/promptcheck/internal/fileutil"
	"github.com/harrison/promptcheck/internal/logger"
	"github.com/harrison/promptcheck/internal/models"
	"github.com/harrison/promptcheck/internal/parser"
	"github.com/harrison/promptcheck/internal/rules"
	"github.com/harrison/promptcheck/internal/semantic"
)

// Options configures an Analyzer.
type Options struct {
	// Complete is the language-model proxy; nil leaves semantic analysis
	// unavailable.
	Complete semantic.CompleteFunc

	// Probe backs link validation and composition. Nil selects the real
	// filesystem.
	Probe fileutil.Probe

	// Cache is the shared result cache. Nil creates a private one.
	Cache *cache.Cache

	// Config supplies tunables. Nil selects defaults.
	Config *config.Config

	// Logger receives pipeline progress. Nil is silent.
	Logger logger.Logger
}

// Analyzer runs the analysis pipeline. Safe for concurrent use across
// documents.
type Analyzer struct {
	parser   *parser.Parser
	engine   *rules.Engine
	semantic *semantic.Orchestrator
	cache    *cache.Cache
	probe    fileutil.Probe
	log      logger.Logger
}

// New creates an Analyzer.
func New(opts Options) *Analyzer {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	probe := opts.Probe
	if probe == nil {
		probe = fileutil.OSProbe{}
	}

	store := opts.Cache
	if store == nil {
		store = cache.New(cfg.Cache.TTL, cfg.Cache.Capacity)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	engine := rules.NewEngine(rules.Options{
		Probe:                 probe,
		Tokenizer:             rules.WordTokenizer{},
		BudgetWindow:          cfg.BudgetWindow,
		WeakPhraseSuggestions: cfg.WeakPhraseSuggestions,
	})

	orchestrator := semantic.New(semantic.Options{
		Complete:     opts.Complete,
		Probe:        probe,
		Timeout:      cfg.Semantic.Timeout,
		MinBodyChars: cfg.Semantic.MinBodyChars,
	})

	return &Analyzer{
		parser:   parser.New(),
		engine:   engine,
		semantic: orchestrator,
		cache:    store,
		probe:    probe,
		log:      log,
	}
}

// AnalyzeQuick runs only the checks safe for every keystroke: no filesystem,
// no tokenizer, no provider, no cache.
func (a *Analyzer) AnalyzeQuick(text, identifier, workspaceRoot string) []models.Finding {
	doc := a.parser.ParseWithRoot(text, identifier, workspaceRoot)
	return a.engine.Run(doc, rules.ProfileQuick)
}

// Analyze runs the full pipeline: all static rules plus semantic analysis,
// consulting the shared cache first. The cache key is a hash of the document
// text composed with the contents of every resolved link, so an edit to a
// linked document invalidates the entry.
func (a *Analyzer) Analyze(ctx context.Context, text, identifier, workspaceRoot string) []models.Finding {
	runID := uuid.NewString()[:8]
	doc := a.parser.ParseWithRoot(text, identifier, workspaceRoot)

	digest := cache.Hash(a.composeHashInput(doc))
	if findings, ok := a.cache.Get(digest); ok {
		a.log.LogDebug(fmt.Sprintf("[%s] cache hit for %s", runID, identifier))
		return findings
	}

	a.log.LogDebug(fmt.Sprintf("[%s] full analysis of %s", runID, identifier))

	findings := a.engine.Run(doc, rules.ProfileFull)
	findings = append(findings, a.semantic.Analyze(ctx, doc)...)

	a.cache.Set(digest, findings, 0)
	a.log.LogDebug(fmt.Sprintf("[%s] %d finding(s) for %s", runID, len(findings), identifier))
	return findings
}

// InvalidateCache clears the whole shared cache. Used by explicit re-analyze
// requests to force fresh results even when hashes coincidentally match.
func (a *Analyzer) InvalidateCache() {
	a.cache.Clear()
}

// Cache exposes the shared cache for snapshot export/import.
func (a *Analyzer) Cache() *cache.Cache {
	return a.cache
}

// composeHashInput builds the content-addressing input: the exact document
// text plus the path and contents of every resolved composition link at
// hashing time. Unreadable links contribute their path only, so a link
// becoming readable also changes the digest.
func (a *Analyzer) composeHashInput(doc *parser.Document) string {
	var sb strings.Builder
	sb.WriteString(doc.Text)
	for _, link := range doc.Links {
		if link.Resolved == "" {
			continue
		}
		sb.WriteString("\x00")
		sb.WriteString(link.Resolved)
		sb.WriteString("\x00")
		if content, err := a.probe.ReadText(link.Resolved); err == nil {
			sb.WriteString(content)
		}
	}
	return sb.String()
}
