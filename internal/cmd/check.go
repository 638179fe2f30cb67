package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/promptcheck/internal/analyzer"
	"github.com/harrison/promptcheck/internal/cache"
	"github.com/harrison/promptcheck/internal/config"
	"github.com/harrison/promptcheck/internal/filelock"
	"github.com/harrison/promptcheck/internal/fileutil"
	"github.com/harrison/promptcheck/internal/logger"
	"github.com/harrison/promptcheck/internal/models"
	"github.com/harrison/promptcheck/internal/render"
)

// NewCheckCommand creates the 'promptcheck check' subcommand.
func NewCheckCommand() *cobra.Command {
	var (
		quick   bool
		noCache bool
		root    string
	)

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Analyze prompt documents and report findings",
		Long: `Analyze the given markdown files or directories. Directories are scanned
recursively for markdown files; only documents of a recognized category
produce category-specific findings.

Exit code is 1 when any finding has error severity.

Examples:
  promptcheck check .
  promptcheck check prompts/reviewer.prompt.md --quick
  promptcheck check --workspace-root . prompts/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, quick, noCache, root)
		},
	}

	cmd.Flags().BoolVar(&quick, "quick", false, "run only the quick rule profile")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the cache snapshot on disk")
	cmd.Flags().StringVar(&root, "workspace-root", "", "workspace root for link containment (default: current directory)")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, quick, noCache bool, root string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return err
		}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return err
	}

	log := logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)
	a := analyzer.New(analyzer.Options{
		Config: cfg,
		Logger: log,
	})

	snapshotPath := cfg.Cache.SnapshotPath
	if !noCache && !quick && snapshotPath != "" {
		loadSnapshot(a.Cache(), snapshotPath, log)
		defer saveSnapshot(a.Cache(), snapshotPath, log)
	}

	files, err := collectDocuments(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no markdown documents found")
	}

	out := cmd.OutOrStdout()
	var all []models.Finding
	for _, file := range files {
		text, err := os.ReadFile(file)
		if err != nil {
			log.LogWarn(fmt.Sprintf("skipping %s: %v", file, err))
			continue
		}

		var findings []models.Finding
		if quick {
			findings = a.AnalyzeQuick(string(text), file, root)
		} else {
			findings = a.Analyze(cmd.Context(), string(text), file, root)
		}

		render.Findings(out, file, findings)
		all = append(all, findings...)
	}

	render.Summary(out, len(all), models.CountBySeverity(all))

	if models.HasErrors(all) {
		// Exit non-zero without the usage noise of a cobra error.
		cmd.SilenceErrors = true
		return fmt.Errorf("errors found")
	}
	return nil
}

// collectDocuments expands files and directories into a markdown file list.
func collectDocuments(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", p, err)
		}
		if info.IsDir() {
			found, err := fileutil.FindDocuments(p)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		files = append(files, abs)
	}
	return files, nil
}

// loadSnapshot imports the on-disk cache snapshot under its lock.
func loadSnapshot(store *cache.Cache, path string, log logger.Logger) {
	lock := filelock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		log.LogWarn(fmt.Sprintf("cache snapshot locked, skipping import: %v", err))
		return
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if n := store.Import(data); n > 0 {
		log.LogDebug(fmt.Sprintf("imported %d cache entries from %s", n, path))
	}
}

// saveSnapshot exports the cache atomically under its lock.
func saveSnapshot(store *cache.Cache, path string, log logger.Logger) {
	data, err := store.Export()
	if err != nil {
		log.LogWarn(fmt.Sprintf("cache export failed: %v", err))
		return
	}

	lock := filelock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		log.LogWarn(fmt.Sprintf("cache snapshot locked, skipping export: %v", err))
		return
	}
	defer lock.Unlock()

	if err := filelock.AtomicWrite(path, data); err != nil {
		log.LogWarn(fmt.Sprintf("cache snapshot write failed: %v", err))
	}
}

// loadConfig resolves the --config flag to a Config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigFile
	}
	return config.Load(path)
}
