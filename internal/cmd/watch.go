package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/harrison/promptcheck/internal/analyzer"
	"github.com/harrison/promptcheck/internal/logger"
	"github.com/harrison/promptcheck/internal/models"
	"github.com/harrison/promptcheck/internal/render"
	"github.com/harrison/promptcheck/internal/session"
)

// NewWatchCommand creates the 'promptcheck watch' subcommand.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory and re-analyze documents on change",
		Long: `Watch a directory tree for markdown changes. Every write runs the quick
rule profile immediately; the full pipeline runs once a document goes quiet
for the configured debounce delay.`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	root, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	log := logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)
	out := cmd.OutOrStdout()

	a := analyzer.New(analyzer.Options{
		Config: cfg,
		Logger: log,
	})

	publish := func(identifier string, version int64, findings []models.Finding) {
		render.Findings(out, fmt.Sprintf("%s @v%d", identifier, version), findings)
	}
	manager := session.NewManager(a, root, cfg.DebounceDelay, publish, log)
	defer manager.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, root); err != nil {
		return err
	}

	log.LogInfo(fmt.Sprintf("watching %s", root))

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleWatchEvent(watcher, manager, log, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.LogWarn(fmt.Sprintf("watch error: %v", err))
		}
	}
}

// handleWatchEvent routes one fsnotify event into the session layer.
func handleWatchEvent(watcher *fsnotify.Watcher, manager *session.Manager, log logger.Logger, event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := addRecursive(watcher, path); err != nil {
				log.LogWarn(fmt.Sprintf("cannot watch %s: %v", path, err))
			}
			return
		}
	}

	if !strings.EqualFold(filepath.Ext(path), ".md") {
		return
	}

	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		manager.Remove(path)
	case event.Has(fsnotify.Create):
		text, err := os.ReadFile(path)
		if err != nil {
			return
		}
		manager.Session(path).OnOpen(string(text))
	case event.Has(fsnotify.Write):
		text, err := os.ReadFile(path)
		if err != nil {
			return
		}
		manager.Session(path).OnChange(string(text))
	}
}

// addRecursive watches dir and all its subdirectories.
func addRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			if err := watcher.Add(path); err != nil && !os.IsPermission(err) {
				return err
			}
		}
		return nil
	})
}
