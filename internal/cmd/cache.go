package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/promptcheck/internal/cache"
	"github.com/harrison/promptcheck/internal/filelock"
)

// NewCacheCommand creates the 'promptcheck cache' subcommand group.
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the analysis cache snapshot",
	}
	cmd.AddCommand(newCacheShowCommand())
	cmd.AddCommand(newCacheClearCommand())
	return cmd
}

func newCacheShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show cache snapshot statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(cfg.Cache.SnapshotPath)
			if os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "no cache snapshot")
				return nil
			}
			if err != nil {
				return err
			}

			store := cache.New(cfg.Cache.TTL, cfg.Cache.Capacity)
			live := store.Import(data)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d live entr%s\n",
				cfg.Cache.SnapshotPath, live, pluralY(live))
			return nil
		},
	}
}

func newCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the cache snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			path := cfg.Cache.SnapshotPath
			lock := filelock.New(path + ".lock")
			if err := lock.Lock(); err != nil {
				return err
			}
			defer lock.Unlock()

			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
			return nil
		},
	}
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
