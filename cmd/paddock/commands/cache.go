package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/paddock/display"
	"github.com/teranos/paddock/provider/cache"
)

// CacheCmd manages the provider response cache
var CacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the provider response cache",
	Long: `The provider response cache keeps every successful provider response in the
paddock database, so re-running a season range does not refetch concluded
sessions. Schedules of the current season are never cached.

Examples:
  paddock cache stats
  paddock cache clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show response cache size and age",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached response",
	RunE:  runCacheClear,
}

func init() {
	CacheCmd.AddCommand(cacheStatsCmd)
	CacheCmd.AddCommand(cacheClearCmd)
}

func openCache() (*cache.Store, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewStore(database), database.Close, nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, closeDB, err := openCache()
	if err != nil {
		return err
	}
	defer closeDB()

	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd, stats)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Responses: %d\n", stats.Entries)
	fmt.Fprintf(out, "Size:      %.1f MB\n", float64(stats.Bytes)/(1<<20))
	if stats.Entries > 0 {
		fmt.Fprintf(out, "Oldest:    %s\n", stats.Oldest.Local().Format(time.RFC3339))
		fmt.Fprintf(out, "Newest:    %s\n", stats.Newest.Local().Format(time.RFC3339))
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, closeDB, err := openCache()
	if err != nil {
		return err
	}
	defer closeDB()

	n, err := store.Clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d cached responses\n", n)
	return nil
}
