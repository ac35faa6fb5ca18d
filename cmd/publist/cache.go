package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cacheFlagPath string

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.PersistentFlags().StringVar(&cacheFlagPath, "cache", "", "Response cache database (default from config)")
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the response cache",
}

// CacheInfo is the JSON output for publist cache info.
type CacheInfo struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
	Bytes   int64  `json:"bytes"`
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and entry count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		path := cacheFlagPath
		if path == "" {
			path = cfg.EffectiveCachePath()
		}

		info := CacheInfo{Path: path}
		if stat, err := os.Stat(path); err == nil {
			info.Bytes = stat.Size()

			store := mustOpenCache(cfg, cacheFlagPath)
			defer store.Close()
			count, err := store.Count()
			if err != nil {
				exitWithError(ExitError, "counting cache entries: %v", err)
			}
			info.Entries = count
		}

		if humanOutput {
			fmt.Printf("Cache: %s\n", info.Path)
			fmt.Printf("  Entries: %d\n", info.Entries)
			fmt.Printf("  Size: %d bytes\n", info.Bytes)
		} else {
			outputJSON(info)
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached responses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		store := mustOpenCache(cfg, cacheFlagPath)
		defer store.Close()

		if err := store.Clear(); err != nil {
			exitWithError(ExitError, "clearing cache: %v", err)
		}

		if humanOutput {
			fmt.Println("Cache cleared.")
		} else {
			outputJSON(map[string]string{"status": "cleared"})
		}
		return nil
	},
}
