package main

import (
	"fmt"
	"strings"

	"github.com/mslw/publist/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize publist configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		if humanOutput {
			fmt.Printf("Email: %s\n", cfg.Email)
			fmt.Printf("Cache: %s\n", cfg.EffectiveCachePath())
			if len(cfg.HighlightAuthors) > 0 {
				fmt.Printf("Highlight authors: %s\n", strings.Join(cfg.HighlightAuthors, ", "))
			}
			if len(cfg.PublisherPatterns) > 0 {
				fmt.Printf("Extra publisher patterns: %d\n", len(cfg.PublisherPatterns))
			}
		} else {
			outputJSON(cfg)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.Path()
		}
		fmt.Println(path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init <email>",
	Short: "Write a starter config file",
	Long: `Write a starter config file with the given contact email.

The email is sent in the User-Agent of every request and routes Crossref
queries into the polite pool.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &config.Config{Email: args[0]}
		if err := cfg.Save(configPath); err != nil {
			exitWithError(ExitConfigError, "writing config: %v", err)
		}

		path := configPath
		if path == "" {
			path = config.Path()
		}
		if humanOutput {
			fmt.Printf("Wrote %s\n", path)
		} else {
			outputJSON(map[string]string{"status": "created", "path": path})
		}
		return nil
	},
}
