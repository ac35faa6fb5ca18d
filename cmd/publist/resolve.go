package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mslw/publist/internal/assemble"
	"github.com/mslw/publist/internal/cache"
	"github.com/mslw/publist/internal/citation"
	"github.com/mslw/publist/internal/config"
	"github.com/mslw/publist/internal/extract"
	"github.com/mslw/publist/internal/parser"
	"github.com/mslw/publist/internal/resolve"
	"github.com/spf13/cobra"
)

var (
	resolveDumpPath  string
	resolveCachePath string
	resolveEmail     string
)

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resolveDumpPath, "dump", "", "Also write resolved citations as JSONL to this path")
	resolveCmd.Flags().StringVar(&resolveCachePath, "cache", "", "Response cache database (default from config)")
	resolveCmd.Flags().StringVar(&resolveEmail, "email", "", "Contact email for polite API usage (overrides config)")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <input.txt>",
	Short: "Resolve a publication list into citation metadata",
	Long: `Resolve a plaintext publication list into CSL citation metadata.

Each citation block is matched against the identifier patterns (explicit
PMID:/PMCID:/doi: tags, doi.org and publisher URLs, PubMed and PMC URLs).
The highest-priority identifier (PMID > PMCID > DOI) is fetched from its
metadata service; blocks without any identifier go through a disambiguated
Crossref search instead. Failed resolutions are reported as unresolved
entries, never dropped.

Examples:
  publist resolve papers.txt                 # JSON to stdout
  publist resolve papers.txt --human         # readable listing
  publist resolve papers.txt --dump out.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

// ResolveSummary is the JSON output envelope for publist resolve.
type ResolveSummary struct {
	Sections   []citation.ResolvedSection `json:"sections"`
	Resolved   int                        `json:"resolved"`
	Unresolved int                        `json:"unresolved"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	// A .env next to the input is a convenient place for PUBLIST_EMAIL.
	_ = godotenv.Load()

	cfg := mustLoadConfig()
	if resolveEmail != "" {
		cfg.Email = resolveEmail
	}

	sections := mustParseInput(args[0])

	extractor, err := extract.New(cfg.PublisherPatterns)
	if err != nil {
		exitWithError(ExitConfigError, "building extractor: %v", err)
	}

	store := mustOpenCache(cfg, resolveCachePath)
	defer store.Close()

	client := newResolveClient(cfg, store)
	assembler := assemble.New(extractor, client, cfg.HighlightAuthors, os.Stderr)

	resolved := assembler.Run(context.Background(), sections)

	if resolveDumpPath != "" {
		if err := assemble.WriteDump(resolveDumpPath, resolved); err != nil {
			exitWithError(ExitError, "writing dump: %v", err)
		}
	}

	summary := summarize(resolved)
	if humanOutput {
		printResolvedHuman(resolved)
		fmt.Fprintf(os.Stderr, "%d resolved, %d unresolved\n", summary.Resolved, summary.Unresolved)
	} else {
		outputJSON(summary)
	}

	return nil
}

func summarize(sections []citation.ResolvedSection) ResolveSummary {
	summary := ResolveSummary{Sections: sections}
	for _, section := range sections {
		for _, rc := range section.Citations {
			if rc.Status == citation.StatusResolved {
				summary.Resolved++
			} else {
				summary.Unresolved++
			}
		}
	}
	return summary
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustParseInput reads and parses the input file, exiting before any
// network activity on malformed blocks.
func mustParseInput(path string) []citation.Section {
	data, err := os.ReadFile(path)
	if err != nil {
		exitWithError(ExitError, "reading %s: %v", path, err)
	}

	sections, err := parser.Parse(string(data))
	if err != nil {
		var mbe *parser.MalformedBlockError
		if errors.As(err, &mbe) {
			exitWithError(ExitDataError, "%s: %v", path, err)
		}
		exitWithError(ExitError, "parsing %s: %v", path, err)
	}
	return sections
}

// mustOpenCache opens the response cache, exits on error. The caller is
// responsible for calling Close() on the returned store.
func mustOpenCache(cfg *config.Config, override string) *cache.Store {
	path := override
	if path == "" {
		path = cfg.EffectiveCachePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	store, err := cache.Open(path)
	if err != nil {
		exitWithError(ExitError, "opening cache: %v", err)
	}
	return store
}

// newResolveClient wires the resolution client from configuration.
func newResolveClient(cfg *config.Config, store *cache.Store) *resolve.Client {
	opts := []resolve.Option{
		resolve.WithUserAgent("publist/" + Version),
		resolve.WithRetry(cfg.MaxRetries, time.Duration(cfg.BackoffMillis)*time.Millisecond),
		resolve.WithThresholds(cfg.MinScore, cfg.TieMargin),
		resolve.WithSearchRows(cfg.SearchRows),
	}
	if cfg.Email != "" {
		opts = append(opts, resolve.WithEmail(cfg.Email))
	}
	return resolve.NewClient(store, cache.NewThrottle(cfg.RateLimit), opts...)
}
