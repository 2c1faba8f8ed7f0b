package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/forumsent/forumsent/internal/config"
	"github.com/forumsent/forumsent/internal/pipeline"
	"github.com/forumsent/forumsent/internal/scrape"
	"github.com/forumsent/forumsent/internal/sentiment"
	"github.com/forumsent/forumsent/internal/storage"
	"github.com/forumsent/forumsent/internal/urls"
)

var (
	cfgFile string
	verbose bool

	backend     string
	urlsFile    string
	urlsCSV     string
	csvColumn   string
	maxPages    int
	sleep       string
	headless    bool
	scrollMax   int
	scrollLimit int
	scrollPause string
	apiLimit    int
	maxMessages int
	postsOut    string
	summaryOut  string
	engine      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "forumsent",
		Short: "forumsent — stock-forum sentiment harvester",
		Long: `forumsent scrapes stock-topic forum threads, scores each post's
sentiment, and writes a post-level CSV plus a per-thread summary JSON
ready for strategy ingestion.

Backends:
  static   plain HTTP fetch with heuristic post discovery
  dynamic  headless browser rendering for lazy-loaded threads
  api      structured message feed, no HTML parsing`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [url...]",
		Short: "Scrape thread URLs and score sentiment",
		Long:  "Scrape the given thread URLs (or URLs loaded from a file/CSV), score every post, and write the outputs.",
		RunE:  runScrape,
	}

	cmd.Flags().StringVarP(&backend, "backend", "b", "", "backend: static, dynamic, or api")
	cmd.Flags().StringVar(&urlsFile, "urls-file", "", "newline-delimited file of thread URLs")
	cmd.Flags().StringVar(&urlsCSV, "urls-csv", "", "CSV file containing thread URLs")
	cmd.Flags().StringVar(&csvColumn, "csv-column", urls.DefaultCSVColumn, "CSV column holding the URLs")
	cmd.Flags().IntVarP(&maxPages, "max-pages", "p", 0, "maximum pages per thread (0 = config default)")
	cmd.Flags().StringVar(&sleep, "sleep", "", "delay between page fetches, e.g. 1.2s")
	cmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless (dynamic backend)")
	cmd.Flags().IntVar(&scrollMax, "scroll-max", 0, "max consecutive scrolls without new content (dynamic backend)")
	cmd.Flags().IntVar(&scrollLimit, "scroll-limit", 0, "hard cap on scroll attempts per page (dynamic backend)")
	cmd.Flags().StringVar(&scrollPause, "scroll-pause", "", "wait between scrolls, e.g. 1s (dynamic backend)")
	cmd.Flags().IntVar(&apiLimit, "api-limit-count", 0, "batch size per feed request (api backend)")
	cmd.Flags().IntVar(&maxMessages, "max-messages", -1, "cap on total messages per thread, 0 = no cap (api backend)")
	cmd.Flags().StringVarP(&postsOut, "posts-out", "o", "", "CSV path for post-level output")
	cmd.Flags().StringVar(&summaryOut, "summary-out", "", "JSON path for per-thread summaries")
	cmd.Flags().StringVar(&engine, "sentiment-engine", "", "sentiment engine: vader or lexicon")

	return cmd
}

// runScrape executes the scrape command.
func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cmd, cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg)

	threadURLs, err := urls.Load(args, urlsFile, urlsCSV, csvColumn)
	if err != nil {
		return err
	}
	if len(threadURLs) == 0 {
		return fmt.Errorf("no thread URLs: pass them as arguments or via --urls-file/--urls-csv")
	}
	for _, rawURL := range threadURLs {
		if err := config.ValidateURL(rawURL); err != nil {
			return fmt.Errorf("invalid URL %q: %w", rawURL, err)
		}
	}

	scorer, err := sentiment.New(cfg.Sentiment.Engine)
	if err != nil {
		return err
	}

	be, err := scrape.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}

	logger.Info("starting run",
		"backend", be.Type(),
		"urls", len(threadURLs),
		"sentiment", scorer.Name(),
		"posts_out", cfg.Output.PostsPath,
		"summary_out", cfg.Output.SummaryPath,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	result := pipeline.New(be, scorer, logger).Run(ctx, threadURLs)

	writer := storage.NewWriter(cfg.Output.PostsPath, cfg.Output.SummaryPath, logger)
	if err := writer.WritePosts(result.Posts); err != nil {
		return err
	}
	if err := writer.WriteSummary(result.Summaries); err != nil {
		return err
	}

	elapsed := time.Since(start)
	logger.Info("run complete",
		"elapsed", elapsed,
		"posts", len(result.Posts),
		"threads", len(result.Summaries),
		"failed_urls", len(result.FailedURLs),
	)

	fmt.Printf("Scraped %d posts across %d threads in %s.\n",
		len(result.Posts), len(threadURLs), elapsed.Round(time.Millisecond))
	fmt.Printf("Posts written to %s, summary to %s.\n",
		cfg.Output.PostsPath, cfg.Output.SummaryPath)
	if len(result.FailedURLs) > 0 {
		fmt.Printf("Failed URLs (%d):\n", len(result.FailedURLs))
		for _, u := range result.FailedURLs {
			fmt.Printf("  %s\n", u)
		}
	}

	return nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("forumsent %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Scrape:\n")
			fmt.Printf("  Backend:          %s\n", cfg.Scrape.Backend)
			fmt.Printf("  Max Pages:        %d\n", cfg.Scrape.MaxPages)
			fmt.Printf("  Page Delay:       %s\n", cfg.Scrape.PageDelay)
			fmt.Printf("  Request Timeout:  %s\n", cfg.Scrape.RequestTimeout)
			fmt.Printf("  User Agents:      %d configured\n", len(cfg.Scrape.UserAgents))
			fmt.Printf("\nBrowser:\n")
			fmt.Printf("  Headless:         %v\n", cfg.Browser.Headless)
			fmt.Printf("  Wait Selector:    %s\n", cfg.Browser.WaitSelector)
			fmt.Printf("  Scroll Max:       %d\n", cfg.Browser.ScrollMax)
			fmt.Printf("  Scroll Limit:     %d\n", cfg.Browser.ScrollLimit)
			fmt.Printf("  Scroll Pause:     %s\n", cfg.Browser.ScrollPause)
			fmt.Printf("\nAPI:\n")
			fmt.Printf("  Base URL:         %s\n", cfg.API.BaseURL)
			fmt.Printf("  Limit Count:      %d\n", cfg.API.LimitCount)
			fmt.Printf("  Max Messages:     %d\n", cfg.API.MaxMessages)
			fmt.Printf("\nSentiment:\n")
			fmt.Printf("  Engine:           %s\n", cfg.Sentiment.Engine)
			fmt.Printf("\nOutput:\n")
			fmt.Printf("  Posts Path:       %s\n", cfg.Output.PostsPath)
			fmt.Printf("  Summary Path:     %s\n", cfg.Output.SummaryPath)
			return nil
		},
	}
}

// setupLogger creates a structured logger from the logging config.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cmd *cobra.Command, cfg *config.Config) {
	if backend != "" {
		cfg.Scrape.Backend = backend
	}
	if maxPages > 0 {
		cfg.Scrape.MaxPages = maxPages
	}
	if sleep != "" {
		if d, err := time.ParseDuration(sleep); err == nil {
			cfg.Scrape.PageDelay = d
		}
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = headless
	}
	if scrollMax > 0 {
		cfg.Browser.ScrollMax = scrollMax
	}
	if scrollLimit > 0 {
		cfg.Browser.ScrollLimit = scrollLimit
	}
	if scrollPause != "" {
		if d, err := time.ParseDuration(scrollPause); err == nil {
			cfg.Browser.ScrollPause = d
		}
	}
	if apiLimit > 0 {
		cfg.API.LimitCount = apiLimit
	}
	if maxMessages >= 0 {
		cfg.API.MaxMessages = maxMessages
	}
	if postsOut != "" {
		cfg.Output.PostsPath = postsOut
	}
	if summaryOut != "" {
		cfg.Output.SummaryPath = summaryOut
	}
	if engine != "" {
		cfg.Sentiment.Engine = engine
	}
}
