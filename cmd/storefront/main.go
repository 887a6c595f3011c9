package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/ai"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/api"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/config"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/fetcher"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/marketplace"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/observability"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/resolve"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/storage"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/types"
)

var (
	cfgFile       string
	verbose       bool
	partnerTag    string
	skipHostCheck bool
	outputPath    string
	storageType   string
	apiPort       int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "True Essentials affiliate storefront product pipeline",
		Long: `Storefront resolves marketplace product URLs into complete,
validated product records for an affiliate storefront.

Features:
  • ASIN extraction from every common product URL shape
  • Affiliate link construction with partner tag
  • Tiered text resolution: page scrape, URL inference, AI, templates
  • Tiered image resolution: page scrape, headless browser, CDN probe, placeholder
  • Keyword categorization into a fixed storefront taxonomy
  • MongoDB or JSON file record store
  • REST API with bulk import and re-categorization
  • Prometheus metrics endpoint`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(categorizeCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveCmd creates the "resolve" subcommand.
func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [url...]",
		Short: "Resolve product URLs into stored records",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runResolve,
	}

	cmd.Flags().StringVarP(&partnerTag, "tag", "t", "", "affiliate partner tag override")
	cmd.Flags().BoolVar(&skipHostCheck, "skip-host-check", false, "accept URLs from any host")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file path for the JSON store")
	cmd.Flags().StringVarP(&storageType, "storage", "s", "", "storage backend: json or mongo")

	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	app, err := buildApp(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := signalContext()
	defer cancel()

	opts := &resolve.Options{PartnerTag: partnerTag, SkipHostCheck: skipHostCheck}

	start := time.Now()
	results := app.pipeline.ResolveAll(ctx, args, opts)

	var stored, failed int
	for _, res := range results {
		if res.Err != nil {
			logger.Warn("resolution failed", "url", res.SourceURL, "error", res.Err)
			failed++
			continue
		}
		if err := app.store.Upsert(ctx, res.Record); err != nil {
			logger.Error("store failed", "asin", res.Record.ASIN, "error", err)
			failed++
			continue
		}
		stored++
		fmt.Printf("  %s  %-40s  %s (%s / %s)\n",
			res.Record.ASIN, truncate(res.Record.Title, 40), res.Record.Category,
			res.Record.TextSource, res.Record.ImageSource)
	}

	fmt.Printf("\n✅ Resolved %d of %d URLs in %s (%d failed)\n",
		stored, len(args), time.Since(start).Round(time.Millisecond), failed)
	return nil
}

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront REST API",
		RunE:  runServe,
	}

	cmd.Flags().IntVarP(&apiPort, "port", "p", 0, "API port (overrides config)")
	cmd.Flags().StringVarP(&storageType, "storage", "s", "", "storage backend: json or mongo")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if apiPort > 0 {
		cfg.API.Port = apiPort
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(logger)
	}

	app, err := buildApp(cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer app.Close()

	server := api.NewServer(&cfg.API, app.pipeline, app.store, metrics, logger)

	ctx, cancel := signalContext()
	defer cancel()
	go func() {
		<-ctx.Done()
		logger.Info("received signal, shutting down...")
		app.Close()
		os.Exit(0)
	}()

	return server.Start()
}

// importCmd creates the "import" subcommand for CSV bulk loads.
func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Bulk import pre-scraped products from a CSV file",
		Long: `Import products from a CSV file with a header row. Recognized
columns: asin, title, description, image_url, source_url. Only asin is
required; missing text and images fall back the same way resolution does.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file path for the JSON store")
	cmd.Flags().StringVarP(&storageType, "storage", "s", "", "storage backend: json or mongo")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	app, err := buildApp(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["asin"]; !ok {
		return fmt.Errorf("csv has no asin column")
	}

	ctx, cancel := signalContext()
	defer cancel()

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var imported, failed, line int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.Warn("csv row skipped", "line", line, "error", err)
			failed++
			continue
		}

		record, err := app.pipeline.Ingest(
			field(row, "asin"),
			field(row, "title"),
			field(row, "description"),
			field(row, "image_url"),
			field(row, "source_url"),
		)
		if err != nil {
			logger.Warn("import skipped", "line", line, "asin", field(row, "asin"), "error", err)
			failed++
			continue
		}
		if err := app.store.Upsert(ctx, record); err != nil {
			logger.Error("store failed", "asin", record.ASIN, "error", err)
			failed++
			continue
		}
		imported++
	}

	fmt.Printf("✅ Imported %d products (%d failed) into %s\n", imported, failed, app.store.Name())
	return nil
}

// categorizeCmd creates the "categorize" subcommand.
func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Re-run the categorizer over all stored products",
		RunE:  runCategorize,
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file path for the JSON store")
	cmd.Flags().StringVarP(&storageType, "storage", "s", "", "storage backend: json or mongo")

	return cmd
}

func runCategorize(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	app, err := buildApp(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := signalContext()
	defer cancel()

	records, err := app.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	updated := 0
	for _, record := range records {
		category := app.pipeline.Recategorize(record)
		if category == record.Category {
			continue
		}
		upd := &types.RecordUpdate{Category: &category}
		if err := app.store.Update(ctx, record.ASIN, upd); err != nil {
			logger.Error("category update failed", "asin", record.ASIN, "error", err)
			continue
		}
		fmt.Printf("  %s  %s → %s\n", record.ASIN, record.Category, category)
		updated++
	}

	fmt.Printf("✅ Scanned %d products, updated %d categories\n", len(records), updated)
	return nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("storefront %s\n", config.Version)
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
			fmt.Printf("Marketplace:\n")
			fmt.Printf("  Domain:           %s\n", cfg.Marketplace.Domain)
			fmt.Printf("  Partner Tag:      %s\n", cfg.Marketplace.PartnerTag)
			fmt.Printf("  Host Aliases:     %d configured\n", len(cfg.Marketplace.HostAliases))
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Request Timeout:  %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("  Max Body Size:    %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("  User Agents:      %d configured\n", len(cfg.Fetcher.UserAgents))
			fmt.Printf("\nBrowser:\n")
			fmt.Printf("  Enabled:          %v\n", cfg.Browser.Enabled)
			fmt.Printf("  Nav Timeout:      %s\n", cfg.Browser.NavTimeout)
			fmt.Printf("\nAI:\n")
			fmt.Printf("  Enabled:          %v\n", cfg.AI.Enabled)
			fmt.Printf("  Provider:         %s\n", cfg.AI.Provider)
			fmt.Printf("  Model:            %s\n", cfg.AI.Model)
			fmt.Printf("\nContent:\n")
			fmt.Printf("  Max Title Length: %d\n", cfg.Content.MaxTitleLength)
			fmt.Printf("  Profile:          %s\n", cfg.Content.Profile)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:             %s\n", cfg.Storage.Type)
			fmt.Printf("  Output Path:      %s\n", cfg.Storage.OutputPath)
			fmt.Printf("\nAPI:\n")
			fmt.Printf("  Port:             %d\n", cfg.API.Port)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:          %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:             %d\n", cfg.Metrics.Port)
			return nil
		},
	}
}

// app bundles the wired pipeline and its owned resources.
type app struct {
	pipeline *resolve.Pipeline
	store    storage.Store
	fetcher  fetcher.Fetcher
}

func (a *app) Close() {
	if a.fetcher != nil {
		a.fetcher.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}

// buildApp wires the fetcher, resolvers, store, and pipeline from config.
func buildApp(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*app, error) {
	httpFetcher, err := fetcher.NewHTTPFetcher(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	describer := ai.NewDescriber(ai.NewLLMClient(cfg.AI, logger), logger)
	links := marketplace.NewLinkBuilder(cfg.Marketplace.Domain, cfg.Marketplace.PartnerTag)

	text := resolve.NewTextResolver(httpFetcher, describer, cfg, logger)
	image := resolve.NewImageResolver(httpFetcher, cfg, logger)

	store, err := storage.NewStore(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create storage: %w", err)
	}

	return &app{
		pipeline: resolve.NewPipeline(cfg, links, text, image, metrics, logger),
		store:    store,
		fetcher:  httpFetcher,
	}, nil
}

// loadConfig loads configuration and applies CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if storageType != "" {
		cfg.Storage.Type = strings.ToLower(storageType)
	}
	if outputPath != "" {
		cfg.Storage.OutputPath = outputPath
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setupLogger creates a structured logger.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
