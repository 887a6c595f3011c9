// Package storefront provides a public SDK for embedding the product
// resolution pipeline as a library.
//
// Example usage:
//
//	client, err := storefront.New(
//	    storefront.WithPartnerTag("trueessentials-20"),
//	    storefront.WithJSONStore("./output/products.json"),
//	    storefront.WithBrowser(false),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	record, err := client.Resolve(ctx, "https://www.amazon.com/dp/B08XYZ1234")
package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/ai"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/config"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/fetcher"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/marketplace"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/resolve"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/storage"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/types"
)

// ProductRecord is the complete, validated product produced by resolution.
type ProductRecord = types.ProductRecord

// ResolveResult pairs one input URL with its outcome in bulk resolution.
type ResolveResult = types.ResolveResult

// Option configures a Client.
type Option func(*settings)

type settings struct {
	cfg    *config.Config
	logger *slog.Logger
}

// WithPartnerTag sets the affiliate partner tag used for outbound links.
func WithPartnerTag(tag string) Option {
	return func(s *settings) { s.cfg.Marketplace.PartnerTag = tag }
}

// WithJSONStore persists records to a JSON file at the given path.
func WithJSONStore(path string) Option {
	return func(s *settings) {
		s.cfg.Storage.Type = "json"
		s.cfg.Storage.OutputPath = path
	}
}

// WithMongoStore persists records to a MongoDB collection.
func WithMongoStore(uri, database, collection string) Option {
	return func(s *settings) {
		s.cfg.Storage.Type = "mongo"
		s.cfg.Storage.URI = uri
		s.cfg.Storage.Database = database
		s.cfg.Storage.Collection = collection
	}
}

// WithBrowser enables or disables the headless-browser image tier.
func WithBrowser(enabled bool) Option {
	return func(s *settings) { s.cfg.Browser.Enabled = enabled }
}

// WithAI enables AI description generation with the given provider.
func WithAI(provider, model, apiKey string) Option {
	return func(s *settings) {
		s.cfg.AI.Enabled = true
		s.cfg.AI.Provider = provider
		s.cfg.AI.Model = model
		s.cfg.AI.APIKey = apiKey
	}
}

// WithStrictValidation raises the description length floor.
func WithStrictValidation() Option {
	return func(s *settings) { s.cfg.Content.Profile = "strict" }
}

// WithLogger sets the logger used by all components.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithConfig replaces the entire base configuration. Options applied after
// this one override its fields.
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) { s.cfg = cfg }
}

// Client is the high-level API for resolving and storing products.
type Client struct {
	cfg      *config.Config
	pipeline *resolve.Pipeline
	store    storage.Store
	fetcher  fetcher.Fetcher
	logger   *slog.Logger
}

// New wires a Client from the default configuration and the given options.
func New(opts ...Option) (*Client, error) {
	s := &settings{
		cfg:    config.DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := config.Validate(s.cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpFetcher, err := fetcher.NewHTTPFetcher(s.cfg, s.logger)
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	store, err := storage.NewStore(&s.cfg.Storage, s.logger)
	if err != nil {
		httpFetcher.Close()
		return nil, fmt.Errorf("create storage: %w", err)
	}

	describer := ai.NewDescriber(ai.NewLLMClient(s.cfg.AI, s.logger), s.logger)
	links := marketplace.NewLinkBuilder(s.cfg.Marketplace.Domain, s.cfg.Marketplace.PartnerTag)
	text := resolve.NewTextResolver(httpFetcher, describer, s.cfg, s.logger)
	image := resolve.NewImageResolver(httpFetcher, s.cfg, s.logger)

	return &Client{
		cfg:      s.cfg,
		pipeline: resolve.NewPipeline(s.cfg, links, text, image, nil, s.logger),
		store:    store,
		fetcher:  httpFetcher,
		logger:   s.logger,
	}, nil
}

// Resolve turns one product URL into a stored, validated record.
func (c *Client) Resolve(ctx context.Context, rawURL string) (*ProductRecord, error) {
	record, err := c.pipeline.Resolve(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if err := c.store.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ResolveAll resolves a batch of URLs concurrently, storing every success.
// Results are paired positionally with the input URLs.
func (c *Client) ResolveAll(ctx context.Context, urls []string) []ResolveResult {
	results := c.pipeline.ResolveAll(ctx, urls, nil)
	for i := range results {
		if results[i].Record == nil {
			continue
		}
		if err := c.store.Upsert(ctx, results[i].Record); err != nil {
			results[i].Err = err
			results[i].Error = err.Error()
			results[i].Record = nil
		}
	}
	return results
}

// Import builds and stores a record from externally scraped fields, running
// the same cleaning and validation as resolution.
func (c *Client) Import(ctx context.Context, asin, title, description, imageURL, sourceURL string) (*ProductRecord, error) {
	record, err := c.pipeline.Ingest(asin, title, description, imageURL, sourceURL)
	if err != nil {
		return nil, err
	}
	if err := c.store.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Product returns the stored record for a slug, or nil when absent.
func (c *Client) Product(ctx context.Context, slug string) (*ProductRecord, error) {
	return c.store.FindBySlug(ctx, slug)
}

// Products returns all stored records.
func (c *Client) Products(ctx context.Context) ([]*ProductRecord, error) {
	return c.store.List(ctx)
}

// Close releases the client's network and storage resources.
func (c *Client) Close() error {
	c.fetcher.Close()
	return c.store.Close()
}
