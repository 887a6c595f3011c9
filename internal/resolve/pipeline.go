// Package resolve implements the product metadata resolution pipeline:
// identifier extraction, the text and image fallback chains, and record
// assembly. Given any URL recognized as belonging to the marketplace, the
// pipeline always produces a validated record, even under total network
// failure.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/categorize"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/config"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/content"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/marketplace"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/observability"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/types"
)

// Options adjust a single resolution request.
type Options struct {
	// PartnerTag overrides the configured affiliate tag.
	PartnerTag string

	// SkipHostCheck bypasses the marketplace hostname predicate. The
	// identifier patterns still must match.
	SkipHostCheck bool
}

// Pipeline sequences the resolution stages and assembles the final record.
type Pipeline struct {
	cfg     *config.Config
	links   *marketplace.LinkBuilder
	text    *TextResolver
	image   *ImageResolver
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewPipeline wires the pipeline from its collaborators. metrics may be nil.
func NewPipeline(cfg *config.Config, links *marketplace.LinkBuilder, text *TextResolver, image *ImageResolver, metrics *observability.Metrics, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		links:   links,
		text:    text,
		image:   image,
		metrics: metrics,
		logger:  logger.With("component", "pipeline"),
	}
}

// Resolve turns a raw marketplace URL into a validated ProductRecord.
// Only ErrNotMarketplaceURL, ErrIdentifierNotFound, and affiliate-link
// errors surface; every downstream failure degrades to a lower-confidence
// but valid record.
func (p *Pipeline) Resolve(ctx context.Context, rawURL string, opts *Options) (*types.ProductRecord, error) {
	if opts == nil {
		opts = &Options{}
	}
	start := time.Now()

	if !opts.SkipHostCheck && !marketplace.IsMarketplaceURL(rawURL, p.cfg.Marketplace.HostAliases) {
		return nil, p.fail(types.ErrNotMarketplaceURL)
	}

	asin, err := marketplace.ExtractASIN(rawURL)
	if err != nil {
		return nil, p.fail(err)
	}

	affiliateURL, err := p.links.BuildWithTag(asin, opts.PartnerTag)
	if err != nil {
		return nil, p.fail(err)
	}

	cleanURL := marketplace.CleanURL(rawURL)

	// Text and image chains are independent; run them concurrently and
	// combine at record-assembly time.
	var (
		wg   sync.WaitGroup
		text types.ResolvedText
		img  types.ResolvedImage
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		text = p.text.Resolve(ctx, cleanURL, asin)
	}()
	go func() {
		defer wg.Done()
		img = p.image.Resolve(ctx, cleanURL, asin, "")
	}()
	wg.Wait()

	// The image placeholder tier wants a title-derived label; when the
	// chain bottomed out without one, rebuild it from the resolved title.
	if img.Strategy == types.ImagePlaceholder {
		img.URL = p.image.placeholderURL(text.Title)
	}

	record, err := p.assemble(asin, rawURL, affiliateURL, text, img)
	if err != nil {
		return nil, p.fail(err)
	}

	if p.metrics != nil {
		p.metrics.RecordResolution(text.Strategy, img.Strategy, time.Since(start))
	}
	p.logger.Info("product resolved",
		"asin", asin,
		"text_source", record.TextSource,
		"image_source", record.ImageSource,
		"category", record.Category,
		"duration", time.Since(start),
	)
	return record, nil
}

func (p *Pipeline) fail(err error) error {
	if p.metrics != nil {
		p.metrics.ResolutionsFailed.Add(1)
	}
	return err
}

// assemble categorizes, cleans, validates, and on violation swaps in
// the deterministic fallback values and re-validates exactly once.
func (p *Pipeline) assemble(asin, sourceURL, affiliateURL string, text types.ResolvedText, img types.ResolvedImage) (*types.ProductRecord, error) {
	profile := content.ProfileFromString(p.cfg.Content.Profile)

	title := text.Title
	description := text.Description
	slug := content.Slug(title)

	fields := content.Fields{Title: title, Description: description, Slug: slug}
	if violations := content.Validate(fields, profile); len(violations) > 0 {
		p.logger.Warn("resolved content failed validation, substituting fallbacks",
			"asin", asin, "violations", violations)

		title = content.CleanTitle(title, p.cfg.Content.MaxTitleLength)
		if len(title) < content.MinTitleLength || len(title) > content.MaxTitleLength {
			title = content.FallbackTitleFor(asin)
		}
		description = content.TemplateDescription(title, asin)
		slug = content.Slug(title)

		fields = content.Fields{Title: title, Description: description, Slug: slug}
		if violations := content.Validate(fields, profile); len(violations) > 0 {
			return nil, &types.ResolveError{
				Stage: "validate",
				ASIN:  asin,
				Err:   fmt.Errorf("%w: %w", types.ErrStrategiesExhausted, &types.ValidationError{Violations: violations}),
			}
		}
		text.Strategy = types.TextTemplate
	}

	return &types.ProductRecord{
		ASIN:         asin,
		Title:        title,
		Description:  description,
		ImageURL:     img.URL,
		Category:     categorize.Categorize(title, description),
		Slug:         slug,
		AffiliateURL: affiliateURL,
		SourceURL:    sourceURL,
		TextSource:   text.Strategy.String(),
		ImageSource:  img.Strategy.String(),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Ingest builds a record from externally scraped fields instead of running
// the fetch tiers. The same cleaning, categorization, and validation rules
// apply, so imported records carry the same guarantees as resolved ones.
func (p *Pipeline) Ingest(asin, title, description, imageURL, sourceURL string) (*types.ProductRecord, error) {
	asin = strings.ToUpper(strings.TrimSpace(asin))
	if !marketplace.ValidASIN(asin) {
		return nil, types.ErrInvalidIdentifier
	}

	affiliateURL, err := p.links.Build(asin)
	if err != nil {
		return nil, err
	}

	text := types.ResolvedText{
		Title:       content.CleanTitle(title, p.cfg.Content.MaxTitleLength),
		Description: content.CleanDescription(description),
		Strategy:    types.TextPageScrape,
	}
	img := types.ResolvedImage{URL: imageURL, Strategy: types.ImagePageScrape}
	if imageURL == "" || len(imageURL) > p.cfg.Marketplace.MaxImageURL {
		img = types.ResolvedImage{
			URL:      p.image.placeholderURL(text.Title),
			Strategy: types.ImagePlaceholder,
		}
	}
	if sourceURL == "" {
		sourceURL = affiliateURL
	}

	return p.assemble(asin, sourceURL, affiliateURL, text, img)
}

// Recategorize recomputes a stored record's category from its current
// title and description.
func (p *Pipeline) Recategorize(record *types.ProductRecord) string {
	return categorize.Categorize(record.Title, record.Description)
}

// ResolveAll fans out one independent pipeline run per URL. Results are
// positionally paired with the input order, not completion order.
func (p *Pipeline) ResolveAll(ctx context.Context, urls []string, opts *Options) []types.ResolveResult {
	results := make([]types.ResolveResult, len(urls))

	var wg sync.WaitGroup
	for i, rawURL := range urls {
		wg.Add(1)
		go func(i int, rawURL string) {
			defer wg.Done()
			record, err := p.Resolve(ctx, rawURL, opts)
			results[i] = types.ResolveResult{SourceURL: rawURL, Record: record, Err: err}
			if err != nil {
				results[i].Error = err.Error()
			}
		}(i, rawURL)
	}
	wg.Wait()

	return results
}
