package resolve

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/config"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/fetcher"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/types"
)

var (
	// sizeToken matches the size variant embedded in CDN image URLs,
	// e.g. "._AC_SX466_.", rewritten to request the large variant.
	sizeToken = regexp.MustCompile(`\._[^.]*_\.`)

	// cdnImageURL matches any marketplace CDN product-image URL in raw HTML.
	cdnImageURL = regexp.MustCompile(`https://[^"]*/images/I/[A-Za-z0-9][^"]*\.jpg`)

	// hiResJSON matches the high-resolution image reference embedded in
	// the page's image-block JSON.
	hiResJSON = regexp.MustCompile(`"hiRes":"([^"]*images/I/[^"]+)"`)

	// thumbnailTokens identify small-size variants that are never worth
	// keeping when a full-size image may exist.
	thumbnailTokens = []string{"._SS", "._SX", "._SY"}
)

// largeVariant is the size token requested for every scraped candidate.
const largeVariant = "._AC_SL1000_."

// browserImageSelectors are the same elements tier 1 looks for, read from
// the rendered DOM instead of static HTML.
var browserImageSelectors = []string{"#landingImage", "#imgBlkFront"}

// ImageResolver obtains a product image URL through an ordered fallback
// chain. The terminal placeholder tier never fails.
type ImageResolver struct {
	fetcher fetcher.Fetcher
	cfg     *config.Config
	logger  *slog.Logger

	// openRenderer acquires the headless rendering capability for one
	// attempt. Swappable in tests. Returns ErrRendererUnavailable when
	// the environment cannot render.
	openRenderer func() (fetcher.Renderer, error)
}

// NewImageResolver creates an image resolver.
func NewImageResolver(f fetcher.Fetcher, cfg *config.Config, logger *slog.Logger) *ImageResolver {
	r := &ImageResolver{
		fetcher: f,
		cfg:     cfg,
		logger:  logger.With("component", "image_resolver"),
	}
	r.openRenderer = func() (fetcher.Renderer, error) {
		return fetcher.OpenRenderer(cfg, logger)
	}
	return r
}

// Resolve runs the fallback chain and always returns a usable image URL.
func (r *ImageResolver) Resolve(ctx context.Context, productURL, asin, title string) types.ResolvedImage {
	// Tier 1: static page scrape.
	if img, ok := r.scrapeImage(ctx, productURL); ok {
		return types.ResolvedImage{URL: img, Strategy: types.ImagePageScrape}
	}

	// Tier 2: headless-browser scrape, skipped entirely when the
	// rendering capability is absent in this environment.
	if img, ok := r.renderImage(ctx, productURL); ok {
		return types.ResolvedImage{URL: img, Strategy: types.ImageBrowserScrape}
	}

	// Tier 3: constructed-URL probing.
	if img, ok := r.probeConstructed(ctx, asin); ok {
		return types.ResolvedImage{URL: img, Strategy: types.ImageURLProbe}
	}

	// Tier 4: placeholder synthesis. Terminal, never fails.
	return types.ResolvedImage{
		URL:      r.placeholderURL(title),
		Strategy: types.ImagePlaceholder,
	}
}

// scrapeImage fetches the page and tries each static extraction strategy
// in fixed order.
func (r *ImageResolver) scrapeImage(ctx context.Context, productURL string) (string, bool) {
	body, err := r.fetcher.FetchPage(ctx, productURL)
	if err != nil {
		r.logger.Debug("image scrape miss", "url", productURL, "error", err)
		return "", false
	}

	doc, docErr := goquery.NewDocumentFromReader(bytes.NewReader(body))

	strategies := []func() string{
		func() string {
			if docErr != nil {
				return ""
			}
			return imageFromElement(doc, "img#landingImage")
		},
		func() string {
			if docErr != nil {
				return ""
			}
			return imageFromElement(doc, "img#imgBlkFront")
		},
		func() string { return imageFromCDNPattern(body) },
		func() string { return imageFromEmbeddedJSON(body) },
	}

	for i, strategy := range strategies {
		candidate := strategy()
		if candidate == "" {
			continue
		}
		cleaned, ok := r.acceptCandidate(candidate)
		if !ok {
			r.logger.Warn("image candidate rejected", "strategy", i+1, "length", len(candidate))
			continue
		}
		r.logger.Debug("image found via page scrape", "strategy", i+1)
		return cleaned, true
	}

	return "", false
}

// imageFromElement reads the src of a known product-image element.
func imageFromElement(doc *goquery.Document, selector string) string {
	src, _ := doc.Find(selector).First().Attr("src")
	return src
}

// imageFromCDNPattern finds a CDN product-image URL in raw HTML, skipping
// thumbnail-size variants.
func imageFromCDNPattern(body []byte) string {
	match := cdnImageURL.Find(body)
	if match == nil {
		return ""
	}
	candidate := string(match)
	for _, token := range thumbnailTokens {
		if strings.Contains(candidate, token) {
			return ""
		}
	}
	return candidate
}

// imageFromEmbeddedJSON reads the hiRes reference from the page's
// image-block JSON.
func imageFromEmbeddedJSON(body []byte) string {
	match := hiResJSON.FindSubmatch(body)
	if len(match) < 2 {
		return ""
	}
	return string(match[1])
}

// acceptCandidate normalizes a scraped candidate and applies the URL
// length guard. Oversized candidates usually mean the pattern matched
// across concatenated markup.
func (r *ImageResolver) acceptCandidate(candidate string) (string, bool) {
	cleaned := strings.ReplaceAll(candidate, "&quot;", "")
	cleaned = strings.ReplaceAll(cleaned, "&amp;", "&")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = sizeToken.ReplaceAllString(cleaned, largeVariant)

	if len(cleaned) > r.cfg.Marketplace.MaxImageURL {
		return "", false
	}
	return cleaned, true
}

// renderImage loads the page in the rendering engine and reads the
// resolved src of the same elements tier 1 uses. The renderer is a scoped
// resource, released on every exit path.
func (r *ImageResolver) renderImage(ctx context.Context, productURL string) (string, bool) {
	renderer, err := r.openRenderer()
	if err != nil {
		r.logger.Debug("rendering tier skipped", "error", err)
		return "", false
	}
	defer renderer.Close()

	src, err := renderer.RenderAttr(ctx, productURL, browserImageSelectors, "src")
	if err != nil {
		r.logger.Debug("browser scrape miss", "url", productURL, "error", err)
		return "", false
	}
	return r.acceptCandidate(src)
}

// probeConstructed builds candidate CDN URLs from the identifier using
// known path conventions and accepts the first that answers a metadata
// probe with an image content type.
func (r *ImageResolver) probeConstructed(ctx context.Context, asin string) (string, bool) {
	for _, candidate := range constructedURLs(asin, r.cfg.Marketplace.ImageHosts) {
		contentType, ok := r.fetcher.Probe(ctx, candidate)
		if ok && strings.HasPrefix(contentType, "image") {
			r.logger.Debug("constructed image URL verified", "url", candidate)
			return candidate, true
		}
	}
	return "", false
}

// constructedURLs lists the CDN path conventions worth probing, in order
// of how often they work.
func constructedURLs(asin string, hosts []string) []string {
	if len(hosts) == 0 {
		hosts = []string{"m.media-amazon.com", "images-na.ssl-images-amazon.com"}
	}
	var urls []string
	for _, host := range hosts {
		urls = append(urls,
			fmt.Sprintf("https://%s/images/I/%s._AC_SL1000_.jpg", host, asin),
			fmt.Sprintf("https://%s/images/P/%s.01._SL500_.jpg", host, asin),
		)
	}
	return urls
}
