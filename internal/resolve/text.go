package resolve

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/ai"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/config"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/content"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/fetcher"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/types"
)

// maxFeatures caps how many feature bullets are kept from a product page.
const maxFeatures = 5

// featureBoilerplate marks bullets that are marketplace noise, not
// product information.
var featureBoilerplate = []string{
	"make sure",
	"asin",
	"customer reviews",
	"best sellers rank",
	"imported",
}

// TextResolver obtains a product title and description through an ordered
// chain of strategies, cheapest first. Tiers run strictly sequentially; a
// later tier is only paid for when the earlier ones yield nothing usable.
type TextResolver struct {
	fetcher   fetcher.Fetcher
	describer *ai.Describer
	cfg       *config.Config
	logger    *slog.Logger
}

// NewTextResolver creates a text resolver. describer may be nil.
func NewTextResolver(f fetcher.Fetcher, d *ai.Describer, cfg *config.Config, logger *slog.Logger) *TextResolver {
	return &TextResolver{
		fetcher:   f,
		describer: d,
		cfg:       cfg,
		logger:    logger.With("component", "text_resolver"),
	}
}

// Resolve runs the fallback chain and always returns a usable result.
// Network failures in early tiers degrade confidence, never error.
func (r *TextResolver) Resolve(ctx context.Context, productURL, asin string) types.ResolvedText {
	maxTitle := r.cfg.Content.MaxTitleLength

	var title, description string
	var features []string
	titleTier := types.TextTemplate
	descTier := types.TextTemplate

	// Tier 1: page scrape.
	if info, ok := r.scrapePage(ctx, productURL); ok {
		if info.title != "" {
			title = info.title
			titleTier = types.TextPageScrape
		}
		features = info.features
		if info.description != "" {
			description = info.description
			descTier = types.TextPageScrape
		} else if len(features) > 0 {
			description = strings.Join(features, ". ")
			descTier = types.TextPageScrape
		}
	}

	// Tier 2: URL-path inference.
	if title == "" {
		if inferred := inferTitleFromURL(productURL); inferred != "" {
			title = inferred
			titleTier = types.TextURLInference
		}
	}

	cleanTitle := content.CleanTitle(title, maxTitle)
	if title == "" {
		cleanTitle = content.FallbackTitleFor(asin)
	}

	// Tier 3: AI-generated description, conditioned on whatever title and
	// features were obtained.
	if description == "" && r.describer.Available() {
		if generated, ok := r.describer.Describe(ctx, cleanTitle, features); ok {
			description = generated
			descTier = types.TextAIGenerated
		}
	}

	// Tier 4: deterministic template. Never fails.
	if description == "" {
		description = content.TemplateDescription(cleanTitle, asin)
		descTier = types.TextTemplate
	}

	strategy := titleTier
	if descTier > strategy {
		strategy = descTier
	}

	resolved := types.ResolvedText{
		Title:       cleanTitle,
		Description: content.CleanDescription(description),
		Features:    features,
		Strategy:    strategy,
	}

	r.logger.Debug("text resolved",
		"asin", asin,
		"strategy", resolved.Strategy.String(),
		"title_len", len(resolved.Title),
		"desc_len", len(resolved.Description),
	)
	return resolved
}

type pageInfo struct {
	title       string
	features    []string
	description string
}

// scrapePage fetches the product page and extracts title, feature bullets,
// and description. A fetch failure or timeout is a miss, not an error.
func (r *TextResolver) scrapePage(ctx context.Context, productURL string) (pageInfo, bool) {
	body, err := r.fetcher.FetchPage(ctx, productURL)
	if err != nil {
		r.logger.Debug("page scrape miss", "url", productURL, "error", err)
		return pageInfo{}, false
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageInfo{}, false
	}

	info := pageInfo{
		title:       extractTitle(doc),
		features:    extractFeatures(doc, body),
		description: extractDescription(doc),
	}

	if info.title == "" && len(info.features) == 0 && info.description == "" {
		return pageInfo{}, false
	}
	return info, true
}

// extractTitle tries the primary heading element first, then the
// secondary heading class pattern.
func extractTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("span#productTitle").First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("h1.a-size-large").First().Text()); t != "" {
		return t
	}
	return ""
}

// extractFeatures pulls up to maxFeatures short bullets from the
// feature-bullets block, filtering boilerplate and near-duplicates. When
// the block is absent it falls back to the product-facts section, located
// by XPath.
func extractFeatures(doc *goquery.Document, body []byte) []string {
	var features []string

	doc.Find("div#feature-bullets span.a-list-item").Each(func(_ int, sel *goquery.Selection) {
		appendFeature(&features, sel.Text())
	})

	if len(features) == 0 {
		// Some page layouts carry a product-facts table instead.
		if root, err := htmlquery.Parse(bytes.NewReader(body)); err == nil {
			for _, node := range factNodes(root) {
				appendFeature(&features, htmlquery.InnerText(node))
			}
		}
	}

	return features
}

// factNodes locates the span nodes of the product-facts section.
func factNodes(root *html.Node) []*html.Node {
	nodes, err := htmlquery.QueryAll(root, `//div[contains(@class,"product-facts")]//span`)
	if err != nil {
		return nil
	}
	return nodes
}

// appendFeature applies the bullet filters: bounded length, no
// boilerplate phrases, no duplicates, capped count.
func appendFeature(features *[]string, raw string) {
	if len(*features) >= maxFeatures {
		return
	}
	bullet := strings.TrimSpace(raw)
	if len(bullet) <= 10 || len(bullet) >= 200 {
		return
	}
	lower := strings.ToLower(bullet)
	for _, phrase := range featureBoilerplate {
		if strings.Contains(lower, phrase) {
			return
		}
	}
	for _, existing := range *features {
		if existing == bullet {
			return
		}
	}
	*features = append(*features, bullet)
}

// extractDescription reads the product description block if present.
func extractDescription(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("div#productDescription").First().Text())
}

// inferTitleFromURL derives a human-readable title from the product-name
// path segment adjacent to the identifier segment.
func inferTitleFromURL(productURL string) string {
	u, err := url.Parse(productURL)
	if err != nil {
		return ""
	}

	parts := strings.Split(u.Path, "/")
	for i, part := range parts {
		if part != "dp" || i == 0 {
			continue
		}
		segment := parts[i-1]
		if len(segment) <= 5 {
			continue
		}
		decoded, err := url.PathUnescape(segment)
		if err != nil {
			decoded = segment
		}
		title := titleCase(strings.ReplaceAll(decoded, "-", " "))
		if len(title) > 10 {
			return title
		}
	}
	return ""
}

// titleCase uppercases the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
