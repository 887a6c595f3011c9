package marketplace

import (
	"fmt"
	"strings"

	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/types"
)

// LinkBuilder derives canonical outbound affiliate URLs from identifiers.
// The zero value is unusable; construct with NewLinkBuilder.
type LinkBuilder struct {
	domain     string
	partnerTag string
}

// NewLinkBuilder creates a builder for the given marketplace domain and
// configured partner tag. The tag may be empty if callers always supply
// a per-call override.
func NewLinkBuilder(domain, partnerTag string) *LinkBuilder {
	if domain == "" {
		domain = "www.amazon.com"
	}
	return &LinkBuilder{domain: domain, partnerTag: partnerTag}
}

// Build returns the canonical affiliate URL for an identifier, using the
// configured partner tag.
func (b *LinkBuilder) Build(asin string) (string, error) {
	return b.BuildWithTag(asin, "")
}

// BuildWithTag returns the affiliate URL using tagOverride when non-empty,
// falling back to the configured partner tag.
func (b *LinkBuilder) BuildWithTag(asin, tagOverride string) (string, error) {
	if !ValidASIN(asin) {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidIdentifier, asin)
	}

	tag := tagOverride
	if tag == "" {
		tag = b.partnerTag
	}
	if tag == "" {
		return "", types.ErrMissingPartnerTag
	}

	return fmt.Sprintf("https://%s/dp/%s/?tag=%s", b.domain, asin, tag), nil
}

// BulkResult is the outcome of processing one URL in a batch.
type BulkResult struct {
	OriginalURL  string `json:"original_url"`
	ASIN         string `json:"asin,omitempty"`
	AffiliateURL string `json:"affiliate_url,omitempty"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}

// ProcessURLs converts a batch of raw URLs into affiliate links. Results
// are positionally paired with the input; a bad URL never aborts the batch.
func (b *LinkBuilder) ProcessURLs(urls []string, hostAliases []string) []BulkResult {
	results := make([]BulkResult, 0, len(urls))

	for _, rawURL := range urls {
		trimmed := strings.TrimSpace(rawURL)
		result := BulkResult{OriginalURL: rawURL}

		switch {
		case trimmed == "":
			result.Error = "empty URL"
		case !IsMarketplaceURL(trimmed, hostAliases):
			result.Error = types.ErrNotMarketplaceURL.Error()
		default:
			asin, err := ExtractASIN(trimmed)
			if err != nil {
				result.Error = err.Error()
				break
			}
			link, err := b.Build(asin)
			if err != nil {
				result.Error = err.Error()
				break
			}
			result.ASIN = asin
			result.AffiliateURL = link
			result.Success = true
		}

		results = append(results, result)
	}

	return results
}
