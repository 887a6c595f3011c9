// Package marketplace parses Amazon product URLs, extracts ASINs, and
// builds affiliate links. Everything here is a pure function of its input.
package marketplace

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/types"
)

// asinPattern is the canonical shape of a product identifier: exactly
// 10 uppercase alphanumeric characters.
var asinPattern = regexp.MustCompile(`^[A-Z0-9]{10}$`)

// urlPatterns are tried in fixed priority order; the first capture that
// validates against asinPattern wins. Patterns are never combined.
var urlPatterns = []*regexp.Regexp{
	// Standard product URLs: /dp/ASIN or /gp/product/ASIN
	regexp.MustCompile(`(?i)/dp/([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)/gp/product/([A-Z0-9]{10})`),

	// Product URLs with product name: /product-name/dp/ASIN
	regexp.MustCompile(`(?i)/[^/]+/dp/([A-Z0-9]{10})`),

	// Short URLs: /o/ASIN
	regexp.MustCompile(`(?i)/o/([A-Z0-9]{10})`),

	// Query parameter format: ?asin=ASIN
	regexp.MustCompile(`(?i)[?&]asin=([A-Z0-9]{10})`),

	// Legacy format: /exec/obidos/ASIN/ASIN
	regexp.MustCompile(`(?i)/exec/obidos/ASIN/([A-Z0-9]{10})`),
}

// trackingParams are removed when deriving a clean product URL.
var trackingParams = []string{
	"ref", "ref_", "tag", "linkCode", "camp", "creative", "creativeASIN", "linkId",
}

// defaultHostAliases matches the marketplace primary domain, short-link
// domains, and regional storefronts.
var defaultHostAliases = []string{"amazon.com", "amazon.", "amzn.to", "a.co"}

// ExtractASIN pulls a normalized 10-character product identifier out of a
// raw URL. Returns ErrIdentifierNotFound when no pattern matches.
func ExtractASIN(rawURL string) (string, error) {
	if rawURL == "" {
		return "", types.ErrIdentifierNotFound
	}

	for _, pattern := range urlPatterns {
		match := pattern.FindStringSubmatch(rawURL)
		if len(match) < 2 {
			continue
		}
		asin := strings.ToUpper(match[1])
		if asinPattern.MatchString(asin) {
			return asin, nil
		}
	}

	return "", types.ErrIdentifierNotFound
}

// ValidASIN reports whether s matches the canonical identifier shape.
func ValidASIN(s string) bool {
	return asinPattern.MatchString(s)
}

// IsMarketplaceURL reports whether a URL belongs to the target marketplace,
// by hostname substring match against the configured aliases.
func IsMarketplaceURL(rawURL string, hostAliases []string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	hostname := strings.ToLower(u.Hostname())

	aliases := hostAliases
	if len(aliases) == 0 {
		aliases = defaultHostAliases
	}
	for _, alias := range aliases {
		if strings.Contains(hostname, alias) {
			return true
		}
	}
	return false
}

// CleanURL strips common affiliate and tracking query parameters from a
// product URL. The input is returned unchanged if it cannot be parsed.
func CleanURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	for _, param := range trackingParams {
		q.Del(param)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// URLInfo is the result of a combined parse of a raw product URL.
type URLInfo struct {
	ASIN          string
	IsMarketplace bool
	CleanURL      string
}

// ParseURL classifies a raw URL and extracts whatever identifier it carries.
// Extraction is only attempted when the hostname predicate holds.
func ParseURL(rawURL string, hostAliases []string) URLInfo {
	info := URLInfo{
		IsMarketplace: IsMarketplaceURL(rawURL, hostAliases),
		CleanURL:      CleanURL(rawURL),
	}
	if info.IsMarketplace {
		if asin, err := ExtractASIN(rawURL); err == nil {
			info.ASIN = asin
		}
	}
	return info
}
