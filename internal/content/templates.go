package content

import (
	"fmt"
	"strings"
)

// FallbackTitle is assigned when no strategy ever produced a title.
const FallbackTitle = "Quality Product"

// FallbackTitleFor keys the terminal fallback title off the first
// character of the identifier, so numeric-prefixed ranges get a
// different (still deterministic) title than the common B-prefixed ones.
func FallbackTitleFor(asin string) string {
	if asin != "" && asin[0] >= '0' && asin[0] <= '9' {
		return "Popular Item"
	}
	return FallbackTitle
}

// descriptionTemplates are the canned tier-4 descriptions. Selection is
// keyed by the identifier so the same product always gets the same text.
var descriptionTemplates = []string{
	"Discover this %s that customers are loving on Amazon. With great reviews and competitive pricing, it's become a popular choice for those seeking quality and value. See why it's trending and check current deals on Amazon!",
	"Looking for a reliable %s? This Amazon bestseller delivers on both quality and value. Join thousands of satisfied customers who've made this their go-to choice. View details and current pricing on Amazon now!",
	"This %s is getting attention on Amazon for all the right reasons. Customers love its quality, value, and performance. Don't miss out on what could be your next favorite purchase. Check it out on Amazon today!",
}

// TemplateDescription produces the deterministic fallback description for
// a product. The template index is derived from the last character of the
// identifier interpreted as a base-36 digit, so identical products always
// receive identical text.
func TemplateDescription(title, asin string) string {
	clean := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(title), "..."))
	if clean == "" {
		clean = FallbackTitle
	}

	idx := 0
	if asin != "" {
		if v, ok := base36(asin[len(asin)-1]); ok {
			idx = v % len(descriptionTemplates)
		}
	}
	return fmt.Sprintf(descriptionTemplates[idx], strings.ToLower(clean))
}

// base36 converts a single character to its base-36 digit value.
func base36(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}
