package resolve

import (
	"net/url"
	"strings"
)

// placeholderLabel pairs a short display label with the title keywords
// that select it. This is a much coarser classification than the full
// categorizer: the label only has to fit inside a placeholder image.
type placeholderLabel struct {
	label    string
	keywords []string
}

var placeholderLabels = []placeholderLabel{
	{"Electronics", []string{"electronic", "resistor", "transistor"}},
	{"Kitchen Tools", []string{"kitchen", "gadget", "tool"}},
	{"Sports Outdoors", []string{"climbing", "outdoor", "sport"}},
	{"Security", []string{"security", "alarm", "sensor"}},
	{"Automotive", []string{"automotive", "car", "switch"}},
}

const defaultPlaceholderLabel = "Product"

// labelForTitle picks the placeholder label for a product title.
func labelForTitle(title string) string {
	lower := strings.ToLower(title)
	for _, entry := range placeholderLabels {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.label
			}
		}
	}
	return defaultPlaceholderLabel
}

// placeholderURL synthesizes a deterministic placeholder image URL
// carrying a category label derived from the title.
func (r *ImageResolver) placeholderURL(title string) string {
	base := r.cfg.Marketplace.PlaceholderBase
	if base == "" {
		base = "https://via.placeholder.com/400x400/f8fafc/475569"
	}
	return base + "?text=" + url.QueryEscape(labelForTitle(title))
}
