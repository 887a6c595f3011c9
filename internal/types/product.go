package types

import (
	"encoding/json"
	"time"
)

// TextStrategy identifies which tier of the text fallback chain produced
// a title/description. Lower values mean higher confidence.
type TextStrategy int

const (
	TextPageScrape TextStrategy = iota
	TextURLInference
	TextAIGenerated
	TextTemplate
)

func (s TextStrategy) String() string {
	switch s {
	case TextPageScrape:
		return "page_scrape"
	case TextURLInference:
		return "url_inference"
	case TextAIGenerated:
		return "ai_generated"
	case TextTemplate:
		return "template"
	default:
		return "unknown"
	}
}

// ImageStrategy identifies which tier of the image fallback chain produced
// an image URL.
type ImageStrategy int

const (
	ImagePageScrape ImageStrategy = iota
	ImageBrowserScrape
	ImageURLProbe
	ImagePlaceholder
)

func (s ImageStrategy) String() string {
	switch s {
	case ImagePageScrape:
		return "page_scrape"
	case ImageBrowserScrape:
		return "browser_scrape"
	case ImageURLProbe:
		return "url_probe"
	case ImagePlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// ResolvedText is the outcome of the text resolution chain.
type ResolvedText struct {
	Title       string
	Description string
	Features    []string
	Strategy    TextStrategy
}

// ResolvedImage is the outcome of the image resolution chain.
type ResolvedImage struct {
	URL      string
	Strategy ImageStrategy
}

// ProductRecord is the fully resolved, validated record that crosses the
// boundary into the record store. Every field is non-empty once the
// pipeline returns it.
type ProductRecord struct {
	ASIN         string    `bson:"asin"          json:"asin"`
	Title        string    `bson:"title"         json:"title"`
	Description  string    `bson:"description"   json:"description"`
	ImageURL     string    `bson:"image_url"     json:"image_url"`
	Category     string    `bson:"category"      json:"category"`
	Slug         string    `bson:"slug"          json:"slug"`
	AffiliateURL string    `bson:"affiliate_url" json:"affiliate_url"`
	SourceURL    string    `bson:"source_url"    json:"source_url"`
	TextSource   string    `bson:"text_source"   json:"text_source"`
	ImageSource  string    `bson:"image_source"  json:"image_source"`
	CreatedAt    time.Time `bson:"created_at"    json:"created_at"`
}

// ToJSON serializes the record to JSON bytes.
func (r *ProductRecord) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// RecordUpdate holds the fields of a stored record that may be amended
// after creation. Nil pointers mean "leave unchanged".
type RecordUpdate struct {
	Title       *string
	Description *string
	ImageURL    *string
	Category    *string
	Slug        *string
}

// ResolveResult pairs a bulk-resolution input URL with its outcome,
// preserving input order.
type ResolveResult struct {
	SourceURL string         `json:"source_url"`
	Record    *ProductRecord `json:"record,omitempty"`
	Err       error          `json:"-"`
	Error     string         `json:"error,omitempty"`
}
