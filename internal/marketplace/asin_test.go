package marketplace

import (
	"errors"
	"strings"
	"testing"

	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/types"
)

func TestExtractASIN(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"standard dp", "https://www.amazon.com/dp/B08N5WRWNW", "B08N5WRWNW"},
		{"dp with trailing path", "https://www.amazon.com/dp/B08N5WRWNW/ref=sr_1_1", "B08N5WRWNW"},
		{"gp product", "https://www.amazon.com/gp/product/B07FZ8S74R", "B07FZ8S74R"},
		{"name before dp", "https://www.amazon.com/Echo-Dot-4th-Gen/dp/B084J4KNDS", "B084J4KNDS"},
		{"short o form", "https://www.amazon.com/o/B000123456", "B000123456"},
		{"query param", "https://www.amazon.com/some/page?asin=B01M8L5Z3Y", "B01M8L5Z3Y"},
		{"legacy obidos", "https://www.amazon.com/exec/obidos/ASIN/B0C1JKH2F3", "B0C1JKH2F3"},
		{"lowercase in url", "https://www.amazon.com/dp/b08n5wrwnw", "B08N5WRWNW"},
		// Longer alphanumeric runs yield their first 10 characters.
		{"overlong run", "https://www.amazon.com/dp/B08N5WRWNWTOOLONG00", "B08N5WRWNW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractASIN(tt.url)
			if err != nil {
				t.Fatalf("ExtractASIN(%q) error: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("ExtractASIN(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractASINNotFound(t *testing.T) {
	urls := []string{
		"",
		"https://www.amazon.com/",
		"https://www.amazon.com/dp/SHORT",
		"https://www.amazon.com/gp/help/customer",
	}

	for _, u := range urls {
		if _, err := ExtractASIN(u); !errors.Is(err, types.ErrIdentifierNotFound) {
			t.Errorf("ExtractASIN(%q) = %v, want ErrIdentifierNotFound", u, err)
		}
	}
}

func TestIsMarketplaceURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.amazon.com/dp/B08N5WRWNW", true},
		{"https://amazon.co.uk/dp/B08N5WRWNW", true},
		{"https://amzn.to/3xYz", true},
		{"https://a.co/d/abc", true},
		{"https://not-the-marketplace.com/dp/B08N5WRWNW", false},
		{"https://example.com/", false},
		{"not a url", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsMarketplaceURL(tt.url, nil); got != tt.want {
			t.Errorf("IsMarketplaceURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestCleanURL(t *testing.T) {
	in := "https://www.amazon.com/dp/B08N5WRWNW?tag=someone-20&ref=xyz&keep=1"
	got := CleanURL(in)

	if strings.Contains(got, "tag=") || strings.Contains(got, "ref=") {
		t.Errorf("CleanURL left tracking params behind: %q", got)
	}
	if !strings.Contains(got, "keep=1") {
		t.Errorf("CleanURL dropped non-tracking param: %q", got)
	}
}

func TestLinkBuilder(t *testing.T) {
	b := NewLinkBuilder("www.amazon.com", "trueessentials-20")

	link, err := b.Build("B08N5WRWNW")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	want := "https://www.amazon.com/dp/B08N5WRWNW/?tag=trueessentials-20"
	if link != want {
		t.Errorf("Build = %q, want %q", link, want)
	}
}

func TestLinkBuilderOverrideTag(t *testing.T) {
	b := NewLinkBuilder("www.amazon.com", "default-20")

	link, err := b.BuildWithTag("B08N5WRWNW", "override-21")
	if err != nil {
		t.Fatalf("BuildWithTag error: %v", err)
	}
	if !strings.HasSuffix(link, "?tag=override-21") {
		t.Errorf("override tag not applied: %q", link)
	}
}

func TestLinkBuilderErrors(t *testing.T) {
	b := NewLinkBuilder("www.amazon.com", "")

	if _, err := b.Build("B08N5WRWNW"); !errors.Is(err, types.ErrMissingPartnerTag) {
		t.Errorf("expected ErrMissingPartnerTag, got %v", err)
	}

	b = NewLinkBuilder("www.amazon.com", "tag-20")
	if _, err := b.Build("short"); !errors.Is(err, types.ErrInvalidIdentifier) {
		t.Errorf("expected ErrInvalidIdentifier, got %v", err)
	}
}

func TestProcessURLs(t *testing.T) {
	b := NewLinkBuilder("www.amazon.com", "tag-20")

	urls := []string{
		"https://www.amazon.com/dp/B08N5WRWNW",
		"https://not-the-marketplace.com/dp/B08N5WRWNW",
		"  ",
		"https://www.amazon.com/gp/help/customer",
	}

	results := b.ProcessURLs(urls, nil)
	if len(results) != len(urls) {
		t.Fatalf("expected %d results, got %d", len(urls), len(results))
	}

	if !results[0].Success || results[0].ASIN != "B08N5WRWNW" {
		t.Errorf("first URL should succeed: %+v", results[0])
	}
	for i := 1; i < len(results); i++ {
		if results[i].Success {
			t.Errorf("result %d should fail: %+v", i, results[i])
		}
	}
}
