package content

import (
	"strings"
	"testing"
)

func TestStripIdentifiers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare asin", "Great Headphones B08N5WRWNW for travel", "Great Headphones for travel"},
		{"dashed asin", "Great Headphones - B08N5WRWNW", "Great Headphones"},
		{"piped asin", "Great Headphones | B08N5WRWNW", "Great Headphones"},
		{"product prefix", "Product B08N5WRWNW", "Product"},
		{"no codes", "Just a normal title", "Just a normal title"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripIdentifiers(tt.in); got != tt.want {
				t.Errorf("StripIdentifiers(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"amazon suffix", "Wireless Mouse | Amazon.com: Electronics", "Wireless Mouse"},
		{"amazon prefix", "Amazon.com: Wireless Mouse", "Wireless Mouse"},
		{"asin leak", "Wireless Mouse B08N5WRWNW", "Wireless Mouse"},
		{"collapses to generic", "B08N5WRWNW", GenericTitle},
		{"empty", "   ", GenericTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanTitle(tt.in, 100); got != tt.want {
				t.Errorf("CleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateAtWord(t *testing.T) {
	long := "Amazing Wireless Bluetooth Headphones with Active Noise Cancellation and Long Battery Life"
	got := TruncateAtWord(long, 50)

	if len(got) > 50 {
		t.Errorf("truncated length %d exceeds budget 50: %q", len(got), got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	// Must not cut mid-word: the part before the ellipsis should be a
	// prefix of the input ending at a word boundary.
	body := strings.TrimSuffix(got, "...")
	if !strings.HasPrefix(long, body) || (len(body) < len(long) && long[len(body)] != ' ') {
		t.Errorf("truncation cut mid-word: %q", got)
	}

	if got := TruncateAtWord("short", 50); got != "short" {
		t.Errorf("short input should pass through, got %q", got)
	}
}

func TestTruncateAtWordMidWord(t *testing.T) {
	// No space in the final stretch of the budget, so the cut lands
	// mid-word at the reserved position rather than at an early space.
	long := "A " + strings.Repeat("x", 60)
	got := TruncateAtWord(long, 50)

	if len(got) != 50 {
		t.Errorf("length = %d, want full budget 50: %q", len(got), got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	if want := "A " + strings.Repeat("x", 45) + "..."; got != want {
		t.Errorf("TruncateAtWord = %q, want %q", got, want)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Amazing Wireless Bluetooth Headphones", "amazing-wireless-bluetooth-headphones"},
		{"  Hello,   World!  ", "hello-world"},
		{"UPPER case & symbols %%", "upper-case-symbols"},
		{"---already-slugged---", "already-slugged"},
	}

	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugIdempotent(t *testing.T) {
	inputs := []string{
		"Amazing Wireless Bluetooth Headphones",
		"A very long product title that will be cut off at fifty characters or thereabouts",
		"weird***input---with///junk",
	}
	for _, in := range inputs {
		once := Slug(in)
		twice := Slug(once)
		if once != twice {
			t.Errorf("Slug not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSlugCap(t *testing.T) {
	long := strings.Repeat("word ", 30)
	got := Slug(long)
	if len(got) > 50 {
		t.Errorf("slug length %d exceeds 50: %q", len(got), got)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("slug exposes truncation hyphen: %q", got)
	}
}

func TestTemplateDescriptionDeterministic(t *testing.T) {
	a := TemplateDescription("Quality Product", "B08N5WRWNW")
	b := TemplateDescription("Quality Product", "B08N5WRWNW")
	if a != b {
		t.Error("template selection must be deterministic for the same identifier")
	}

	// 'W' is 32 in base 36; 32 % 3 == 2 selects the third template.
	if !strings.HasPrefix(a, "This quality product is getting attention") {
		t.Errorf("unexpected template for trailing 'W': %q", a)
	}

	if !strings.Contains(a, "quality product") {
		t.Errorf("description should embed the lowercased title: %q", a)
	}
}

func TestTemplateDescriptionStripsEllipsis(t *testing.T) {
	d := TemplateDescription("Wireless Mouse...", "B000000000")
	if strings.Contains(d, "wireless mouse...") {
		t.Errorf("truncation ellipsis leaked into description: %q", d)
	}
	if !strings.Contains(d, "wireless mouse") {
		t.Errorf("description should embed the cleaned title: %q", d)
	}
}

func TestFallbackTitleFor(t *testing.T) {
	tests := []struct {
		asin string
		want string
	}{
		{"B08N5WRWNW", "Quality Product"},
		{"0312538615", "Popular Item"},
		{"9780134190", "Popular Item"},
		{"XB08N5WRWN", "Quality Product"},
		{"", "Quality Product"},
	}
	for _, tt := range tests {
		if got := FallbackTitleFor(tt.asin); got != tt.want {
			t.Errorf("FallbackTitleFor(%q) = %q, want %q", tt.asin, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	ok := Fields{
		Title:       "Wireless Mouse",
		Description: "A perfectly fine product description.",
		Slug:        "wireless-mouse",
	}
	if v := Validate(ok, Standard); len(v) != 0 {
		t.Errorf("expected no violations, got %v", v)
	}

	bad := Fields{Title: "ab", Description: "short", Slug: "X!"}
	v := Validate(bad, Standard)
	if len(v) != 3 {
		t.Errorf("expected 3 violations, got %d: %v", len(v), v)
	}
}

func TestValidateStrictProfile(t *testing.T) {
	f := Fields{
		Title:       "Wireless Mouse",
		Description: "twelve chars.",
		Slug:        "wireless-mouse",
	}
	if v := Validate(f, Standard); len(v) != 0 {
		t.Errorf("standard profile should accept: %v", v)
	}
	if v := Validate(f, Strict); len(v) != 1 {
		t.Errorf("strict profile should reject short description: %v", v)
	}
}
