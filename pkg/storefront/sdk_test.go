package storefront

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(
		WithPartnerTag("trueessentials-20"),
		WithJSONStore(filepath.Join(t.TempDir(), "products.json")),
		WithBrowser(false),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestClientImportAndLookup(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	record, err := client.Import(ctx,
		"B08XYZ1234",
		"Cordless Drill Kit with Brushless Motor",
		"Includes two batteries, a fast charger, and a hard carrying case for jobsite work.",
		"", "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if record.Slug != "cordless-drill-kit-with-brushless-motor" {
		t.Errorf("slug = %q", record.Slug)
	}
	if !strings.Contains(record.AffiliateURL, "tag=trueessentials-20") {
		t.Errorf("affiliate URL = %q", record.AffiliateURL)
	}
	if record.Category != "Tools & Home Improvement" {
		t.Errorf("category = %q", record.Category)
	}

	got, err := client.Product(ctx, record.Slug)
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	if got == nil || got.ASIN != "B08XYZ1234" {
		t.Fatalf("lookup returned %+v", got)
	}

	all, err := client.Products(ctx)
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("products = %d, want 1", len(all))
	}
}

func TestClientImportRejectsBadIdentifier(t *testing.T) {
	client := newTestClient(t)

	if _, err := client.Import(context.Background(), "short", "Thing", "", "", ""); err == nil {
		t.Fatal("expected error for invalid identifier")
	}
}
