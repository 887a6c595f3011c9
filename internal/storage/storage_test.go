package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/config"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func testRecord(asin, slug string) *types.ProductRecord {
	return &types.ProductRecord{
		ASIN:         asin,
		Title:        "Amazing Wireless Bluetooth Headphones",
		Description:  "Premium audio with active noise cancelling and long battery life.",
		ImageURL:     "https://m.media-amazon.com/images/I/71abc._AC_SL1000_.jpg",
		Category:     "Electronics",
		Slug:         slug,
		AffiliateURL: "https://www.amazon.com/dp/" + asin + "/?tag=trueessentials-20",
		SourceURL:    "https://www.amazon.com/dp/" + asin,
		TextSource:   "page_scrape",
		ImageSource:  "page_scrape",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestJSONStoreUpsertAndFind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	store, err := NewJSONStore(path, testLogger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()

	rec := testRecord("B08XYZ1234", "amazing-wireless-bluetooth-headphones")
	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.FindByASIN(ctx, "B08XYZ1234")
	if err != nil {
		t.Fatalf("find by asin: %v", err)
	}
	if got == nil || got.Slug != rec.Slug {
		t.Fatalf("got %+v", got)
	}

	got, err = store.FindBySlug(ctx, rec.Slug)
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if got == nil || got.ASIN != rec.ASIN {
		t.Fatalf("got %+v", got)
	}

	if missing, _ := store.FindByASIN(ctx, "B000000000"); missing != nil {
		t.Errorf("expected nil for unknown asin, got %+v", missing)
	}
}

func TestJSONStoreUpsertReplacesByASIN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	store, err := NewJSONStore(path, testLogger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()

	if err := store.Upsert(ctx, testRecord("B08XYZ1234", "first-slug")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Upsert(ctx, testRecord("B08XYZ1234", "second-slug")); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}

	got, _ := store.FindByASIN(ctx, "B08XYZ1234")
	if got.Slug != "second-slug" {
		t.Errorf("slug = %q, want replaced value", got.Slug)
	}
}

func TestJSONStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	ctx := context.Background()

	store, err := NewJSONStore(path, testLogger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Upsert(ctx, testRecord("B08XYZ1234", "persisted-slug")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewJSONStore(path, testLogger)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	got, err := reopened.FindByASIN(ctx, "B08XYZ1234")
	if err != nil {
		t.Fatalf("find after reopen: %v", err)
	}
	if got == nil || got.Slug != "persisted-slug" {
		t.Fatalf("record lost across reopen: %+v", got)
	}
}

func TestJSONStoreUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	store, err := NewJSONStore(path, testLogger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()

	if err := store.Upsert(ctx, testRecord("B08XYZ1234", "some-slug")); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	category := "Home & Kitchen"
	if err := store.Update(ctx, "B08XYZ1234", &types.RecordUpdate{Category: &category}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := store.FindByASIN(ctx, "B08XYZ1234")
	if got.Category != category {
		t.Errorf("category = %q, want %q", got.Category, category)
	}
	if got.Slug != "some-slug" {
		t.Errorf("untouched field changed: %q", got.Slug)
	}

	if err := store.Update(ctx, "B000000000", &types.RecordUpdate{Category: &category}); err == nil {
		t.Error("update of unknown asin should fail")
	}
}

func TestJSONStoreListCopies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	store, err := NewJSONStore(path, testLogger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()

	if err := store.Upsert(ctx, testRecord("B08XYZ1234", "a-slug")); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	records[0].Category = "mutated"

	got, _ := store.FindByASIN(ctx, "B08XYZ1234")
	if got.Category == "mutated" {
		t.Error("List must return copies, not internal pointers")
	}
}

func TestNewStoreUnsupportedType(t *testing.T) {
	cfg := &config.StorageConfig{Type: "bolt"}
	if _, err := NewStore(cfg, testLogger); err == nil {
		t.Fatal("expected error for unsupported storage type")
	}
}
