package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/config"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/fetcher"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/marketplace"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/resolve"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/storage"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// offlineFetcher misses every fetch and probe, forcing terminal fallbacks.
type offlineFetcher struct{}

func (offlineFetcher) FetchPage(ctx context.Context, url string) ([]byte, error) {
	return nil, &types.FetchError{URL: url, Err: types.ErrEmptyResponse}
}

func (offlineFetcher) Probe(ctx context.Context, url string) (string, bool) { return "", false }

func (offlineFetcher) Close() error { return nil }

func newTestServer(t *testing.T, importKey string) (*Server, storage.Store) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Marketplace.PartnerTag = "trueessentials-20"
	cfg.API.ImportKey = importKey
	cfg.Browser.Enabled = false

	var f fetcher.Fetcher = offlineFetcher{}
	links := marketplace.NewLinkBuilder(cfg.Marketplace.Domain, cfg.Marketplace.PartnerTag)
	text := resolve.NewTextResolver(f, nil, cfg, testLogger)
	image := resolve.NewImageResolver(f, cfg, testLogger)
	pipeline := resolve.NewPipeline(cfg, links, text, image, nil, testLogger)

	store, err := storage.NewJSONStore(filepath.Join(t.TempDir(), "products.json"), testLogger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	return NewServer(&cfg.API, pipeline, store, nil, testLogger), store
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t, "")

	rec := doJSON(t, server.Handler(), "GET", "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestResolveEndpointStoresRecord(t *testing.T) {
	server, store := newTestServer(t, "")

	rec := doJSON(t, server.Handler(), "POST", "/api/products",
		`{"url":"https://www.amazon.com/Magnetic-Door-Alarm-Sensor/dp/B08XYZ1234"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var record types.ProductRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record.ASIN != "B08XYZ1234" {
		t.Errorf("asin = %q", record.ASIN)
	}

	stored, err := store.FindByASIN(context.Background(), "B08XYZ1234")
	if err != nil || stored == nil {
		t.Fatalf("record not stored: %v", err)
	}
}

func TestResolveEndpointRejectsForeignHost(t *testing.T) {
	server, _ := newTestServer(t, "")

	rec := doJSON(t, server.Handler(), "POST", "/api/products",
		`{"url":"https://example.com/dp/B08XYZ1234"}`, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestResolveEndpointBulk(t *testing.T) {
	server, _ := newTestServer(t, "")

	rec := doJSON(t, server.Handler(), "POST", "/api/products",
		`{"urls":["https://www.amazon.com/dp/B08XYZ1234","https://example.com/nope"]}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Stored  int                   `json:"stored"`
		Results []types.ResolveResult `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Stored != 1 {
		t.Errorf("stored = %d, want 1", body.Stored)
	}
	if len(body.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(body.Results))
	}
	if body.Results[1].Error == "" {
		t.Error("second result should carry an error")
	}
}

func TestGetProductBySlug(t *testing.T) {
	server, store := newTestServer(t, "")

	record := &types.ProductRecord{
		ASIN:      "B08XYZ1234",
		Title:     "Quality Product",
		Slug:      "quality-product",
		Category:  "Miscellaneous",
		CreatedAt: time.Now().UTC(),
	}
	if err := store.Upsert(context.Background(), record); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	rec := doJSON(t, server.Handler(), "GET", "/api/products/quality-product", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = doJSON(t, server.Handler(), "GET", "/api/products/no-such-slug", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestImportRequiresKey(t *testing.T) {
	server, _ := newTestServer(t, "sekrit")

	payload := `{"products":[{"asin":"B08XYZ1234","title":"Cordless Drill Kit","description":"Brushless motor with two batteries and a fast charger included."}]}`

	rec := doJSON(t, server.Handler(), "POST", "/api/import", payload, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status without key = %d, want 401", rec.Code)
	}

	rec = doJSON(t, server.Handler(), "POST", "/api/import", payload,
		map[string]string{"X-API-Key": "sekrit"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status with key = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Imported int `json:"imported"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Imported != 1 {
		t.Errorf("imported = %d, want 1", body.Imported)
	}
}

func TestImportReportsPerProductErrors(t *testing.T) {
	server, _ := newTestServer(t, "")

	payload := `{"products":[{"asin":"bad","title":"X"},{"asin":"B08XYZ1234","title":"Magnetic Door Alarm","description":"Loud siren alerts you the moment a door or window opens at home."}]}`
	rec := doJSON(t, server.Handler(), "POST", "/api/import", payload, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Imported int `json:"imported"`
		Total    int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Imported != 1 || body.Total != 2 {
		t.Errorf("imported = %d total = %d, want 1 of 2", body.Imported, body.Total)
	}
}

func TestCategorizeEndpoint(t *testing.T) {
	server, store := newTestServer(t, "")

	record := &types.ProductRecord{
		ASIN:        "B08XYZ1234",
		Title:       "Cordless Drill Kit with Brushless Motor",
		Description: "Includes two batteries, a fast charger, and a hard carrying case.",
		Slug:        "cordless-drill-kit",
		Category:    "Miscellaneous",
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.Upsert(context.Background(), record); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	rec := doJSON(t, server.Handler(), "POST", "/api/categorize", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	got, _ := store.FindByASIN(context.Background(), "B08XYZ1234")
	if got.Category != "Tools & Home Improvement" {
		t.Errorf("category = %q, want recategorized", got.Category)
	}
}
