package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/types"
)

// Metrics tracks operational metrics for the resolution pipeline.
type Metrics struct {
	// Resolution metrics
	ResolutionsTotal  atomic.Int64
	ResolutionsFailed atomic.Int64
	ResolveDurationMs atomic.Int64

	// Text strategy hit counters, indexed by tier
	TextPageScrape   atomic.Int64
	TextURLInference atomic.Int64
	TextAIGenerated  atomic.Int64
	TextTemplate     atomic.Int64

	// Image strategy hit counters, indexed by tier
	ImagePageScrape    atomic.Int64
	ImageBrowserScrape atomic.Int64
	ImageURLProbe      atomic.Int64
	ImagePlaceholder   atomic.Int64

	// Storage metrics
	RecordsStored atomic.Int64
	StoreErrors   atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// RecordResolution increments the per-strategy hit counters for a completed
// resolution and accumulates its duration.
func (m *Metrics) RecordResolution(text types.TextStrategy, image types.ImageStrategy, d time.Duration) {
	m.ResolutionsTotal.Add(1)
	m.ResolveDurationMs.Add(d.Milliseconds())

	switch text {
	case types.TextPageScrape:
		m.TextPageScrape.Add(1)
	case types.TextURLInference:
		m.TextURLInference.Add(1)
	case types.TextAIGenerated:
		m.TextAIGenerated.Add(1)
	case types.TextTemplate:
		m.TextTemplate.Add(1)
	}

	switch image {
	case types.ImagePageScrape:
		m.ImagePageScrape.Add(1)
	case types.ImageBrowserScrape:
		m.ImageBrowserScrape.Add(1)
	case types.ImageURLProbe:
		m.ImageURLProbe.Add(1)
	case types.ImagePlaceholder:
		m.ImagePlaceholder.Add(1)
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"storefront_resolutions_total", "Total product resolutions attempted", m.ResolutionsTotal.Load()},
		{"storefront_resolutions_failed_total", "Total product resolutions failed", m.ResolutionsFailed.Load()},
		{"storefront_resolve_duration_ms_total", "Cumulative resolution duration in milliseconds", m.ResolveDurationMs.Load()},
		{"storefront_text_page_scrape_total", "Resolutions whose text came from page scraping", m.TextPageScrape.Load()},
		{"storefront_text_url_inference_total", "Resolutions whose text came from URL inference", m.TextURLInference.Load()},
		{"storefront_text_ai_generated_total", "Resolutions whose text came from AI generation", m.TextAIGenerated.Load()},
		{"storefront_text_template_total", "Resolutions whose text came from templates", m.TextTemplate.Load()},
		{"storefront_image_page_scrape_total", "Resolutions whose image came from page scraping", m.ImagePageScrape.Load()},
		{"storefront_image_browser_scrape_total", "Resolutions whose image came from browser rendering", m.ImageBrowserScrape.Load()},
		{"storefront_image_url_probe_total", "Resolutions whose image came from URL probing", m.ImageURLProbe.Load()},
		{"storefront_image_placeholder_total", "Resolutions whose image fell back to a placeholder", m.ImagePlaceholder.Load()},
		{"storefront_records_stored_total", "Total records written to storage", m.RecordsStored.Load()},
		{"storefront_store_errors_total", "Total storage write errors", m.StoreErrors.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"resolutions_total":    m.ResolutionsTotal.Load(),
		"resolutions_failed":   m.ResolutionsFailed.Load(),
		"text_page_scrape":     m.TextPageScrape.Load(),
		"text_url_inference":   m.TextURLInference.Load(),
		"text_ai_generated":    m.TextAIGenerated.Load(),
		"text_template":        m.TextTemplate.Load(),
		"image_page_scrape":    m.ImagePageScrape.Load(),
		"image_browser_scrape": m.ImageBrowserScrape.Load(),
		"image_url_probe":      m.ImageURLProbe.Load(),
		"image_placeholder":    m.ImagePlaceholder.Load(),
		"records_stored":       m.RecordsStored.Load(),
		"store_errors":         m.StoreErrors.Load(),
	}
}
