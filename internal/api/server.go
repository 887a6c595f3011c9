// Package api exposes the resolution pipeline and record store over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/config"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/observability"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/resolve"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/storage"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/types"
)

// Server provides the REST control surface for the storefront pipeline.
type Server struct {
	mux      *http.ServeMux
	cfg      *config.APIConfig
	pipeline *resolve.Pipeline
	store    storage.Store
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewServer creates a new API server. metrics may be nil, in which case the
// /metrics route is not registered.
func NewServer(cfg *config.APIConfig, pipeline *resolve.Pipeline, store storage.Store, metrics *observability.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		cfg:      cfg,
		pipeline: pipeline,
		store:    store,
		metrics:  metrics,
		logger:   logger.With("component", "api_server"),
	}

	s.registerRoutes()
	return s
}

// Start starts the API server and blocks until it exits.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.mux)
}

// Handler returns the underlying mux, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("POST /api/products", s.handleResolve)
	s.mux.HandleFunc("GET /api/products", s.handleListProducts)
	s.mux.HandleFunc("GET /api/products/{slug}", s.handleGetProduct)

	s.mux.HandleFunc("POST /api/import", s.handleImport)
	s.mux.HandleFunc("POST /api/categorize", s.handleCategorize)

	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]any{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"backend":  s.store.Name(),
		"products": count,
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL        string   `json:"url"`
		URLs       []string `json:"urls"`
		PartnerTag string   `json:"partner_tag"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if body.URL == "" && len(body.URLs) == 0 {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "url or urls required"})
		return
	}

	opts := &resolve.Options{PartnerTag: body.PartnerTag}

	if body.URL != "" {
		record, err := s.pipeline.Resolve(r.Context(), body.URL, opts)
		if err != nil {
			s.jsonResponse(w, statusForResolveError(err), map[string]string{"error": err.Error()})
			return
		}
		if err := s.storeRecord(r, record); err != nil {
			s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		s.jsonResponse(w, http.StatusCreated, record)
		return
	}

	results := s.pipeline.ResolveAll(r.Context(), body.URLs, opts)
	stored := 0
	for _, res := range results {
		if res.Record == nil {
			continue
		}
		if err := s.storeRecord(r, res.Record); err != nil {
			s.logger.Error("store failed", "asin", res.Record.ASIN, "error", err)
			continue
		}
		stored++
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"results": results,
		"stored":  stored,
	})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, records)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	record, err := s.store.FindBySlug(r.Context(), slug)
	if err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if record == nil {
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

// ImportedProduct is one pre-scraped product in an import payload.
type ImportedProduct struct {
	ASIN        string `json:"asin"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	SourceURL   string `json:"source_url"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if s.cfg.ImportKey != "" && r.Header.Get("X-API-Key") != s.cfg.ImportKey {
		s.jsonResponse(w, http.StatusUnauthorized, map[string]string{"error": "invalid API key"})
		return
	}

	var body struct {
		Products []ImportedProduct `json:"products"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(body.Products) == 0 {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "products required"})
		return
	}

	type importResult struct {
		ASIN  string `json:"asin"`
		Slug  string `json:"slug,omitempty"`
		Error string `json:"error,omitempty"`
	}
	results := make([]importResult, 0, len(body.Products))
	imported := 0

	for _, p := range body.Products {
		record, err := s.pipeline.Ingest(p.ASIN, p.Title, p.Description, p.ImageURL, p.SourceURL)
		if err != nil {
			results = append(results, importResult{ASIN: p.ASIN, Error: err.Error()})
			continue
		}
		if err := s.storeRecord(r, record); err != nil {
			results = append(results, importResult{ASIN: record.ASIN, Error: err.Error()})
			continue
		}
		results = append(results, importResult{ASIN: record.ASIN, Slug: record.Slug})
		imported++
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"imported": imported,
		"total":    len(body.Products),
		"results":  results,
	})
}

// handleCategorize re-runs the categorizer over stored records. Useful
// after the keyword table gains entries, so earlier Miscellaneous records
// pick up real categories.
func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	updated := 0
	for _, record := range records {
		category := s.pipeline.Recategorize(record)
		if category == record.Category {
			continue
		}
		upd := &types.RecordUpdate{Category: &category}
		if err := s.store.Update(r.Context(), record.ASIN, upd); err != nil {
			s.logger.Error("category update failed", "asin", record.ASIN, "error", err)
			continue
		}
		updated++
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"scanned": len(records),
		"updated": updated,
	})
}

func (s *Server) storeRecord(r *http.Request, record *types.ProductRecord) error {
	err := s.store.Upsert(r.Context(), record)
	if s.metrics != nil {
		if err != nil {
			s.metrics.StoreErrors.Add(1)
		} else {
			s.metrics.RecordsStored.Add(1)
		}
	}
	return err
}

func statusForResolveError(err error) int {
	switch {
	case errors.Is(err, types.ErrNotMarketplaceURL),
		errors.Is(err, types.ErrIdentifierNotFound),
		errors.Is(err, types.ErrInvalidIdentifier):
		return http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrMissingPartnerTag):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
