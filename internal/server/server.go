// Package server exposes the classifier over a JSON HTTP API.
package server

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Veraticus/four-pillars/internal/common"
	"github.com/Veraticus/four-pillars/internal/model"
	"github.com/Veraticus/four-pillars/internal/service"
)

const maxBodyBytes = 1 << 16

// Classifier runs classifications for the API.
type Classifier interface {
	Classify(ctx context.Context, rec model.BirthRecord) (*model.ClassificationResult, error)
	ClassifyChart(chart model.Chart) (*model.ClassificationResult, error)
}

// Server serves the classification API.
type Server struct {
	router     *chi.Mux
	classifier Classifier
	history    service.ResultStore
	version    string
}

// New creates a server. history may be nil, which disables the results routes.
func New(classifier Classifier, history service.ResultStore, version string) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		classifier: classifier,
		history:    history,
		version:    version,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/classify", s.handleClassify)
		r.Post("/chart", s.handleChart)
		if s.history != nil {
			r.Get("/results", s.handleListResults)
			r.Get("/results/{id}", s.handleGetResult)
		}
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down gracefully.
// A non-nil tlsConfig serves HTTPS.
func (s *Server) ListenAndServe(ctx context.Context, addr string, tlsConfig *tls.Config) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		common.LogInfo("HTTP server listening", common.Fields{"addr": addr, "tls": tlsConfig != nil})
		if tlsConfig != nil {
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

// ChartRequest names the four pillars by glyph.
type ChartRequest struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
	Hour  string `json:"hour"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var rec model.BirthRecord
	if !decode(w, r, &rec) {
		return
	}
	result, err := s.classifier.Classify(r.Context(), rec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	var req ChartRequest
	if !decode(w, r, &req) {
		return
	}
	chart, err := model.ParseChart(req.Year, req.Month, req.Day, req.Hour)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := s.classifier.ClassifyChart(chart)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type resultSummary struct {
	CreatedAt    time.Time `json:"created_at"`
	ID           string    `json:"id"`
	CaseID       string    `json:"case_id"`
	Name         string    `json:"name,omitempty"`
	Chart        string    `json:"chart"`
	Constitution string    `json:"constitution"`
	Confidence   float64   `json:"confidence"`
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	stored, err := s.history.ListResults(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]resultSummary, 0, len(stored))
	for _, sr := range stored {
		out = append(out, resultSummary{
			ID:           sr.ID,
			CaseID:       sr.CaseID,
			Name:         sr.Name,
			Chart:        sr.ChartKey,
			Constitution: sr.Constitution,
			Confidence:   sr.Confidence,
			CreatedAt:    sr.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	stored, err := s.history.GetResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(stored.Payload); err != nil {
		common.LogDebug("Failed to write response", common.Fields{"error": err.Error()})
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case common.IsUserError(err), errors.Is(err, common.ErrUnknownSymbol), errors.Is(err, common.ErrOfflineLookup):
		return http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrGeocoderUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		msg = userErr.UserMessage
	}
	if status == http.StatusInternalServerError {
		common.LogError(err, "API request failed", nil)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		common.LogDebug("Failed to write response", common.Fields{"error": err.Error()})
	}
}
