// Package httpapi exposes the clustering analyses as a JSON HTTP API.
// It is a thin layer: parameters come in as query strings, results go
// out as the analyze package produced them, and the error taxonomy maps
// onto status codes.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ekremc/gosegment/pkg/analyze"
	"github.com/ekremc/gosegment/pkg/cluster"
	"github.com/ekremc/gosegment/pkg/store"
)

// Server routes analysis requests to a record source.
type Server struct {
	source store.Source
	logger *slog.Logger
}

// New creates a Server over the given record source.
func New(source store.Source, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{source: source, logger: logger}
}

// Handler returns the routed HTTP handler:
//
//	GET /api/customers
//	GET /api/products
//	GET /api/suppliers
//	GET /api/countries
//
// Optional query parameters eps and min_samples override the automatic
// parameter search.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, d := range analyze.Domains() {
		mux.Handle("GET /api/"+string(d), s.analysisHandler(d))
	}
	return s.logRequests(withCORS(mux))
}

func (s *Server) analysisHandler(d analyze.Domain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := []analyze.Option{analyze.WithLogger(s.logger)}

		params, err := parseParams(r)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if params != nil {
			opts = append(opts, analyze.WithParams(*params))
		}

		res, err := analyze.New(s.source, opts...).Analyze(r.Context(), d)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, res)
	}
}

// parseParams reads eps and min_samples overrides. Returns nil when
// neither is present; a partial override falls back to the defaults for
// the missing half.
func parseParams(r *http.Request) (*cluster.Params, error) {
	q := r.URL.Query()
	epsStr := q.Get("eps")
	minStr := q.Get("min_samples")
	if epsStr == "" && minStr == "" {
		return nil, nil
	}

	p := cluster.DefaultParams()
	if epsStr != "" {
		eps, err := strconv.ParseFloat(epsStr, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: eps %q is not a number", cluster.ErrInvalidParameter, epsStr)
		}
		p.Eps = eps
	}
	if minStr != "" {
		min, err := strconv.Atoi(minStr)
		if err != nil {
			return nil, fmt.Errorf("%w: min_samples %q is not an integer", cluster.ErrInvalidParameter, minStr)
		}
		p.MinPoints = min
	}
	return &p, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, cluster.ErrInvalidParameter):
		status = http.StatusBadRequest
	case errors.Is(err, cluster.ErrInsufficientData):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("analysis failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// withCORS allows any origin, matching the original deployment where the
// dashboard is served from a different host.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}
