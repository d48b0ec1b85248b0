// Package api - Thin, deterministic API layer
// The API is ONLY responsible for: request decoding, calling the calculator,
// and response serialization. Premium logic lives in core/rating.
package api

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wc-rating/core/determinism"
	"wc-rating/core/explanation"
	"wc-rating/core/output"
	"wc-rating/core/rating"
	"wc-rating/core/types"
	"wc-rating/internal/errors"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// Server is the API server
type Server struct {
	calc     *rating.Calculator
	registry *output.Registry
	router   chi.Router
	version  string
	log      *zap.Logger
	now      func() time.Time
}

// NewServer creates a server quoting against plan
func NewServer(version string, plan *rating.Plan, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		calc:     rating.NewCalculator(plan),
		registry: output.GetDefault(),
		router:   chi.NewRouter(),
		version:  version,
		log:      log,
		now:      time.Now,
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr), zap.String("plan", s.calc.Plan().Name()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/classes", s.handleClasses)
	r.Get("/plan", s.handlePlan)

	r.Post("/quote", s.handleQuote)
	r.Post("/quote/report", s.handleReport)
	r.Post("/quote/explain", s.handleExplain)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    s.now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "wc-rating",
		"api_version": "v1",
	}, http.StatusOK)
}

// handleClasses handles GET /classes
func (s *Server) handleClasses(w http.ResponseWriter, r *http.Request) {
	plan := s.calc.Plan()
	s.writeJSON(w, ClassesResponse{Plan: plan.Name(), Classes: plan.Classes()}, http.StatusOK)
}

// handlePlan handles GET /plan
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, NewPlanResponse(s.calc.Plan()), http.StatusOK)
}

// handleQuote handles POST /quote
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	result, input, err := s.quote(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, QuoteResponse{
		QuoteID:   uuid.NewString(),
		InputHash: determinism.HashInput(input).Hex(),
		Result:    result,
		Exhibit:   output.NewExhibit(result),
	}, http.StatusOK)
}

// handleReport handles POST /quote/report?format=
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = string(output.FormatText)
	}
	formatter, err := s.registry.Get(format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, input, err := s.quote(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	report := output.NewReport(result, output.ReportMetadata{
		QuoteID:     uuid.NewString(),
		InputHash:   determinism.HashInput(input).Hex(),
		GeneratedAt: s.now().UTC(),
		Version:     s.version,
	})

	var buf bytes.Buffer
	if err := formatter.Render(&buf, report); err != nil {
		s.writeError(w, errors.Internal("failed to render report", err))
		return
	}

	w.Header().Set("Content-Type", formatter.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+formatter.FileName()+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleExplain handles POST /quote/explain
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	result, input, err := s.quote(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, ExplainResponse{
		QuoteID:     uuid.NewString(),
		InputHash:   determinism.HashInput(input).Hex(),
		Result:      result,
		Explanation: explanation.Explain(result),
	}, http.StatusOK)
}

// quote decodes the request body and computes the premium
func (s *Server) quote(w http.ResponseWriter, r *http.Request) (*types.RatingResult, types.RatingInput, error) {
	var req QuoteRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return nil, types.RatingInput{}, errors.Parsing("invalid JSON body", err)
	}

	input, err := req.ToInput(s.calc.Plan())
	if err != nil {
		return nil, input, err
	}
	result, err := s.calc.Compute(input)
	if err != nil {
		return nil, input, err
	}
	return result, input, nil
}

// statusFor maps an error type to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.IsValidation(err), errors.IsType(err, errors.TypeNotSupported):
		return http.StatusBadRequest
	case errors.IsType(err, errors.TypeNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := ErrorBody{Code: string(errors.TypeOf(err)), Message: err.Error()}
	if e, ok := err.(*errors.Error); ok {
		body.Message = e.Message
		body.Context = e.Context
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, ErrorResponse{Error: body}, status)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		s.log.Warn("failed to encode response", zap.Error(err))
	}
}
