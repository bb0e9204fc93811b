// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/okian/triage/internal/domain/model"
	"github.com/okian/triage/pkg/logger"
)

const defaultMaxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Assess scores one request synchronously.
	Assess(ctx context.Context, req model.Request) (model.Assessment, error)

	// AssessBatch scores many requests; results keep input order.
	AssessBatch(ctx context.Context, reqs []model.Request) ([]model.BatchItem, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	assessmentsHandler *AssessmentsHandler

	corsOrigin  string
	serviceName string
	logger      logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBodyBytes caps request bodies on the assessment routes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.assessmentsHandler.maxBodyBytes = n
		}
	}
}

// WithCORSOrigin sets the Access-Control-Allow-Origin value.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) {
		if origin != "" {
			s.corsOrigin = origin
		}
	}
}

// WithServiceName sets the tracer name used for request spans.
func WithServiceName(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.serviceName = name
		}
	}
}

// WithLogger sets a custom logger for the server middleware.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		assessmentsHandler: NewAssessmentsHandler(deps, defaultMaxBodyBytes),
		corsOrigin:         "*",
		serviceName:        "triage",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("http")
	}
	return s
}

// Router builds a chi router with the standard middleware stack and all
// business routes registered.
func (s *Server) Router(ctx context.Context) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(RequestID)
	r.Use(CORS(s.corsOrigin))
	r.Use(Logger(s.logger))
	r.Use(Tracing(s.serviceName))
	r.Use(Recover(s.logger))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})
	s.Register(ctx, r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Post("/api/predict", MetricsMiddleware(s.assessmentsHandler.HandleAssess, "predict"))
	r.Route("/v1/assessments", func(r chi.Router) {
		r.Post("/", MetricsMiddleware(s.assessmentsHandler.HandleAssess, "assessments"))
		r.Post("/batch", MetricsMiddleware(s.assessmentsHandler.HandleBatch, "assessments_batch"))
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// clientMessage returns the message safe to show a client: the innermost
// cause for client errors and a fixed text for server errors.
func clientMessage(status int, err error) string {
	if status >= statusInternalError {
		return "failed to process prediction"
	}
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	var kerr *KindError
	if errors.As(err, &kerr) && kerr.Err != nil {
		return kerr.Err.Error()
	}
	if err == nil {
		return http.StatusText(status)
	}
	return err.Error()
}
