// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/bhoomi/internal/adapters/ingest"
	"github.com/okian/bhoomi/internal/adapters/mq/hub"
	"github.com/okian/bhoomi/internal/domain/model"
	"github.com/okian/bhoomi/internal/domain/risk"
	"github.com/okian/bhoomi/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Tick renders a snapshot now; LastSnapshot returns the newest one.
	Tick(ctx context.Context) (Snapshot, error)
	LastSnapshot() (Snapshot, error)

	Observations(ctx context.Context) ([]model.Observation, error)
	Classify(ctx context.Context, value float64) (Classification, error)

	Source() SourceMode
	SetSource(ctx context.Context, mode SourceMode) error
	Upload(ctx context.Context, name string, data []byte) (int, error)

	SubmitAlert(ctx context.Context, req AlertRequest) (AlertReceipt, error)

	// Subscribe streams every published snapshot until cancel is called.
	Subscribe() (<-chan Snapshot, func(), error)
}

// Shapes served by the API.
type (
	Snapshot       = types.Snapshot
	SourceMode     = types.SourceMode
	Classification = types.Classification
	AlertRequest   = types.AlertRequest
	AlertReceipt   = types.AlertReceipt
	UploadResult   = types.UploadResult
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	snapshotHandler *SnapshotHandler
	sourceHandler   *SourceHandler
	alertsHandler   *AlertsHandler
	streamHandler   *StreamHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		snapshotHandler: NewSnapshotHandler(deps),
		sourceHandler:   NewSourceHandler(deps, cfg.maxUploadBytes),
		alertsHandler:   NewAlertsHandler(deps),
		streamHandler:   NewStreamHandler(deps, cfg.logger, cfg.pingInterval),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /api/snapshot", MetricsMiddleware(s.snapshotHandler.HandleGetSnapshot, "snapshot"))
	mux.HandleFunc("POST /api/tick", MetricsMiddleware(s.snapshotHandler.HandlePostTick, "tick"))
	mux.HandleFunc("GET /api/observations", MetricsMiddleware(s.snapshotHandler.HandleGetObservations, "observations"))
	mux.HandleFunc("GET /api/classify", MetricsMiddleware(s.snapshotHandler.HandleClassify, "classify"))
	mux.HandleFunc("POST /api/source", MetricsMiddleware(s.sourceHandler.HandleSetSource, "source"))
	mux.HandleFunc("POST /api/upload", MetricsMiddleware(s.sourceHandler.HandleUpload, "upload"))
	mux.HandleFunc("POST /api/alerts", MetricsMiddleware(s.alertsHandler.HandlePostAlert, "alerts"))
	mux.HandleFunc("GET /ws", MetricsMiddleware(s.streamHandler.HandleStream, "ws"))
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

// writeServiceError translates a service error into its HTTP status.
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classifyError(err)
	writeError(w, status, code, err)
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, risk.ErrInsufficientData):
		return http.StatusUnprocessableEntity, "insufficient_data"
	case errors.Is(err, ingest.ErrSourceNotFound), errors.Is(err, types.ErrNoSnapshot):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, types.ErrInvalidSource),
		errors.Is(err, types.ErrEmptyUpload),
		errors.Is(err, ingest.ErrMalformed),
		errors.Is(err, ingest.ErrUnsupportedFormat),
		errors.Is(err, risk.ErrInvalidReading),
		errors.Is(err, model.ErrInvalidObservation):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, hub.ErrClosed):
		return http.StatusServiceUnavailable, "unavailable"
	case isNotFound(err):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
