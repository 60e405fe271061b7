package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/benvon/metric-tracker/internal/logger"
	"github.com/benvon/metric-tracker/internal/models"
	"github.com/benvon/metric-tracker/internal/services/tracker"
	"github.com/benvon/metric-tracker/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// MetricService is the behavior MetricHandler needs from the tracker service
type MetricService interface {
	Create(ctx context.Context, metric *models.Metric) (*models.Metric, error)
	Edit(ctx context.Context, id string, metric *models.Metric) (*models.Metric, error)
	LogOccurrence(ctx context.Context, id string, occurrence models.Occurrence) (*models.Metric, error)
	EditOccurrence(ctx context.Context, id string, index int, occurrence models.Occurrence) (*models.Metric, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Metric, error)
	List(ctx context.Context) ([]*models.Metric, error)
	Types() []validation.KindInfo
}

var _ MetricService = (*tracker.Service)(nil)

// MetricHandler handles metric and occurrence requests
type MetricHandler struct {
	service MetricService
	logger  *zap.Logger
}

// NewMetricHandler creates a new metric handler
func NewMetricHandler(service MetricService, log *zap.Logger) *MetricHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MetricHandler{service: service, logger: log}
}

// RegisterRoutes registers metric routes on the given router.
// The router should be the /api/v1 subrouter.
func (h *MetricHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/metrics", h.ListMetrics).Methods("GET")
	r.HandleFunc("/metrics", h.CreateMetric).Methods("POST")
	r.HandleFunc("/metrics/{id}", h.GetMetric).Methods("GET")
	r.HandleFunc("/metrics/{id}", h.UpdateMetric).Methods("PUT")
	r.HandleFunc("/metrics/{id}", h.DeleteMetric).Methods("DELETE")
	r.HandleFunc("/metrics/{id}/occurrences", h.LogOccurrence).Methods("POST")
	r.HandleFunc("/metrics/{id}/occurrences/{index}", h.UpdateOccurrence).Methods("PUT")
	r.HandleFunc("/metric-types", h.ListMetricTypes).Methods("GET")
}

// MetricRequest is the body for creating or replacing a metric
type MetricRequest struct {
	Name        string                   `json:"name"`
	Type        models.MetricType        `json:"type"`
	Occurrences []models.Occurrence      `json:"occurrences"`
	Chores      []models.ChoreDefinition `json:"chores,omitempty"`
	Projects    []string                 `json:"projects,omitempty"`
	SubMetrics  []models.SubMetric       `json:"subMetrics,omitempty"`
}

func (req *MetricRequest) toMetric() *models.Metric {
	occurrences := req.Occurrences
	if occurrences == nil {
		occurrences = []models.Occurrence{}
	}
	return &models.Metric{
		Name:        validation.SanitizeText(req.Name),
		Type:        req.Type,
		Occurrences: occurrences,
		Chores:      req.Chores,
		Projects:    req.Projects,
		SubMetrics:  req.SubMetrics,
	}
}

// ListMetrics lists every metric in index order; missing records are null
func (h *MetricHandler) ListMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.service.List(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}

// CreateMetric creates a new metric
func (h *MetricHandler) CreateMetric(w http.ResponseWriter, r *http.Request) {
	var req MetricRequest
	if !decodeBody(w, r, &req) {
		return
	}

	metric, err := h.service.Create(r.Context(), req.toMetric())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, metric)
}

// GetMetric retrieves a metric by ID
func (h *MetricHandler) GetMetric(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	metric, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if metric == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Metric not found")
		return
	}
	respondJSON(w, http.StatusOK, metric)
}

// UpdateMetric replaces a metric's name, type and type-specific fields
func (h *MetricHandler) UpdateMetric(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req MetricRequest
	if !decodeBody(w, r, &req) {
		return
	}

	metric, err := h.service.Edit(r.Context(), id, req.toMetric())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, metric)
}

// DeleteMetric deletes a metric
func (h *MetricHandler) DeleteMetric(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LogOccurrence appends an occurrence to a metric
func (h *MetricHandler) LogOccurrence(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var occurrence models.Occurrence
	if !decodeBody(w, r, &occurrence) {
		return
	}

	metric, err := h.service.LogOccurrence(r.Context(), id, occurrence)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, metric)
}

// UpdateOccurrence replaces the occurrence at the given index
func (h *MetricHandler) UpdateOccurrence(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid occurrence index")
		return
	}

	var occurrence models.Occurrence
	if !decodeBody(w, r, &occurrence) {
		return
	}

	metric, err := h.service.EditOccurrence(r.Context(), id, index, occurrence)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, metric)
}

// ListMetricTypes describes every supported metric type
func (h *MetricHandler) ListMetricTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Types())
}

// decodeBody decodes the request body into v, writing the error response on failure
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return false
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return false
	}
	return true
}

// respondServiceError maps tracker errors onto HTTP responses
func (h *MetricHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tracker.ErrNotFound):
		respondJSONError(w, http.StatusNotFound, "Not Found", "Metric not found")
	case errors.Is(err, tracker.ErrInvalidType):
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Unknown metric type")
	case errors.Is(err, tracker.ErrInvalidMetric):
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid metric")
	case errors.Is(err, tracker.ErrInvalidOccurrence):
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid occurrence")
	case errors.Is(err, tracker.ErrInvalidIndex):
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Occurrence index out of range")
	default:
		h.logger.Error("metric_request_failed",
			zap.String("method", r.Method),
			zap.String("path", logger.SanitizePath(r.URL.Path)),
			zap.String("error", logger.SanitizeError(err)),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
	}
}
