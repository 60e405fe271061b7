// Package tracker coordinates metric validation with persistence.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benvon/metric-tracker/internal/logger"
	"github.com/benvon/metric-tracker/internal/models"
	"github.com/benvon/metric-tracker/internal/store"
	"github.com/benvon/metric-tracker/internal/validation"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/benvon/metric-tracker/internal/services/tracker"

// Operation outcome labels
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Service validates metrics and occurrences before every mutation of the store
type Service struct {
	store     store.MetricStore
	validator *validation.Validator
	logger    *zap.Logger
	tracer    trace.Tracer
	ops       *prometheus.CounterVec
	now       func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the clock used to stamp occurrences logged without a date
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTracer overrides the tracer; the global provider is used otherwise
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithOperationCounter counts every operation by name and outcome.
// The vector must have the labels "operation" and "outcome".
func WithOperationCounter(ops *prometheus.CounterVec) Option {
	return func(s *Service) {
		s.ops = ops
	}
}

// NewService creates a metric service
func NewService(metricStore store.MetricStore, validator *validation.Validator, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		store:     metricStore,
		validator: validator,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Types describes every metric type the service accepts
func (s *Service) Types() []validation.KindInfo {
	return s.validator.Catalog().Describe()
}

// Create validates metric and stores it under a fresh id with an empty history
func (s *Service) Create(ctx context.Context, metric *models.Metric) (result *models.Metric, err error) {
	ctx, span := s.start(ctx, "create", "")
	defer func() { s.finish(span, "create", err) }()

	if metric == nil {
		return nil, ErrInvalidMetric
	}
	candidate := metric.Clone()
	if candidate.Occurrences == nil {
		candidate.Occurrences = []models.Occurrence{}
	}
	if err := s.checkMetric(candidate); err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric: %w", err)
	}
	span.SetAttributes(attribute.String("metric.id", created.ID))

	s.logger.Info("metric_created",
		zap.String("id", created.ID),
		zap.String("type", string(created.Type)),
		zap.String("name", logger.SanitizeString(created.Name, logger.MaxGeneralStringLength)),
	)
	return created, nil
}

// Edit replaces every field of the metric except its id and occurrence history.
// The replacement must be valid together with the stored history.
func (s *Service) Edit(ctx context.Context, id string, metric *models.Metric) (result *models.Metric, err error) {
	ctx, span := s.start(ctx, "edit", id)
	defer func() { s.finish(span, "edit", err) }()

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if metric == nil {
		return nil, ErrInvalidMetric
	}

	candidate := metric.Clone()
	candidate.ID = id
	candidate.Occurrences = current.Occurrences
	if err := s.checkMetric(candidate); err != nil {
		if current.Type != candidate.Type {
			s.logger.Debug("metric_type_change_rejected",
				zap.String("id", id),
				zap.String("from", string(current.Type)),
				zap.String("to", string(candidate.Type)),
			)
		}
		return nil, err
	}

	updated, err := s.replace(ctx, id, candidate)
	if err != nil {
		return nil, err
	}

	s.logger.Info("metric_updated",
		zap.String("id", id),
		zap.String("type", string(updated.Type)),
	)
	return updated, nil
}

// LogOccurrence appends occurrence to the metric's history.
// An occurrence with no date field is stamped with the current time.
func (s *Service) LogOccurrence(ctx context.Context, id string, occurrence models.Occurrence) (result *models.Metric, err error) {
	ctx, span := s.start(ctx, "log_occurrence", id)
	defer func() { s.finish(span, "log_occurrence", err) }()

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if occurrence.IsObject() && !occurrence.HasDateKey() {
		occurrence, err = occurrence.WithDate(s.now())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOccurrence, err)
		}
	}
	if !s.validator.ValidateOccurrence(current, occurrence) {
		return nil, ErrInvalidOccurrence
	}

	current.Occurrences = append(current.Occurrences, occurrence.Clone())
	updated, err := s.replace(ctx, id, current)
	if err != nil {
		return nil, err
	}

	s.logger.Info("occurrence_logged",
		zap.String("id", id),
		zap.Int("index", len(updated.Occurrences)-1),
	)
	return updated, nil
}

// EditOccurrence replaces the occurrence at index in place.
// An occurrence with no date field keeps the date of the one it replaces.
func (s *Service) EditOccurrence(ctx context.Context, id string, index int, occurrence models.Occurrence) (result *models.Metric, err error) {
	ctx, span := s.start(ctx, "edit_occurrence", id)
	defer func() { s.finish(span, "edit_occurrence", err) }()
	span.SetAttributes(attribute.Int("occurrence.index", index))

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(current.Occurrences) {
		return nil, ErrInvalidIndex
	}

	if occurrence.IsObject() && !occurrence.HasDateKey() {
		occurrence, err = occurrence.WithDateFrom(current.Occurrences[index])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOccurrence, err)
		}
	}
	if !s.validator.ValidateOccurrence(current, occurrence) {
		return nil, ErrInvalidOccurrence
	}

	current.Occurrences[index] = occurrence.Clone()
	updated, err := s.replace(ctx, id, current)
	if err != nil {
		return nil, err
	}

	s.logger.Info("occurrence_updated",
		zap.String("id", id),
		zap.Int("index", index),
	)
	return updated, nil
}

// Delete removes the metric; deleting a missing id succeeds
func (s *Service) Delete(ctx context.Context, id string) (err error) {
	ctx, span := s.start(ctx, "delete", id)
	defer func() { s.finish(span, "delete", err) }()

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete metric: %w", err)
	}
	s.logger.Info("metric_deleted", zap.String("id", logger.SanitizeID(id)))
	return nil
}

// Get returns the metric for id, or nil when there is none
func (s *Service) Get(ctx context.Context, id string) (result *models.Metric, err error) {
	ctx, span := s.start(ctx, "get", id)
	defer func() { s.finish(span, "get", err) }()

	metric, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get metric: %w", err)
	}
	return metric, nil
}

// List returns every metric in index order. An index entry whose record is
// missing yields a nil slot at its position.
func (s *Service) List(ctx context.Context) (result []*models.Metric, err error) {
	ctx, span := s.start(ctx, "list", "")
	defer func() { s.finish(span, "list", err) }()

	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}

	metrics := make([]*models.Metric, len(entries))
	for i, entry := range entries {
		metric, err := s.store.Get(ctx, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load metric %s: %w", entry.ID, err)
		}
		if metric == nil {
			s.logger.Warn("metric_record_missing", zap.String("id", entry.ID))
		}
		metrics[i] = metric
	}
	span.SetAttributes(attribute.Int("metric.count", len(metrics)))
	return metrics, nil
}

// AuditReport lists stored metrics that no longer satisfy their type
type AuditReport struct {
	Checked int                  `json:"checked" yaml:"checked"`
	Invalid []models.MetricEntry `json:"invalid" yaml:"invalid"`
	Missing []models.MetricEntry `json:"missing" yaml:"missing"`
}

// OK reports whether every indexed metric exists and is valid
func (r *AuditReport) OK() bool {
	return len(r.Invalid) == 0 && len(r.Missing) == 0
}

// Audit re-validates every stored metric together with its full history
func (s *Service) Audit(ctx context.Context) (result *AuditReport, err error) {
	ctx, span := s.start(ctx, "audit", "")
	defer func() { s.finish(span, "audit", err) }()

	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}

	report := &AuditReport{
		Invalid: []models.MetricEntry{},
		Missing: []models.MetricEntry{},
	}
	for _, entry := range entries {
		metric, err := s.store.Get(ctx, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load metric %s: %w", entry.ID, err)
		}
		report.Checked++
		switch {
		case metric == nil:
			report.Missing = append(report.Missing, entry)
		case !s.validator.ValidateMetric(metric):
			report.Invalid = append(report.Invalid, entry)
		}
	}

	s.logger.Info("metrics_audited",
		zap.Int("checked", report.Checked),
		zap.Int("invalid", len(report.Invalid)),
		zap.Int("missing", len(report.Missing)),
	)
	return report, nil
}

func (s *Service) checkMetric(metric *models.Metric) error {
	if !s.validator.Catalog().Known(metric.Type) {
		return ErrInvalidType
	}
	if !s.validator.ValidateMetric(metric) {
		return ErrInvalidMetric
	}
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*models.Metric, error) {
	metric, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get metric: %w", err)
	}
	if metric == nil {
		return nil, ErrNotFound
	}
	return metric, nil
}

func (s *Service) replace(ctx context.Context, id string, metric *models.Metric) (*models.Metric, error) {
	updated, err := s.store.Replace(ctx, id, metric)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save metric: %w", err)
	}
	return updated, nil
}

func (s *Service) start(ctx context.Context, op, id string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "tracker."+op)
	if id != "" {
		span.SetAttributes(attribute.String("metric.id", id))
	}
	return ctx, span
}

func (s *Service) finish(span trace.Span, op string, err error) {
	outcome := outcomeOf(err)
	if err != nil && outcome == OutcomeError {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("outcome", outcome))
	span.End()

	if s.ops != nil {
		s.ops.WithLabelValues(op, outcome).Inc()
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case IsValidationError(err):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
