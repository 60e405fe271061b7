package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const auditTimeout = 2 * time.Minute

// Auditable produces an audit report over stored metrics
type Auditable interface {
	Audit(ctx context.Context) (*AuditReport, error)
}

// Auditor re-validates stored metrics on a fixed interval.
type Auditor struct {
	target   Auditable
	interval time.Duration
	logger   *zap.Logger
	problems *prometheus.GaugeVec
}

// NewAuditor creates an auditor. problems may be nil; when set it receives the
// invalid and missing counts of the last run under the "kind" label.
func NewAuditor(target Auditable, interval time.Duration, log *zap.Logger, problems *prometheus.GaugeVec) *Auditor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Auditor{target: target, interval: interval, logger: log, problems: problems}
}

// Start runs the audit loop until ctx is cancelled.
func (a *Auditor) Start(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := a.runOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("scheduled_audit_failed", zap.Error(err))
			}
		}
	}
}

func (a *Auditor) runOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, auditTimeout)
	defer cancel()

	report, err := a.target.Audit(ctx)
	if err != nil {
		return err
	}
	if a.problems != nil {
		a.problems.WithLabelValues("invalid").Set(float64(len(report.Invalid)))
		a.problems.WithLabelValues("missing").Set(float64(len(report.Missing)))
	}
	if !report.OK() {
		for _, entry := range report.Invalid {
			a.logger.Warn("stored_metric_invalid", zap.String("id", entry.ID), zap.String("type", string(entry.Type)))
		}
		for _, entry := range report.Missing {
			a.logger.Warn("stored_metric_missing", zap.String("id", entry.ID))
		}
	}
	return nil
}
