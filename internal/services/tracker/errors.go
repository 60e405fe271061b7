package tracker

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMetric indicates a metric failed structural validation
	ErrInvalidMetric = errors.New("invalid metric")
	// ErrInvalidType indicates the metric type has no catalog entry; it also matches ErrInvalidMetric
	ErrInvalidType = fmt.Errorf("%w: unknown metric type", ErrInvalidMetric)
	// ErrInvalidOccurrence indicates an occurrence failed validation for the metric's type
	ErrInvalidOccurrence = errors.New("invalid occurrence")
	// ErrInvalidIndex indicates an occurrence index outside the history
	ErrInvalidIndex = errors.New("occurrence index out of range")
	// ErrNotFound indicates there is no metric for the given id
	ErrNotFound = errors.New("metric not found")
)

// IsValidationError reports whether err is a caller error rather than a storage fault
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidMetric) ||
		errors.Is(err, ErrInvalidOccurrence) ||
		errors.Is(err, ErrInvalidIndex)
}
