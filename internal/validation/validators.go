package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/benvon/metric-tracker/internal/models"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	// Validate is a shared validator instance for struct tag rules
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("exercise_category", validateExerciseCategory); err != nil {
		panic(fmt.Sprintf("failed to register exercise_category validator: %v", err))
	}
	Validate.RegisterStructValidation(exerciseStructLevel, models.Exercise{})
}

// validateExerciseCategory validates that a string is a valid ExerciseCategory enum value
func validateExerciseCategory(fl validator.FieldLevel) bool {
	return ValidateExerciseCategory(fl.Field().String()) == nil
}

// exerciseStructLevel requires at least one set on strength exercises
func exerciseStructLevel(sl validator.StructLevel) {
	ex, ok := sl.Current().Interface().(models.Exercise)
	if !ok {
		return
	}
	if ex.Category == models.ExerciseCategoryStrength && len(ex.Sets) == 0 {
		sl.ReportError(ex.Sets, "Sets", "sets", "strength_sets", "")
	}
}

// ValidateExerciseCategory validates an ExerciseCategory string value
func ValidateExerciseCategory(value string) error {
	switch models.ExerciseCategory(value) {
	case models.ExerciseCategoryStrength, models.ExerciseCategoryCardio, models.ExerciseCategorySport:
		return nil
	default:
		return fmt.Errorf("invalid category: %s (must be 'strength', 'cardio', or 'sport')", value)
	}
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// Validator decides structural validity of metrics and occurrences against a catalog.
// It never returns errors: every rejection is a false result, with the reason logged at debug level.
type Validator struct {
	catalog Catalog
	logger  *zap.Logger
}

// NewValidator creates a validator over the given catalog
func NewValidator(catalog Catalog, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{catalog: catalog, logger: logger}
}

// Catalog returns the catalog the validator dispatches on
func (v *Validator) Catalog() Catalog {
	return v.catalog
}

// ValidateOccurrence reports whether payload is a valid occurrence for the metric's type.
// Types without a catalog entry only require a date.
func (v *Validator) ValidateOccurrence(metric *models.Metric, payload models.Occurrence) bool {
	if metric == nil {
		return false
	}
	kind, ok := v.catalog.Lookup(metric.Type)
	if !ok {
		kind = genericKind
	}
	if err := kind.checkOccurrence(metric, payload); err != nil {
		v.logger.Debug("occurrence_rejected",
			zap.String("type", string(metric.Type)),
			zap.Error(err),
		)
		return false
	}
	return true
}

// ValidateMetric reports whether the metric has a known type, valid type-specific
// fields and an occurrence history that is entirely valid for that type.
func (v *Validator) ValidateMetric(metric *models.Metric) bool {
	if metric == nil {
		return false
	}
	if err := v.checkMetric(metric); err != nil {
		v.logger.Debug("metric_rejected",
			zap.String("type", string(metric.Type)),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (v *Validator) checkMetric(metric *models.Metric) error {
	kind, ok := v.catalog.Lookup(metric.Type)
	if !ok {
		return fmt.Errorf("unknown metric type %q", metric.Type)
	}
	if err := Validate.Struct(metric); err != nil {
		return err
	}
	if err := kind.checkFields(metric); err != nil {
		return err
	}
	if metric.Occurrences == nil {
		return fmt.Errorf("occurrences are required")
	}
	for i, occ := range metric.Occurrences {
		if err := kind.checkOccurrence(metric, occ); err != nil {
			return fmt.Errorf("occurrence %d: %w", i, err)
		}
	}
	return nil
}
