package validation

import (
	"testing"

	"github.com/benvon/metric-tracker/internal/models"
	"go.uber.org/zap"
)

func TestDefaultCatalog_CoversEveryType(t *testing.T) {
	t.Parallel()

	all := []models.MetricType{
		models.MetricTypeMusicPractice,
		models.MetricTypeWorkout,
		models.MetricTypeChores,
		models.MetricTypePersonalProject,
		models.MetricTypePositive,
		models.MetricTypeNegative,
		models.MetricTypePassive,
	}

	c := DefaultCatalog()
	if got := len(c.Types()); got != len(all) {
		t.Errorf("Expected %d kinds, got %d", len(all), got)
	}
	for _, typ := range all {
		k, ok := c.Lookup(typ)
		if !ok {
			t.Errorf("Expected catalog entry for %s", typ)
			continue
		}
		if k.Type() != typ {
			t.Errorf("Lookup(%s) returned kind for %s", typ, k.Type())
		}
		if !c.Known(typ) {
			t.Errorf("Known(%s) = false", typ)
		}
	}
	if c.Known(models.MetricType("guitar")) {
		t.Error("Expected legacy tag to be unknown")
	}
}

func TestCatalog_RequiredFields(t *testing.T) {
	t.Parallel()

	want := map[models.MetricType][]string{
		models.MetricTypeChores:          {"chores"},
		models.MetricTypePersonalProject: {"projects"},
		models.MetricTypePositive:        {"subMetrics"},
		models.MetricTypeWorkout:         {},
	}

	c := DefaultCatalog()
	for typ, fields := range want {
		k, _ := c.Lookup(typ)
		got := k.Info().Fields
		if len(got) != len(fields) {
			t.Errorf("%s fields = %v, want %v", typ, got, fields)
			continue
		}
		for i := range fields {
			if got[i] != fields[i] {
				t.Errorf("%s fields = %v, want %v", typ, got, fields)
			}
		}
	}
}

func TestCatalog_Immutable(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	types := c.Types()
	types[0] = models.MetricType("tampered")
	if c.Types()[0] == "tampered" {
		t.Error("Types() exposes internal order slice")
	}

	infos := c.Describe()
	infos[0].OccurrenceFields[0] = "tampered"
	if c.Describe()[0].OccurrenceFields[0] == "tampered" {
		t.Error("Describe() exposes internal field slices")
	}
}

func TestNewCatalog_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	if _, err := NewCatalog(workoutKind, choresKind, workoutKind); err == nil {
		t.Error("Expected duplicate kinds to be rejected")
	}
}

func TestValidator_InjectedCatalog(t *testing.T) {
	t.Parallel()

	// A catalog without the chores kind treats chores as unknown.
	c, err := NewCatalog(workoutKind)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	v := NewValidator(c, zap.NewNop())

	m := choresMetric()
	if v.ValidateMetric(m) {
		t.Error("Expected metric of a type missing from the catalog to be invalid")
	}
	// Occurrences for such a type fall back to the date-only rule.
	if !v.ValidateOccurrence(m, occ(`{"date":`+testDate+`,"choreName":"anything"}`)) {
		t.Error("Expected date-only fallback for a type missing from the catalog")
	}
	if v.Catalog().Known(models.MetricTypeChores) {
		t.Error("Expected Catalog() to return the injected catalog")
	}
}
