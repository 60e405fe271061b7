package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/benvon/metric-tracker/internal/models"
	"github.com/tidwall/gjson"
)

var errNotObject = errors.New("occurrence must be a JSON object")

// Kinds returns every supported metric kind
func Kinds() []Kind {
	return []Kind{
		musicPracticeKind,
		workoutKind,
		choresKind,
		personalProjectKind,
		positiveKind,
		negativeKind,
		passiveKind,
	}
}

// kindInfo carries the static catalog data shared by every kind
type kindInfo struct {
	info KindInfo
}

func (k kindInfo) Type() models.MetricType { return k.info.Type }

func (k kindInfo) Info() KindInfo {
	info := k.info
	info.Fields = append([]string{}, k.info.Fields...)
	info.OccurrenceFields = append([]string{}, k.info.OccurrenceFields...)
	return info
}

// no type-specific fields by default
func (kindInfo) checkFields(*models.Metric) error { return nil }

// decodeShape decodes payload into the shape T and applies its struct tag rules
func decodeShape[T any](payload models.Occurrence) (*T, error) {
	if !payload.IsObject() {
		return nil, errNotObject
	}
	var shape T
	if err := checkKeyCase(gjson.ParseBytes(payload), reflect.TypeOf(shape)); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &shape); err != nil {
		return nil, fmt.Errorf("malformed occurrence: %w", err)
	}
	if err := Validate.Struct(&shape); err != nil {
		return nil, err
	}
	return &shape, nil
}

// checkKeyCase rejects object keys that match a field of typ only when case is ignored
func checkKeyCase(value gjson.Result, typ reflect.Type) error {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	switch {
	case typ.Kind() == reflect.Slice && value.IsArray():
		for i, elem := range value.Array() {
			if err := checkKeyCase(elem, typ.Elem()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil
	case typ.Kind() != reflect.Struct || !value.IsObject():
		return nil
	}

	fields := make(map[string]reflect.StructField, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fields[strings.ToLower(name)] = f
	}

	var err error
	value.ForEach(func(key, v gjson.Result) bool {
		f, ok := fields[strings.ToLower(key.String())]
		if !ok {
			return true
		}
		if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != key.String() {
			err = fmt.Errorf("field %q must be spelled %q", key.String(), name)
			return false
		}
		if nested := checkKeyCase(v, f.Type); nested != nil {
			err = fmt.Errorf("%s: %w", key.String(), nested)
			return false
		}
		return true
	})
	return err
}

type musicPractice struct{ kindInfo }

var musicPracticeKind = musicPractice{kindInfo{KindInfo{
	Type:             models.MetricTypeMusicPractice,
	Description:      "Music practice sessions split into optional activity slots",
	Fields:           []string{},
	OccurrenceFields: []string{"date", "jamming", "learningNewSongs", "techniquePractice", "playByEar"},
}}}

func (musicPractice) checkOccurrence(_ *models.Metric, payload models.Occurrence) error {
	_, err := decodeShape[models.MusicPracticeOccurrence](payload)
	return err
}

type workout struct{ kindInfo }

var workoutKind = workout{kindInfo{KindInfo{
	Type:             models.MetricTypeWorkout,
	Description:      "Workouts made of strength, cardio or sport exercises",
	Fields:           []string{},
	OccurrenceFields: []string{"date", "exercises"},
}}}

func (workout) checkOccurrence(_ *models.Metric, payload models.Occurrence) error {
	_, err := decodeShape[models.WorkoutOccurrence](payload)
	return err
}

type chores struct{ kindInfo }

var choresKind = chores{kindInfo{KindInfo{
	Type:             models.MetricTypeChores,
	Description:      "Household chores with a declared frequency",
	Fields:           []string{"chores"},
	OccurrenceFields: []string{"date", "choreName"},
}}}

func (chores) checkFields(metric *models.Metric) error {
	if len(metric.Chores) == 0 {
		return errors.New("chores metric requires at least one chore definition")
	}
	for i := range metric.Chores {
		if err := Validate.Struct(&metric.Chores[i]); err != nil {
			return fmt.Errorf("chore %d: %w", i, err)
		}
	}
	return nil
}

// checkOccurrence requires choreName to name one of the metric's declared chores
func (chores) checkOccurrence(metric *models.Metric, payload models.Occurrence) error {
	occ, err := decodeShape[models.ChoreOccurrence](payload)
	if err != nil {
		return err
	}
	for _, c := range metric.Chores {
		if c.Name == occ.ChoreName {
			return nil
		}
	}
	return fmt.Errorf("unknown chore %q", occ.ChoreName)
}

type personalProject struct{ kindInfo }

var personalProjectKind = personalProject{kindInfo{KindInfo{
	Type:             models.MetricTypePersonalProject,
	Description:      "Time spent on named personal projects",
	Fields:           []string{"projects"},
	OccurrenceFields: []string{"date", "projectName", "timeSpent"},
}}}

func (personalProject) checkFields(metric *models.Metric) error {
	if err := Validate.Var(metric.Projects, "required,min=1,dive,required"); err != nil {
		return fmt.Errorf("projects: %w", err)
	}
	return nil
}

func (personalProject) checkOccurrence(_ *models.Metric, payload models.Occurrence) error {
	_, err := decodeShape[models.ProjectOccurrence](payload)
	return err
}

type positive struct{ kindInfo }

var positiveKind = positive{kindInfo{KindInfo{
	Type:             models.MetricTypePositive,
	Description:      "Positive habits broken into a tree of sub-metrics",
	Fields:           []string{"subMetrics"},
	OccurrenceFields: []string{"date", "completedSubMetrics"},
}}}

func (positive) checkFields(metric *models.Metric) error {
	if len(metric.SubMetrics) == 0 {
		return errors.New("positive metric requires at least one sub-metric")
	}
	for i := range metric.SubMetrics {
		if err := Validate.Struct(&metric.SubMetrics[i]); err != nil {
			return fmt.Errorf("sub-metric %d: %w", i, err)
		}
	}
	return nil
}

// checkOccurrence requires every completed sub-metric to be declared somewhere in the metric's tree
func (positive) checkOccurrence(metric *models.Metric, payload models.Occurrence) error {
	occ, err := decodeShape[models.PositiveOccurrence](payload)
	if err != nil {
		return err
	}
	declared := make(map[string]struct{})
	collectSubMetricNames(metric.SubMetrics, declared)
	completed := make(map[string]struct{})
	collectSubMetricNames(occ.CompletedSubMetrics, completed)
	for name := range completed {
		if _, ok := declared[name]; !ok {
			return fmt.Errorf("unknown sub-metric %q", name)
		}
	}
	return nil
}

func collectSubMetricNames(nodes []models.SubMetric, into map[string]struct{}) {
	for _, n := range nodes {
		into[n.Name] = struct{}{}
		collectSubMetricNames(n.SubMetrics, into)
	}
}

type negative struct{ kindInfo }

var negativeKind = negative{kindInfo{KindInfo{
	Type:             models.MetricTypeNegative,
	Description:      "Generic counter for habits to avoid",
	Fields:           []string{},
	OccurrenceFields: []string{"date", "count"},
}}}

func (negative) checkOccurrence(_ *models.Metric, payload models.Occurrence) error {
	_, err := decodeShape[models.NegativeOccurrence](payload)
	return err
}

type passive struct{ kindInfo }

var passiveKind = passive{kindInfo{KindInfo{
	Type:             models.MetricTypePassive,
	Description:      "Generic passively observed value",
	Fields:           []string{},
	OccurrenceFields: []string{"date", "value"},
}}}

func (passive) checkOccurrence(_ *models.Metric, payload models.Occurrence) error {
	_, err := decodeShape[models.PassiveOccurrence](payload)
	return err
}

// generic is the fallback for types without a catalog entry; it is never registered
type generic struct{ kindInfo }

var genericKind = generic{kindInfo{KindInfo{
	Description:      "Any occurrence carrying a date",
	Fields:           []string{},
	OccurrenceFields: []string{"date"},
}}}

func (generic) checkOccurrence(_ *models.Metric, payload models.Occurrence) error {
	_, err := decodeShape[models.BaseOccurrence](payload)
	return err
}
