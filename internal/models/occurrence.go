package models

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Occurrence is one dated record of activity against a metric.
// Its shape depends on the metric type, so it is kept as the raw JSON object
// and decoded into one of the typed shapes below when validated.
type Occurrence []byte

// MarshalJSON returns o as the raw JSON encoding
func (o Occurrence) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	return o, nil
}

// UnmarshalJSON stores a copy of data
func (o *Occurrence) UnmarshalJSON(data []byte) error {
	if o == nil {
		return fmt.Errorf("models.Occurrence: UnmarshalJSON on nil pointer")
	}
	*o = append((*o)[0:0], data...)
	return nil
}

// Clone returns a copy of the raw bytes
func (o Occurrence) Clone() Occurrence {
	if o == nil {
		return nil
	}
	return append(Occurrence{}, o...)
}

// IsObject reports whether the payload is a JSON object
func (o Occurrence) IsObject() bool {
	return gjson.ParseBytes(o).IsObject()
}

// HasDate reports whether the payload carries a non-null date field
func (o Occurrence) HasDate() bool {
	r := gjson.GetBytes(o, "date")
	return r.Exists() && r.Type != gjson.Null
}

// HasDateKey reports whether the payload has a date field at all, null included
func (o Occurrence) HasDateKey() bool {
	return gjson.GetBytes(o, "date").Exists()
}

// WithDate returns a copy of o with date set to t
func (o Occurrence) WithDate(t time.Time) (Occurrence, error) {
	out, err := sjson.SetBytes(o.Clone(), "date", t.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("failed to set occurrence date: %w", err)
	}
	return out, nil
}

// WithDateFrom returns a copy of o carrying the raw date value of src
func (o Occurrence) WithDateFrom(src Occurrence) (Occurrence, error) {
	r := gjson.GetBytes(src, "date")
	if !r.Exists() {
		return o.Clone(), nil
	}
	out, err := sjson.SetRawBytes(o.Clone(), "date", []byte(r.Raw))
	if err != nil {
		return nil, fmt.Errorf("failed to copy occurrence date: %w", err)
	}
	return out, nil
}

// ExerciseCategory classifies a workout exercise
type ExerciseCategory string

const (
	ExerciseCategoryStrength ExerciseCategory = "strength"
	ExerciseCategoryCardio   ExerciseCategory = "cardio"
	ExerciseCategorySport    ExerciseCategory = "sport"
)

// BaseOccurrence is the shape every occurrence satisfies
type BaseOccurrence struct {
	Date *time.Time `json:"date" validate:"required"`
}

// PracticeActivity is one of the optional music practice slots
type PracticeActivity struct {
	Songs     []string   `json:"songs" validate:"required,min=1"`
	Date      *time.Time `json:"date" validate:"required"`
	TimeSpent *float64   `json:"timeSpent" validate:"required,gte=0"`
}

// MusicPracticeOccurrence records a practice session
type MusicPracticeOccurrence struct {
	Date              *time.Time        `json:"date" validate:"required"`
	Jamming           *PracticeActivity `json:"jamming,omitempty" validate:"omitempty"`
	LearningNewSongs  *PracticeActivity `json:"learningNewSongs,omitempty" validate:"omitempty"`
	TechniquePractice *PracticeActivity `json:"techniquePractice,omitempty" validate:"omitempty"`
	PlayByEar         *PracticeActivity `json:"playByEar,omitempty" validate:"omitempty"`
}

// ExerciseSet is one set of a strength exercise
type ExerciseSet struct {
	Weight *float64 `json:"weight" validate:"required"`
	Reps   *float64 `json:"reps" validate:"required"`
}

// Exercise is one exercise within a workout
type Exercise struct {
	Name      string           `json:"name" validate:"required"`
	Category  ExerciseCategory `json:"category" validate:"required,exercise_category"`
	TimeSpent *float64         `json:"timeSpent" validate:"required,gte=0"`
	Sets      []ExerciseSet    `json:"sets,omitempty" validate:"omitempty,dive"` // required for strength
}

// WorkoutOccurrence records a workout session
type WorkoutOccurrence struct {
	Date      *time.Time `json:"date" validate:"required"`
	Exercises []Exercise `json:"exercises" validate:"required,dive"`
}

// ChoreOccurrence records a completed chore
type ChoreOccurrence struct {
	Date      *time.Time `json:"date" validate:"required"`
	ChoreName string     `json:"choreName" validate:"required"`
}

// ProjectOccurrence records time spent on a personal project
type ProjectOccurrence struct {
	Date        *time.Time `json:"date" validate:"required"`
	ProjectName string     `json:"projectName" validate:"required"`
	TimeSpent   *float64   `json:"timeSpent" validate:"required,gt=0"` // minutes
}

// PositiveOccurrence records which sub-metrics were completed
type PositiveOccurrence struct {
	Date                *time.Time  `json:"date" validate:"required"`
	CompletedSubMetrics []SubMetric `json:"completedSubMetrics" validate:"required,min=1,dive"`
}

// NegativeOccurrence records a counted lapse
type NegativeOccurrence struct {
	Date  *time.Time `json:"date" validate:"required"`
	Count *float64   `json:"count,omitempty"`
}

// PassiveOccurrence records a passively observed value
type PassiveOccurrence struct {
	Date  *time.Time `json:"date" validate:"required"`
	Value *float64   `json:"value,omitempty"`
}
