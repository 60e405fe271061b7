package models

// MetricType selects which occurrence shape and type-specific fields apply to a metric
type MetricType string

const (
	MetricTypeMusicPractice   MetricType = "music_practice"
	MetricTypeWorkout         MetricType = "workout"
	MetricTypeChores          MetricType = "chores"
	MetricTypePersonalProject MetricType = "personal_project"
	MetricTypePositive        MetricType = "positive"
	MetricTypeNegative        MetricType = "negative"
	MetricTypePassive         MetricType = "passive"
)

// Metric is a named, typed tracker with its history of occurrences.
// Only the type-specific fields matching Type are meaningful.
type Metric struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name" validate:"required,max=200"`
	Type        MetricType   `json:"type"`
	Occurrences []Occurrence `json:"occurrences"`

	Chores     []ChoreDefinition `json:"chores,omitempty"`
	Projects   []string          `json:"projects,omitempty"`
	SubMetrics []SubMetric       `json:"subMetrics,omitempty"`
}

// Entry returns the index projection of the metric
func (m *Metric) Entry() MetricEntry {
	return MetricEntry{ID: m.ID, Name: m.Name, Type: m.Type}
}

// Clone returns a deep copy so callers can mutate the result without touching m
func (m *Metric) Clone() *Metric {
	if m == nil {
		return nil
	}
	c := *m
	if m.Occurrences != nil {
		c.Occurrences = make([]Occurrence, len(m.Occurrences))
		for i, occ := range m.Occurrences {
			c.Occurrences[i] = occ.Clone()
		}
	}
	if m.Chores != nil {
		c.Chores = append([]ChoreDefinition{}, m.Chores...)
	}
	if m.Projects != nil {
		c.Projects = append([]string{}, m.Projects...)
	}
	if m.SubMetrics != nil {
		c.SubMetrics = cloneSubMetrics(m.SubMetrics)
	}
	return &c
}

// MetricEntry is the lightweight projection of a Metric kept in the listing index
type MetricEntry struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Type MetricType `json:"type"`
}

// ChoreDefinition declares a chore a chores metric tracks
type ChoreDefinition struct {
	Name      string `json:"name" validate:"required"`
	Frequency string `json:"frequency" validate:"required"` // e.g. "daily", "weekly", "monthly"
}

// SubMetric is a node in a positive metric's goal tree
type SubMetric struct {
	Name       string      `json:"name" validate:"required"`
	SubMetrics []SubMetric `json:"subMetrics,omitempty" validate:"omitempty,dive"`
}

func cloneSubMetrics(in []SubMetric) []SubMetric {
	out := make([]SubMetric, len(in))
	for i, s := range in {
		out[i] = SubMetric{Name: s.Name}
		if s.SubMetrics != nil {
			out[i].SubMetrics = cloneSubMetrics(s.SubMetrics)
		}
	}
	return out
}
