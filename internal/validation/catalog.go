package validation

import (
	"fmt"

	"github.com/benvon/metric-tracker/internal/models"
)

// Kind is one variant of the metric type union. Each kind knows the
// type-specific fields it requires on a metric and the occurrence shape it accepts.
// The unexported methods keep the set of kinds closed to this package.
type Kind interface {
	// Type returns the metric type tag the kind handles
	Type() models.MetricType
	// Info returns the catalog description of the kind
	Info() KindInfo

	checkFields(metric *models.Metric) error
	checkOccurrence(metric *models.Metric, payload models.Occurrence) error
}

// KindInfo describes a metric type for listings
type KindInfo struct {
	Type             models.MetricType `json:"type" yaml:"type"`
	Description      string            `json:"description" yaml:"description"`
	Fields           []string          `json:"fields" yaml:"fields"`
	OccurrenceFields []string          `json:"occurrence_fields" yaml:"occurrence_fields"`
}

// Catalog is an immutable registry of metric kinds keyed by type tag
type Catalog struct {
	kinds map[models.MetricType]Kind
	order []models.MetricType
}

// NewCatalog builds a catalog from the given kinds, rejecting duplicate type tags
func NewCatalog(kinds ...Kind) (Catalog, error) {
	c := Catalog{kinds: make(map[models.MetricType]Kind, len(kinds))}
	for _, k := range kinds {
		if _, exists := c.kinds[k.Type()]; exists {
			return Catalog{}, fmt.Errorf("duplicate metric kind: %s", k.Type())
		}
		c.kinds[k.Type()] = k
		c.order = append(c.order, k.Type())
	}
	return c, nil
}

// DefaultCatalog returns a catalog holding every supported metric kind
func DefaultCatalog() Catalog {
	c, err := NewCatalog(Kinds()...)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the kind registered for t
func (c Catalog) Lookup(t models.MetricType) (Kind, bool) {
	k, ok := c.kinds[t]
	return k, ok
}

// Known reports whether t has a catalog entry
func (c Catalog) Known(t models.MetricType) bool {
	_, ok := c.kinds[t]
	return ok
}

// Types returns the registered type tags in registration order
func (c Catalog) Types() []models.MetricType {
	return append([]models.MetricType(nil), c.order...)
}

// Describe returns the info of every registered kind in registration order
func (c Catalog) Describe() []KindInfo {
	infos := make([]KindInfo, 0, len(c.order))
	for _, t := range c.order {
		infos = append(infos, c.kinds[t].Info())
	}
	return infos
}
