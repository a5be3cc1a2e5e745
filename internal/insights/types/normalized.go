package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/merchantpulse/dashboard-api/pkg/enums"
)

// DateMap holds one value per ISO YYYY-MM-DD date (or per period bucket key
// after aggregation). Insertion order is irrelevant; keys are re-sorted on
// read.
type DateMap map[string]float64

// SortedKeys returns the map keys in ascending order.
func (d DateMap) SortedKeys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CategoryMap holds one value per category label, preserving first-seen label
// order. That order drives the default display order in consuming charts.
type CategoryMap struct {
	labels []string
	values map[string]float64
}

func NewCategoryMap() *CategoryMap {
	return &CategoryMap{values: map[string]float64{}}
}

// Set stores the value for the label. New labels append to the order; known
// labels keep their position and overwrite the value.
func (c *CategoryMap) Set(label string, value float64) {
	if c.values == nil {
		c.values = map[string]float64{}
	}
	if _, seen := c.values[label]; !seen {
		c.labels = append(c.labels, label)
	}
	c.values[label] = value
}

// Get returns the value for the label.
func (c *CategoryMap) Get(label string) (float64, bool) {
	if c == nil || c.values == nil {
		return 0, false
	}
	v, ok := c.values[label]
	return v, ok
}

// Labels returns the labels in first-seen order.
func (c *CategoryMap) Labels() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Len returns the number of labels.
func (c *CategoryMap) Len() int {
	if c == nil {
		return 0
	}
	return len(c.labels)
}

// MarshalJSON writes a JSON object whose keys keep first-seen label order.
func (c *CategoryMap) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range c.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(c.values[label])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a CategoryMap from a JSON object, preserving the key
// order as it appears in the document.
func (c *CategoryMap) UnmarshalJSON(data []byte) error {
	c.labels = nil
	c.values = map[string]float64{}

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("category map: unexpected key token %v", keyTok)
		}
		var value float64
		if err := dec.Decode(&value); err != nil {
			return err
		}
		c.Set(label, value)
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return err
	}
	return nil
}

// ValueContainer is the normalized value for one entity and one period. The
// populated variant follows from the metric's category, fixed at
// classification time: Scalar for scalar metrics, Series for time-series,
// Categories for categorical.
type ValueContainer struct {
	Scalar     *float64     `json:"scalar,omitempty"`
	Series     DateMap      `json:"series,omitempty"`
	Categories *CategoryMap `json:"categories,omitempty"`
}

// EntityPeriodData pairs the current-period container with its optional
// year-over-year counterpart. A missing Previous means "no comparison data",
// which is distinct from a comparison of zero.
type EntityPeriodData struct {
	Current  *ValueContainer `json:"current,omitempty"`
	Previous *ValueContainer `json:"previous,omitempty"`
}

// NormalizedMetric is the uniform output unit consumed by charts and metric
// cards. At least one of Merchant/Competitor is populated.
type NormalizedMetric struct {
	MetricID   string               `json:"metric_id"`
	Category   enums.MetricCategory `json:"category"`
	Merchant   *EntityPeriodData    `json:"merchant,omitempty"`
	Competitor *EntityPeriodData    `json:"competitor,omitempty"`
}

// Entity returns the period data for the given entity, or nil.
func (m *NormalizedMetric) Entity(entity enums.Entity) *EntityPeriodData {
	switch entity {
	case enums.EntityMerchant:
		return m.Merchant
	case enums.EntityCompetitor:
		return m.Competitor
	default:
		return nil
	}
}

// SetEntity stores the period data for the given entity.
func (m *NormalizedMetric) SetEntity(entity enums.Entity, data *EntityPeriodData) {
	switch entity {
	case enums.EntityMerchant:
		m.Merchant = data
	case enums.EntityCompetitor:
		m.Competitor = data
	}
}
