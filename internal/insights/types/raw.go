package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexString decodes upstream JSON fields that arrive as string, number,
// boolean, or null. Booleans keep their "true"/"false" representation so
// categorical channel flags stay usable as map keys.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = FlexString(strconv.FormatBool(b))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	return fmt.Errorf("unsupported value %s", string(data))
}

func (f FlexString) String() string {
	return string(f)
}

// RawSeriesPoint is one as-received point. Primary carries the numeric
// payload; Secondary carries the series key (a date for time-series metrics,
// a category label or channel flag for categorical metrics).
type RawSeriesPoint struct {
	Primary   FlexString `json:"primary"`
	Secondary FlexString `json:"secondary"`
}

// RawSeriesGroup is one upstream grouping of points for a metric.
type RawSeriesGroup struct {
	GroupID string           `json:"group_id"`
	Points  []RawSeriesPoint `json:"points"`
}

// RawMetricPayload is the as-received shape for one metric and one entity.
// Exactly one of ScalarValue and SeriesValues is expected to be populated;
// which one is legitimate follows from the metric's category.
type RawMetricPayload struct {
	MetricID     string           `json:"metric_id"`
	ScalarValue  *FlexString      `json:"scalar_value"`
	SeriesValues []RawSeriesGroup `json:"series_values"`
	EntityID     string           `json:"entity_id"`
}

// RawResponse is the upstream analytics response, already deserialized from
// the wire.
type RawResponse struct {
	Metrics []RawMetricPayload `json:"metrics"`
}

// PayloadsFor returns the payloads belonging to the given metric identifier.
func (r RawResponse) PayloadsFor(metricID string) []RawMetricPayload {
	var out []RawMetricPayload
	for _, p := range r.Metrics {
		if p.MetricID == metricID {
			out = append(out, p)
		}
	}
	return out
}
