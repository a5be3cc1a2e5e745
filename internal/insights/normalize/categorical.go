package normalize

import (
	"github.com/merchantpulse/dashboard-api/internal/insights/parse"
	"github.com/merchantpulse/dashboard-api/internal/insights/types"
)

// Categorical flattens all series groups of the given payloads into a
// label→value map, preserving first-seen label order. Boolean channel flags
// arrive already coerced to "true"/"false" by the wire type. Points with an
// empty label or an unparsable value are dropped. Duplicate labels resolve
// last write wins, keeping the label's original position.
func Categorical(payloads []types.RawMetricPayload) (*types.CategoryMap, Stats) {
	out := types.NewCategoryMap()
	var stats Stats

	for _, payload := range payloads {
		if payload.ScalarValue != nil {
			stats.warnf("metric %s entity %s: scalar value on categorical payload dropped", payload.MetricID, payload.EntityID)
		}
		for _, group := range payload.SeriesValues {
			for _, point := range group.Points {
				label := point.Secondary.String()
				if label == "" {
					stats.DroppedPoints++
					continue
				}
				value, ok := parse.Number(point.Primary.String())
				if !ok {
					stats.DroppedPoints++
					continue
				}
				out.Set(label, value)
			}
		}
	}
	if stats.DroppedPoints > 0 {
		stats.warnf("dropped %d unparsable categorical points", stats.DroppedPoints)
	}
	return out, stats
}

// ValidateCategories returns warnings for an empty category map.
func ValidateCategories(m *types.CategoryMap) []string {
	if m.Len() == 0 {
		return []string{"categorical data contains no labels"}
	}
	return nil
}
