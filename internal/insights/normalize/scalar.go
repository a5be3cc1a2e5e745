package normalize

import (
	"github.com/merchantpulse/dashboard-api/internal/insights/parse"
	"github.com/merchantpulse/dashboard-api/internal/insights/types"
)

// Scalar extracts the single numeric value from the given payloads. The first
// payload carrying a parseable scalar wins; an unparsable scalar is dropped
// with a warning rather than zeroed.
func Scalar(payloads []types.RawMetricPayload) (*float64, Stats) {
	var stats Stats
	for _, payload := range payloads {
		if payload.ScalarValue == nil {
			continue
		}
		value, ok := parse.Number(payload.ScalarValue.String())
		if !ok {
			stats.warnf("metric %s entity %s: unparsable scalar value %q dropped", payload.MetricID, payload.EntityID, payload.ScalarValue.String())
			continue
		}
		return &value, stats
	}
	return nil, stats
}
