package normalize

import (
	"testing"

	"github.com/merchantpulse/dashboard-api/internal/insights/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scalarPayload(metricID, entityID, value string) types.RawMetricPayload {
	v := types.FlexString(value)
	return types.RawMetricPayload{MetricID: metricID, EntityID: entityID, ScalarValue: &v}
}

func TestScalarFirstParseableWins(t *testing.T) {
	payloads := []types.RawMetricPayload{
		scalarPayload("total_revenue", "merchant", "not a number"),
		scalarPayload("total_revenue", "merchant", "€1,234.00"),
		scalarPayload("total_revenue", "merchant", "999"),
	}

	got, stats := Scalar(payloads)
	require.NotNil(t, got)
	assert.Equal(t, 1234.0, *got)
	require.Len(t, stats.Warnings, 1)
	assert.Contains(t, stats.Warnings[0], "unparsable scalar")
}

func TestScalarAbsentStaysNil(t *testing.T) {
	got, stats := Scalar([]types.RawMetricPayload{seriesPayload("total_revenue", "merchant", point("1", "2025-01-01"))})
	assert.Nil(t, got)
	assert.Empty(t, stats.Warnings)
}
