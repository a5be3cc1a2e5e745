package normalize

import (
	"testing"

	"github.com/merchantpulse/dashboard-api/internal/insights/types"
	"github.com/merchantpulse/dashboard-api/pkg/enums"
	pkgerrors "github.com/merchantpulse/dashboard-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseNormalizesMixedCategories(t *testing.T) {
	scalar := types.FlexString("4200")
	resp := types.RawResponse{Metrics: []types.RawMetricPayload{
		seriesPayload("revenue_per_day", "merchant", point("100.50", "01/15/2025")),
		seriesPayload("revenue_per_day", "competitor", point("90", "2025-01-15")),
		{MetricID: "total_revenue", EntityID: "merchant", ScalarValue: &scalar},
		seriesPayload("customers_by_age", "merchant", point("10", "25-34"), point("5", "18-24")),
	}}

	result := Response(resp, []string{"revenue_per_day", "total_revenue", "customers_by_age"})
	require.Empty(t, result.Errors)
	require.Len(t, result.Metrics, 3)

	series := result.Metrics[0]
	assert.Equal(t, enums.MetricCategoryTimeSeries, series.Category)
	require.NotNil(t, series.Merchant)
	assert.Equal(t, 100.5, series.Merchant.Current.Series["2025-01-15"])
	require.NotNil(t, series.Competitor)
	assert.Equal(t, 90.0, series.Competitor.Current.Series["2025-01-15"])

	total := result.Metrics[1]
	assert.Equal(t, enums.MetricCategoryScalar, total.Category)
	require.NotNil(t, total.Merchant)
	require.NotNil(t, total.Merchant.Current.Scalar)
	assert.Equal(t, 4200.0, *total.Merchant.Current.Scalar)
	assert.Nil(t, total.Competitor)

	byAge := result.Metrics[2]
	assert.Equal(t, enums.MetricCategoryCategorical, byAge.Category)
	require.NotNil(t, byAge.Merchant)
	assert.Equal(t, []string{"25-34", "18-24"}, byAge.Merchant.Current.Categories.Labels())
}

func TestResponseUnknownMetricDoesNotBlockOthers(t *testing.T) {
	resp := types.RawResponse{Metrics: []types.RawMetricPayload{
		seriesPayload("revenue_per_day", "merchant", point("1", "2025-01-01")),
	}}

	result := Response(resp, []string{"nonexistent_metric", "revenue_per_day"})
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "nonexistent_metric", result.Errors[0].MetricID)
	assert.Equal(t, pkgerrors.CodeClassification, pkgerrors.As(result.Errors[0].Err).Code())

	require.Len(t, result.Metrics, 1)
	assert.Equal(t, "revenue_per_day", result.Metrics[0].MetricID)
	require.Error(t, result.Err())
	assert.Contains(t, result.Err().Error(), "nonexistent_metric")
}

func TestResponseAbsentMetricHasNoEntities(t *testing.T) {
	result := Response(types.RawResponse{}, []string{"total_revenue"})
	require.Empty(t, result.Errors)
	require.Len(t, result.Metrics, 1)
	assert.Nil(t, result.Metrics[0].Merchant)
	assert.Nil(t, result.Metrics[0].Competitor)
	assert.Empty(t, result.Warnings)
}

func TestResponseDropsUnknownEntities(t *testing.T) {
	resp := types.RawResponse{Metrics: []types.RawMetricPayload{
		seriesPayload("revenue_per_day", "aggregate", point("1", "2025-01-01")),
	}}

	result := Response(resp, []string{"revenue_per_day"})
	require.Len(t, result.Metrics, 1)
	assert.Nil(t, result.Metrics[0].Merchant)

	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], `unknown entity "aggregate"`)
	assert.Contains(t, result.Warnings[1], "no recognizable entity data")
}

func TestResponseCountsDroppedPoints(t *testing.T) {
	resp := types.RawResponse{Metrics: []types.RawMetricPayload{
		seriesPayload("revenue_per_day", "merchant",
			point("1", "2025-01-01"),
			point("bad", "2025-01-02"),
		),
		seriesPayload("customers_by_age", "merchant", point("bad", "18-24")),
	}}

	result := Response(resp, []string{"revenue_per_day", "customers_by_age"})
	assert.Equal(t, 2, result.DroppedPoints)
}
