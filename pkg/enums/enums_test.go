package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	got, err := ParsePeriod("weekly")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeekly, got)

	got, err = ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodDaily, got)

	_, err = ParsePeriod("hourly")
	require.Error(t, err)
	assert.False(t, Period("hourly").IsValid())
}

func TestParseViewContext(t *testing.T) {
	for _, value := range []string{"overview", "revenue", "customers", "demographics", "channels"} {
		got, err := ParseViewContext(value)
		require.NoError(t, err, value)
		assert.True(t, got.IsValid())
	}

	_, err := ParseViewContext("sideways")
	require.Error(t, err)
}

func TestParseEntity(t *testing.T) {
	got, err := ParseEntity("merchant")
	require.NoError(t, err)
	assert.Equal(t, EntityMerchant, got)

	got, err = ParseEntity("competitor")
	require.NoError(t, err)
	assert.Equal(t, EntityCompetitor, got)

	_, err = ParseEntity("aggregate")
	require.Error(t, err)
}

func TestParseMetricCategory(t *testing.T) {
	got, err := ParseMetricCategory("time_series")
	require.NoError(t, err)
	assert.Equal(t, MetricCategoryTimeSeries, got)

	_, err = ParseMetricCategory("tabular")
	require.Error(t, err)
}
