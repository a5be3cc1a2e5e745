package insights

import (
	"context"
	"testing"

	"github.com/merchantpulse/dashboard-api/internal/insights/filters"
	"github.com/merchantpulse/dashboard-api/internal/insights/types"
	"github.com/merchantpulse/dashboard-api/pkg/config"
	"github.com/merchantpulse/dashboard-api/pkg/enums"
	pkgerrors "github.com/merchantpulse/dashboard-api/pkg/errors"
	"github.com/merchantpulse/dashboard-api/pkg/logger"
	"github.com/merchantpulse/dashboard-api/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	requests  []FetchRequest
	responses map[types.DateRange]*types.RawResponse
	err       error
}

func (f *fakeFetcher) FetchMetrics(_ context.Context, req FetchRequest) (*types.RawResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if resp, ok := f.responses[req.Range]; ok {
		return resp, nil
	}
	return &types.RawResponse{}, nil
}

func newTestService(t *testing.T, fetcher RawFetcher, pipeline config.PipelineConfig) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	pipeMetr := metrics.NewPipelineMetrics(prometheus.NewRegistry())
	svc, err := NewService(fetcher, "prov-1", pipeline, pipeMetr, logg)
	require.NoError(t, err)
	return svc
}

func rawSeries(metricID, entityID string, points map[string]string) types.RawMetricPayload {
	group := types.RawSeriesGroup{GroupID: "g1"}
	for date, value := range points {
		group.Points = append(group.Points, types.RawSeriesPoint{
			Primary:   types.FlexString(value),
			Secondary: types.FlexString(date),
		})
	}
	return types.RawMetricPayload{MetricID: metricID, EntityID: entityID, SeriesValues: []types.RawSeriesGroup{group}}
}

func TestNewServiceValidatesArgs(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})

	_, err := NewService(nil, "prov-1", config.PipelineConfig{}, nil, logg)
	require.Error(t, err)

	_, err = NewService(&fakeFetcher{}, "", config.PipelineConfig{}, nil, logg)
	require.Error(t, err)

	_, err = NewService(&fakeFetcher{}, "prov-1", config.PipelineConfig{}, nil, nil)
	require.Error(t, err)
}

func TestDashboardMetricsFillsAndAggregates(t *testing.T) {
	currentRange := types.DateRange{Start: "2025-01-01", End: "2025-01-05"}
	fetcher := &fakeFetcher{responses: map[types.DateRange]*types.RawResponse{
		currentRange: {Metrics: []types.RawMetricPayload{
			rawSeries("revenue_per_day", "merchant", map[string]string{
				"2025-01-02": "10",
				"2025-01-04": "20",
			}),
		}},
	}}
	svc := newTestService(t, fetcher, config.PipelineConfig{FillGaps: true, MovingAverageWindow: 7})

	result, err := svc.DashboardMetrics(context.Background(), Request{
		MetricIDs: []string{"revenue_per_day"},
		Context:   enums.ViewContextRevenue,
		Range:     currentRange,
	})
	require.NoError(t, err)
	require.Len(t, result.Metrics, 1)

	series := result.Metrics[0].Merchant.Current.Series
	assert.Len(t, series, 5)
	assert.Equal(t, 0.0, series["2025-01-01"])
	assert.Equal(t, 10.0, series["2025-01-02"])
	assert.Equal(t, 20.0, series["2025-01-04"])
}

func TestDashboardMetricsMonthlyAggregation(t *testing.T) {
	currentRange := types.DateRange{Start: "2025-01-01", End: "2025-02-28"}
	fetcher := &fakeFetcher{responses: map[types.DateRange]*types.RawResponse{
		currentRange: {Metrics: []types.RawMetricPayload{
			rawSeries("revenue_per_day", "merchant", map[string]string{
				"2025-01-10": "10",
				"2025-01-20": "20",
				"2025-02-05": "5",
			}),
		}},
	}}
	svc := newTestService(t, fetcher, config.PipelineConfig{FillGaps: true})

	result, err := svc.DashboardMetrics(context.Background(), Request{
		MetricIDs: []string{"revenue_per_day"},
		Context:   enums.ViewContextRevenue,
		Range:     currentRange,
		Period:    enums.PeriodMonthly,
	})
	require.NoError(t, err)

	series := result.Metrics[0].Merchant.Current.Series
	assert.Equal(t, types.DateMap{"2025-01": 30, "2025-02": 5}, series)
}

func TestDashboardMetricsYoY(t *testing.T) {
	currentRange := types.DateRange{Start: "2025-01-01", End: "2025-01-03"}
	previousRange := types.DateRange{Start: "2024-01-01", End: "2024-01-03"}
	fetcher := &fakeFetcher{responses: map[types.DateRange]*types.RawResponse{
		currentRange: {Metrics: []types.RawMetricPayload{
			rawSeries("revenue_per_day", "merchant", map[string]string{"2025-01-02": "10"}),
		}},
		previousRange: {Metrics: []types.RawMetricPayload{
			rawSeries("revenue_per_day", "merchant", map[string]string{"2024-01-02": "7"}),
		}},
	}}
	svc := newTestService(t, fetcher, config.PipelineConfig{})

	result, err := svc.DashboardMetrics(context.Background(), Request{
		MetricIDs:  []string{"revenue_per_day"},
		Context:    enums.ViewContextRevenue,
		Range:      currentRange,
		CompareYoY: true,
	})
	require.NoError(t, err)

	require.Len(t, fetcher.requests, 2)
	assert.Equal(t, previousRange, fetcher.requests[1].Range)

	data := result.Metrics[0].Merchant
	assert.Equal(t, 10.0, data.Current.Series["2025-01-02"])
	assert.Equal(t, 7.0, data.Previous.Series["2024-01-02"])
}

func TestDashboardMetricsSmoothing(t *testing.T) {
	currentRange := types.DateRange{Start: "2025-01-01", End: "2025-01-05"}
	fetcher := &fakeFetcher{responses: map[types.DateRange]*types.RawResponse{
		currentRange: {Metrics: []types.RawMetricPayload{
			rawSeries("revenue_per_day", "merchant", map[string]string{
				"2025-01-01": "1",
				"2025-01-02": "2",
				"2025-01-03": "3",
				"2025-01-04": "4",
				"2025-01-05": "5",
			}),
		}},
	}}
	svc := newTestService(t, fetcher, config.PipelineConfig{FillGaps: true, MovingAverageWindow: 3})

	result, err := svc.DashboardMetrics(context.Background(), Request{
		MetricIDs:    []string{"revenue_per_day"},
		Context:      enums.ViewContextRevenue,
		Range:        currentRange,
		SmoothSeries: true,
	})
	require.NoError(t, err)

	smoothed, ok := result.MovingAverages["revenue_per_day:merchant"]
	require.True(t, ok)
	assert.Len(t, smoothed, 3)
	assert.InDelta(t, 4.0, smoothed["2025-01-05"], 1e-9)
}

func TestDashboardMetricsSendsResolvedFilters(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := newTestService(t, fetcher, config.PipelineConfig{})

	_, err := svc.DashboardMetrics(context.Background(), Request{
		MetricIDs: []string{"revenue_by_channel"},
		Context:   enums.ViewContextChannels,
		Range:     types.DateRange{Start: "2025-01-01", End: "2025-01-31"},
	})
	require.NoError(t, err)

	require.Len(t, fetcher.requests, 1)
	assert.Equal(t, []filters.RequestFilter{
		{ProviderID: "prov-1", FilterID: "channel_scope", Value: "online"},
	}, fetcher.requests[0].Filters)
}

func TestDashboardMetricsRejectsInvalidFilterValue(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := newTestService(t, fetcher, config.PipelineConfig{})

	_, err := svc.DashboardMetrics(context.Background(), Request{
		MetricIDs:       []string{"revenue_by_channel"},
		Context:         enums.ViewContextChannels,
		Range:           types.DateRange{Start: "2025-01-01", End: "2025-01-31"},
		FilterOverrides: map[string]string{"channel_scope": "offline"},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Empty(t, fetcher.requests, "invalid filter must block the upstream request")
}

func TestDashboardMetricsRequestValidation(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := newTestService(t, fetcher, config.PipelineConfig{})
	validRange := types.DateRange{Start: "2025-01-01", End: "2025-01-31"}

	tests := []struct {
		name string
		req  Request
	}{
		{"no metric ids", Request{Context: enums.ViewContextOverview, Range: validRange}},
		{"invalid context", Request{MetricIDs: []string{"total_revenue"}, Context: "sideways", Range: validRange}},
		{"inverted range", Request{MetricIDs: []string{"total_revenue"}, Context: enums.ViewContextOverview, Range: types.DateRange{Start: "2025-02-01", End: "2025-01-01"}}},
		{"invalid period", Request{MetricIDs: []string{"total_revenue"}, Context: enums.ViewContextOverview, Range: validRange, Period: "hourly"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.DashboardMetrics(context.Background(), tc.req)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestDashboardMetricsReportsPerMetricFailures(t *testing.T) {
	currentRange := types.DateRange{Start: "2025-01-01", End: "2025-01-03"}
	fetcher := &fakeFetcher{responses: map[types.DateRange]*types.RawResponse{
		currentRange: {Metrics: []types.RawMetricPayload{
			rawSeries("revenue_per_day", "merchant", map[string]string{"2025-01-02": "10"}),
		}},
	}}
	svc := newTestService(t, fetcher, config.PipelineConfig{})

	result, err := svc.DashboardMetrics(context.Background(), Request{
		MetricIDs: []string{"nonexistent_metric", "revenue_per_day"},
		Context:   enums.ViewContextOverview,
		Range:     currentRange,
	})
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "nonexistent_metric", result.Errors[0].MetricID)
	require.Len(t, result.Metrics, 1)
	assert.Equal(t, "revenue_per_day", result.Metrics[0].MetricID)
}

func TestDashboardMetricsPropagatesFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: pkgerrors.New(pkgerrors.CodeDependency, "upstream unavailable")}
	svc := newTestService(t, fetcher, config.PipelineConfig{})

	_, err := svc.DashboardMetrics(context.Background(), Request{
		MetricIDs: []string{"total_revenue"},
		Context:   enums.ViewContextOverview,
		Range:     types.DateRange{Start: "2025-01-01", End: "2025-01-31"},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}
