// Package insights orchestrates the metric normalization pipeline for the
// dashboard: it resolves filters, fetches raw payloads through a transport
// collaborator, normalizes current and previous-year passes, and applies the
// configured post-processing.
package insights

import (
	"context"
	"fmt"

	"github.com/merchantpulse/dashboard-api/internal/insights/filters"
	"github.com/merchantpulse/dashboard-api/internal/insights/normalize"
	"github.com/merchantpulse/dashboard-api/internal/insights/types"
	"github.com/merchantpulse/dashboard-api/internal/insights/yoy"
	"github.com/merchantpulse/dashboard-api/pkg/config"
	"github.com/merchantpulse/dashboard-api/pkg/enums"
	pkgerrors "github.com/merchantpulse/dashboard-api/pkg/errors"
	"github.com/merchantpulse/dashboard-api/pkg/logger"
	"github.com/merchantpulse/dashboard-api/pkg/metrics"
)

// FetchRequest describes one upstream fetch: which metrics, for which range,
// with which filter triples.
type FetchRequest struct {
	MetricIDs []string
	Range     types.DateRange
	Filters   []filters.RequestFilter
}

// RawFetcher is the transport collaborator that delivers a complete raw
// response or an explicit fetch failure. The pipeline itself performs no I/O.
type RawFetcher interface {
	FetchMetrics(ctx context.Context, req FetchRequest) (*types.RawResponse, error)
}

// Request is one dashboard data request.
type Request struct {
	MetricIDs       []string
	Context         enums.ViewContext
	Range           types.DateRange
	Period          enums.Period
	CompareYoY      bool
	SmoothSeries    bool
	FilterOverrides map[string]string
}

// MetricFailure is the wire form of a fatal per-metric error.
type MetricFailure struct {
	MetricID string `json:"metric_id"`
	Message  string `json:"message"`
}

// DashboardResult is the assembled response for one dashboard request.
type DashboardResult struct {
	Metrics []types.NormalizedMetric `json:"metrics"`

	// MovingAverages holds smoothed series keyed "metricID:entity", present
	// only when smoothing was requested.
	MovingAverages map[string]types.DateMap `json:"moving_averages,omitempty"`

	Errors   []MetricFailure `json:"errors,omitempty"`
	Warnings []string        `json:"-"`
}

// Service provides normalized dashboard metrics.
type Service interface {
	DashboardMetrics(ctx context.Context, req Request) (*DashboardResult, error)
}

type service struct {
	fetcher    RawFetcher
	providerID string
	pipeline   config.PipelineConfig
	pipeMetr   *metrics.PipelineMetrics
	logg       *logger.Logger
}

// NewService builds the dashboard insights service.
func NewService(fetcher RawFetcher, providerID string, pipeline config.PipelineConfig, pipeMetr *metrics.PipelineMetrics, logg *logger.Logger) (Service, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("raw fetcher required")
	}
	if providerID == "" {
		return nil, fmt.Errorf("provider id required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		fetcher:    fetcher,
		providerID: providerID,
		pipeline:   pipeline,
		pipeMetr:   pipeMetr,
		logg:       logg,
	}, nil
}

func (s *service) DashboardMetrics(ctx context.Context, req Request) (*DashboardResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// Filter validation blocks the outgoing request; a bad value is never
	// silently replaced with a default.
	for _, metricID := range req.MetricIDs {
		if err := filters.Validate(metricID, req.FilterOverrides); err != nil {
			return nil, err
		}
	}

	requestFilters := s.buildRequestFilters(req)

	current, err := s.fetchAndNormalize(ctx, req.MetricIDs, req.Range, requestFilters)
	if err != nil {
		return nil, err
	}

	merged := current.Metrics
	warnings := current.Warnings
	if req.CompareYoY {
		prevRange, err := yoy.PreviousYearRange(req.Range)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date range")
		}
		previous, err := s.fetchAndNormalize(ctx, req.MetricIDs, prevRange, requestFilters)
		if err != nil {
			return nil, err
		}
		merged = yoy.Merge(current.Metrics, previous.Metrics)
		for _, w := range previous.Warnings {
			warnings = append(warnings, "previous period: "+w)
		}
	}

	result := &DashboardResult{
		Metrics:  merged,
		Warnings: warnings,
	}
	s.postProcess(req, result)

	for _, me := range current.Errors {
		result.Errors = append(result.Errors, MetricFailure{MetricID: me.MetricID, Message: me.Err.Error()})
	}
	s.observe(ctx, current, result)
	return result, nil
}

func validateRequest(req Request) error {
	if len(req.MetricIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one metric id required")
	}
	if !req.Context.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid view context %q", req.Context))
	}
	if err := req.Range.Validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date range")
	}
	if req.Period != "" && !req.Period.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid period %q", req.Period))
	}
	return nil
}

func (s *service) buildRequestFilters(req Request) []filters.RequestFilter {
	var out []filters.RequestFilter
	for _, metricID := range req.MetricIDs {
		out = append(out, filters.RequestFilters(s.providerID, metricID, req.Context, req.FilterOverrides)...)
	}
	return out
}

func (s *service) fetchAndNormalize(ctx context.Context, metricIDs []string, dateRange types.DateRange, requestFilters []filters.RequestFilter) (normalize.Result, error) {
	raw, err := s.fetcher.FetchMetrics(ctx, FetchRequest{
		MetricIDs: metricIDs,
		Range:     dateRange,
		Filters:   requestFilters,
	})
	if err != nil {
		return normalize.Result{}, err
	}
	return normalize.Response(*raw, metricIDs), nil
}

// postProcess applies gap filling, period aggregation, and smoothing to every
// time-series container. Gap filling only applies to daily output; coarser
// buckets have no per-day gaps to fill.
func (s *service) postProcess(req Request, result *DashboardResult) {
	period := req.Period
	if period == "" {
		period = enums.PeriodDaily
	}

	for i := range result.Metrics {
		metric := &result.Metrics[i]
		if metric.Category != enums.MetricCategoryTimeSeries {
			continue
		}
		for _, entity := range []enums.Entity{enums.EntityMerchant, enums.EntityCompetitor} {
			data := metric.Entity(entity)
			if data == nil {
				continue
			}
			if data.Current != nil && data.Current.Series != nil {
				data.Current.Series = s.processSeries(data.Current.Series, req.Range, period)
				if req.SmoothSeries && period == enums.PeriodDaily {
					if result.MovingAverages == nil {
						result.MovingAverages = map[string]types.DateMap{}
					}
					key := fmt.Sprintf("%s:%s", metric.MetricID, entity)
					result.MovingAverages[key] = normalize.MovingAverage(data.Current.Series, s.pipeline.MovingAverageWindow)
				}
			}
			if data.Previous != nil && data.Previous.Series != nil {
				data.Previous.Series = normalize.AggregateByPeriod(data.Previous.Series, period)
			}
		}
	}
}

func (s *service) processSeries(series types.DateMap, dateRange types.DateRange, period enums.Period) types.DateMap {
	if s.pipeline.FillGaps && period == enums.PeriodDaily {
		if filled, err := normalize.FillMissingDates(series, dateRange, 0); err == nil {
			series = filled
		}
	}
	return normalize.AggregateByPeriod(series, period)
}

func (s *service) observe(ctx context.Context, pass normalize.Result, result *DashboardResult) {
	for _, metric := range result.Metrics {
		s.pipeMetr.IncNormalized(string(metric.Category))
	}
	s.pipeMetr.IncClassificationErrors(len(pass.Errors))
	s.pipeMetr.IncDroppedPoints(pass.DroppedPoints)
	s.pipeMetr.IncWarnings(len(result.Warnings))

	if err := pass.Err(); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "some metrics failed classification")
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"metrics":  len(result.Metrics),
		"warnings": len(result.Warnings),
		"dropped":  pass.DroppedPoints,
	})
	s.logg.Info(ctx, "dashboard metrics normalized")
}
