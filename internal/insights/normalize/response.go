// Package normalize turns heterogeneous raw metric payloads into the uniform
// model consumed by charts and metric cards. It is pure computation: no I/O,
// no shared state, and diagnostics flow back through return values instead of
// a process-wide logger.
package normalize

import (
	"fmt"

	"github.com/merchantpulse/dashboard-api/internal/insights/schema"
	"github.com/merchantpulse/dashboard-api/internal/insights/types"
	"github.com/merchantpulse/dashboard-api/pkg/enums"
	"go.uber.org/multierr"
)

// MetricError records a fatal per-metric failure. One metric failing never
// aborts normalization of the others.
type MetricError struct {
	MetricID string
	Err      error
}

// Result carries the normalized metrics plus the side channels: per-metric
// classification errors and non-fatal validation warnings.
type Result struct {
	Metrics  []types.NormalizedMetric
	Errors   []MetricError
	Warnings []string

	// DroppedPoints counts series points discarded because a value or date
	// failed to parse, across all metrics in the pass.
	DroppedPoints int
}

// Err combines the per-metric errors into a single error for logging, or nil
// when every requested metric normalized.
func (r Result) Err() error {
	var errs []error
	for _, me := range r.Errors {
		errs = append(errs, fmt.Errorf("metric %s: %w", me.MetricID, me.Err))
	}
	return multierr.Combine(errs...)
}

// Response normalizes the raw upstream response for the requested metric
// identifiers. Each metric is classified, its payloads partitioned by entity,
// and each entity bucket dispatched to the normalizer matching the metric's
// category. A metric requested but absent from the response yields a
// NormalizedMetric with no entities; absence is distinguished from
// malformation.
func Response(resp types.RawResponse, requestedMetricIDs []string) Result {
	var result Result

	for _, metricID := range requestedMetricIDs {
		category, err := schema.Classify(metricID)
		if err != nil {
			result.Errors = append(result.Errors, MetricError{MetricID: metricID, Err: err})
			continue
		}

		metric := types.NormalizedMetric{MetricID: metricID, Category: category}
		buckets, warnings := partitionByEntity(resp.PayloadsFor(metricID))
		result.Warnings = append(result.Warnings, warnings...)

		for _, entity := range []enums.Entity{enums.EntityMerchant, enums.EntityCompetitor} {
			payloads := buckets[entity]
			if len(payloads) == 0 {
				continue
			}
			container, stats := normalizeBucket(category, payloads)
			result.Warnings = append(result.Warnings, stats.Warnings...)
			result.DroppedPoints += stats.DroppedPoints
			for _, w := range validateContainer(category, container) {
				result.Warnings = append(result.Warnings, fmt.Sprintf("metric %s entity %s: %s", metricID, entity, w))
			}
			metric.SetEntity(entity, &types.EntityPeriodData{Current: container})
		}

		if metric.Merchant == nil && metric.Competitor == nil && len(resp.PayloadsFor(metricID)) > 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("metric %s: payloads present but no recognizable entity data", metricID))
		}
		result.Metrics = append(result.Metrics, metric)
	}
	return result
}

func partitionByEntity(payloads []types.RawMetricPayload) (map[enums.Entity][]types.RawMetricPayload, []string) {
	buckets := map[enums.Entity][]types.RawMetricPayload{}
	var warnings []string
	for _, payload := range payloads {
		entity, err := enums.ParseEntity(payload.EntityID)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("metric %s: payload for unknown entity %q dropped", payload.MetricID, payload.EntityID))
			continue
		}
		buckets[entity] = append(buckets[entity], payload)
	}
	return buckets, warnings
}

func normalizeBucket(category enums.MetricCategory, payloads []types.RawMetricPayload) (*types.ValueContainer, Stats) {
	switch category {
	case enums.MetricCategoryScalar:
		value, stats := Scalar(payloads)
		return &types.ValueContainer{Scalar: value}, stats
	case enums.MetricCategoryTimeSeries:
		series, stats := TimeSeries(payloads)
		return &types.ValueContainer{Series: series}, stats
	case enums.MetricCategoryCategorical:
		categories, stats := Categorical(payloads)
		return &types.ValueContainer{Categories: categories}, stats
	default:
		return &types.ValueContainer{}, Stats{}
	}
}

func validateContainer(category enums.MetricCategory, container *types.ValueContainer) []string {
	switch category {
	case enums.MetricCategoryScalar:
		if container.Scalar == nil {
			return []string{"missing current-period data"}
		}
	case enums.MetricCategoryTimeSeries:
		return ValidateSeries(container.Series)
	case enums.MetricCategoryCategorical:
		return ValidateCategories(container.Categories)
	}
	return nil
}
