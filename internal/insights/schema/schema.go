// Package schema is the single point of truth for metric classification.
// Every metric identifier used anywhere in the dashboard must appear in the
// table below; adding a new metric means adding it here first.
package schema

import (
	"fmt"

	"github.com/merchantpulse/dashboard-api/pkg/enums"
	pkgerrors "github.com/merchantpulse/dashboard-api/pkg/errors"
)

var categoryByMetricID = map[string]enums.MetricCategory{
	// time-series metrics: one value per calendar date
	"revenue_per_day":             enums.MetricCategoryTimeSeries,
	"transactions_per_day":        enums.MetricCategoryTimeSeries,
	"new_customers_per_day":       enums.MetricCategoryTimeSeries,
	"returning_customers_per_day": enums.MetricCategoryTimeSeries,
	"avg_transaction_per_day":     enums.MetricCategoryTimeSeries,

	// scalar metrics: one value per entity and period
	"total_revenue":         enums.MetricCategoryScalar,
	"total_transactions":    enums.MetricCategoryScalar,
	"avg_transaction_value": enums.MetricCategoryScalar,
	"total_customers":       enums.MetricCategoryScalar,
	"conversion_rate":       enums.MetricCategoryScalar,

	// categorical metrics: one value per discrete label
	"customers_by_age":                enums.MetricCategoryCategorical,
	"customers_by_gender":             enums.MetricCategoryCategorical,
	"revenue_by_channel":              enums.MetricCategoryCategorical,
	"converted_customers_by_interest": enums.MetricCategoryCategorical,
}

var validFilterIDs = map[string]struct{}{
	"interest_type": {},
	"channel_scope": {},
}

// Classify resolves a metric identifier to its category. Unknown identifiers
// are a classification error, never a silent default.
func Classify(metricID string) (enums.MetricCategory, error) {
	category, ok := categoryByMetricID[metricID]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeClassification, fmt.Sprintf("unknown metric identifier %q", metricID))
	}
	return category, nil
}

// IsValidFilterID reports whether the identifier names a known filter.
func IsValidFilterID(filterID string) bool {
	_, ok := validFilterIDs[filterID]
	return ok
}

// MetricIDs returns every identifier in the schema table. Order is undefined.
func MetricIDs() []string {
	ids := make([]string, 0, len(categoryByMetricID))
	for id := range categoryByMetricID {
		ids = append(ids, id)
	}
	return ids
}
