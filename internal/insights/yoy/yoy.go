// Package yoy aligns a current-range normalization pass with its
// previous-year counterpart.
package yoy

import (
	"github.com/merchantpulse/dashboard-api/internal/insights/types"
	"github.com/merchantpulse/dashboard-api/pkg/enums"
)

// PreviousYearRange subtracts exactly one calendar year from both endpoints,
// preserving month and day-of-month. Feb 29 therefore normalizes per Go date
// arithmetic (2024-02-29 minus one year is 2023-03-01); it does not subtract
// 365 days.
func PreviousYearRange(r types.DateRange) (types.DateRange, error) {
	start, end, err := r.Times()
	if err != nil {
		return types.DateRange{}, err
	}
	return types.DateRange{
		Start: start.AddDate(-1, 0, 0).Format(types.ISODate),
		End:   end.AddDate(-1, 0, 0).Format(types.ISODate),
	}, nil
}

// Merge pairs each metric/entity of the current pass with its previous-pass
// counterpart. A value present in only one pass yields a partial
// EntityPeriodData: the missing side stays nil, never zero, so callers can
// tell "no comparison data" from "comparison is zero". Metrics only present
// in the previous pass are appended after the current ones.
func Merge(current, previous []types.NormalizedMetric) []types.NormalizedMetric {
	previousByID := make(map[string]types.NormalizedMetric, len(previous))
	for _, m := range previous {
		previousByID[m.MetricID] = m
	}

	out := make([]types.NormalizedMetric, 0, len(current))
	seen := make(map[string]struct{}, len(current))

	for _, cur := range current {
		merged := types.NormalizedMetric{MetricID: cur.MetricID, Category: cur.Category}
		prev, hasPrev := previousByID[cur.MetricID]

		for _, entity := range entityOrder {
			curData := cur.Entity(entity)
			var prevContainer *types.ValueContainer
			if hasPrev {
				if prevData := prev.Entity(entity); prevData != nil {
					prevContainer = prevData.Current
				}
			}

			switch {
			case curData != nil:
				merged.SetEntity(entity, &types.EntityPeriodData{
					Current:  curData.Current,
					Previous: prevContainer,
				})
			case prevContainer != nil:
				merged.SetEntity(entity, &types.EntityPeriodData{Previous: prevContainer})
			}
		}
		out = append(out, merged)
		seen[cur.MetricID] = struct{}{}
	}

	for _, prev := range previous {
		if _, ok := seen[prev.MetricID]; ok {
			continue
		}
		merged := types.NormalizedMetric{MetricID: prev.MetricID, Category: prev.Category}
		for _, entity := range entityOrder {
			if prevData := prev.Entity(entity); prevData != nil && prevData.Current != nil {
				merged.SetEntity(entity, &types.EntityPeriodData{Previous: prevData.Current})
			}
		}
		out = append(out, merged)
	}
	return out
}

var entityOrder = []enums.Entity{enums.EntityMerchant, enums.EntityCompetitor}
