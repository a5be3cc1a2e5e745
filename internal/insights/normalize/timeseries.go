package normalize

import (
	"fmt"
	"time"

	"github.com/merchantpulse/dashboard-api/internal/insights/parse"
	"github.com/merchantpulse/dashboard-api/internal/insights/types"
	"github.com/merchantpulse/dashboard-api/pkg/enums"
)

// maxPlausibleSpanDays flags series stretching further than two years as a
// data-quality concern. It is a warning, not a hard failure.
const maxPlausibleSpanDays = 730

// Stats accumulates non-fatal diagnostics from a normalization pass.
type Stats struct {
	DroppedPoints int
	Warnings      []string
}

func (s *Stats) warnf(format string, args ...any) {
	s.Warnings = append(s.Warnings, fmt.Sprintf(format, args...))
}

// TimeSeries flattens all series groups of the given payloads into a single
// date→value map. Points whose date or value fails to parse are dropped, not
// zeroed. Duplicate dates across payloads or groups resolve last write wins.
// A scalar value on a time-series payload is dropped with a warning; there is
// no date to attach it to.
func TimeSeries(payloads []types.RawMetricPayload) (types.DateMap, Stats) {
	out := types.DateMap{}
	var stats Stats

	for _, payload := range payloads {
		if payload.ScalarValue != nil {
			stats.warnf("metric %s entity %s: scalar value on time-series payload dropped", payload.MetricID, payload.EntityID)
		}
		for _, group := range payload.SeriesValues {
			for _, point := range group.Points {
				date, ok := parse.Date(point.Secondary.String())
				if !ok {
					stats.DroppedPoints++
					continue
				}
				value, ok := parse.Number(point.Primary.String())
				if !ok {
					stats.DroppedPoints++
					continue
				}
				out[date] = value
			}
		}
	}
	if stats.DroppedPoints > 0 {
		stats.warnf("dropped %d unparsable series points", stats.DroppedPoints)
	}
	return out, stats
}

// AggregateByPeriod re-buckets a daily date map. Values within a bucket are
// summed; the underlying metrics are additive counts and amounts, so summation
// is the only correct fold. Daily input is returned as a copy. Keys that do
// not parse as ISO dates are carried over unchanged.
func AggregateByPeriod(m types.DateMap, period enums.Period) types.DateMap {
	out := make(types.DateMap, len(m))
	if period == enums.PeriodDaily {
		for k, v := range m {
			out[k] = v
		}
		return out
	}
	for key, value := range m {
		t, err := time.Parse(types.ISODate, key)
		if err != nil {
			out[key] = value
			continue
		}
		out[bucketKey(t, period)] += value
	}
	return out
}

func bucketKey(t time.Time, period enums.Period) string {
	switch period {
	case enums.PeriodWeekly:
		// ISO week starts Monday.
		offset := (int(t.Weekday()) + 6) % 7
		return t.AddDate(0, 0, -offset).Format(types.ISODate)
	case enums.PeriodMonthly:
		return t.Format("2006-01")
	case enums.PeriodQuarterly:
		quarter := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("%d-Q%d", t.Year(), quarter)
	case enums.PeriodYearly:
		return t.Format("2006")
	default:
		return t.Format(types.ISODate)
	}
}

// FillMissingDates returns a new map with one entry per calendar day in the
// inclusive range. Existing entries are preserved; missing days get fill.
func FillMissingDates(m types.DateMap, dateRange types.DateRange, fill float64) (types.DateMap, error) {
	start, end, err := dateRange.Times()
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s before start %s", dateRange.End, dateRange.Start)
	}

	out := types.DateMap{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(types.ISODate)
		if value, ok := m[key]; ok {
			out[key] = value
		} else {
			out[key] = fill
		}
	}
	return out, nil
}

// MovingAverage computes a trailing arithmetic mean over the date-sorted
// values. Output is keyed from index window-1 onward; no partial windows are
// emitted at the start. A window larger than the series yields an empty map.
func MovingAverage(m types.DateMap, window int) types.DateMap {
	out := types.DateMap{}
	if window <= 0 {
		return out
	}
	keys := m.SortedKeys()
	if len(keys) < window {
		return out
	}

	var sum float64
	for i, key := range keys {
		sum += m[key]
		if i >= window {
			sum -= m[keys[i-window]]
		}
		if i >= window-1 {
			out[key] = sum / float64(window)
		}
	}
	return out
}

// ValidateSeries returns human-readable warnings for structural concerns that
// should not block consumption: an empty series and an implausibly long date
// span.
func ValidateSeries(m types.DateMap) []string {
	var warnings []string
	if len(m) == 0 {
		warnings = append(warnings, "series contains no data points")
		return warnings
	}

	keys := m.SortedKeys()
	first, errFirst := time.Parse(types.ISODate, keys[0])
	last, errLast := time.Parse(types.ISODate, keys[len(keys)-1])
	if errFirst == nil && errLast == nil {
		span := int(last.Sub(first).Hours() / 24)
		if span > maxPlausibleSpanDays {
			warnings = append(warnings, fmt.Sprintf("series spans %d days, exceeding the plausible maximum of %d", span, maxPlausibleSpanDays))
		}
	}
	return warnings
}
