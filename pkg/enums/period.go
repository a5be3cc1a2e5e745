package enums

import "fmt"

// Period selects the bucket size for time-series aggregation.
type Period string

const (
	PeriodDaily     Period = "daily"
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
)

var validPeriods = []Period{
	PeriodDaily,
	PeriodWeekly,
	PeriodMonthly,
	PeriodQuarterly,
	PeriodYearly,
}

// IsValid reports whether the value matches the canonical period enum.
func (p Period) IsValid() bool {
	for _, candidate := range validPeriods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePeriod converts the raw string to Period. Empty input defaults to daily.
func ParsePeriod(value string) (Period, error) {
	if value == "" {
		return PeriodDaily, nil
	}
	for _, candidate := range validPeriods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid period %q", value)
}
