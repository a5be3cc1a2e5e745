package enums

import "fmt"

// MetricCategory partitions metric identifiers by the shape of their payload.
type MetricCategory string

const (
	MetricCategoryScalar      MetricCategory = "scalar"
	MetricCategoryTimeSeries  MetricCategory = "time_series"
	MetricCategoryCategorical MetricCategory = "categorical"
)

var validMetricCategories = []MetricCategory{
	MetricCategoryScalar,
	MetricCategoryTimeSeries,
	MetricCategoryCategorical,
}

// IsValid reports whether the value matches the canonical metric category enum.
func (m MetricCategory) IsValid() bool {
	for _, candidate := range validMetricCategories {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMetricCategory converts the raw string to MetricCategory.
func ParseMetricCategory(value string) (MetricCategory, error) {
	for _, candidate := range validMetricCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid metric category %q", value)
}
