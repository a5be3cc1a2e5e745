package enums

import "fmt"

// ViewContext names the dashboard view requesting data. Per-metric filter
// defaults may be overridden per context.
type ViewContext string

const (
	ViewContextOverview     ViewContext = "overview"
	ViewContextRevenue      ViewContext = "revenue"
	ViewContextCustomers    ViewContext = "customers"
	ViewContextDemographics ViewContext = "demographics"
	ViewContextChannels     ViewContext = "channels"
)

var validViewContexts = []ViewContext{
	ViewContextOverview,
	ViewContextRevenue,
	ViewContextCustomers,
	ViewContextDemographics,
	ViewContextChannels,
}

// IsValid reports whether the value matches the canonical view context enum.
func (v ViewContext) IsValid() bool {
	for _, candidate := range validViewContexts {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseViewContext converts the raw string to ViewContext.
func ParseViewContext(value string) (ViewContext, error) {
	for _, candidate := range validViewContexts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid view context %q", value)
}
