// Package filters resolves the auxiliary filter parameters that must
// accompany upstream metric requests. The filter table is static: loaded
// once, never mutated.
package filters

import (
	"fmt"
	"strings"

	"github.com/merchantpulse/dashboard-api/pkg/enums"
	pkgerrors "github.com/merchantpulse/dashboard-api/pkg/errors"
)

// Spec configures one filter required by a metric.
type Spec struct {
	FilterID         string
	Default          string
	ContextOverrides map[enums.ViewContext]string
	Allowed          []string
}

func (s Spec) allows(value string) bool {
	for _, candidate := range s.Allowed {
		if candidate == value {
			return true
		}
	}
	return false
}

// specsByMetric is declared in the order filters must appear in outgoing
// requests.
var specsByMetric = map[string][]Spec{
	"converted_customers_by_interest": {
		{
			FilterID: "interest_type",
			Default:  "customers",
			ContextOverrides: map[enums.ViewContext]string{
				enums.ViewContextDemographics: "customers",
				enums.ViewContextRevenue:      "revenue",
			},
			Allowed: []string{"customers", "revenue"},
		},
	},
	"revenue_by_channel": {
		{
			FilterID: "channel_scope",
			Default:  "all",
			ContextOverrides: map[enums.ViewContext]string{
				enums.ViewContextChannels: "online",
			},
			Allowed: []string{"all", "online", "in_store"},
		},
	},
}

// ResolveForContext returns the filter values a request for the metric must
// carry in the given view context: the per-context override when one exists,
// the default otherwise. Metrics without filter specs resolve to an empty
// map; that is not an error.
func ResolveForContext(metricID string, viewContext enums.ViewContext) map[string]string {
	specs := specsByMetric[metricID]
	resolved := make(map[string]string, len(specs))
	for _, spec := range specs {
		value := spec.Default
		if override, ok := spec.ContextOverrides[viewContext]; ok {
			value = override
		}
		resolved[spec.FilterID] = value
	}
	return resolved
}

// Validate checks caller-supplied filter values against the metric's allowed
// sets. The first violation short-circuits with a message naming the filter,
// the offending value, and the allowed set. Supplied filters the metric does
// not declare are ignored.
func Validate(metricID string, supplied map[string]string) error {
	for _, spec := range specsByMetric[metricID] {
		value, ok := supplied[spec.FilterID]
		if !ok {
			continue
		}
		if !spec.allows(value) {
			msg := fmt.Sprintf(
				"metric %s filter %s: value %q not allowed, expected one of [%s]",
				metricID, spec.FilterID, value, strings.Join(spec.Allowed, ", "),
			)
			return pkgerrors.New(pkgerrors.CodeValidation, msg)
		}
	}
	return nil
}

// RequestFilter is one entry of the ordered filter list sent upstream. The
// provider identifier is supplied by the caller per provider routing rules.
type RequestFilter struct {
	ProviderID string `json:"provider_id"`
	FilterID   string `json:"filter_id"`
	Value      string `json:"value"`
}

// RequestFilters serializes the metric's resolved filters into the outgoing
// request's ordered triple list. Values in overrides replace the resolved
// defaults; declaration order of the specs is preserved.
func RequestFilters(providerID, metricID string, viewContext enums.ViewContext, overrides map[string]string) []RequestFilter {
	resolved := ResolveForContext(metricID, viewContext)
	var out []RequestFilter
	for _, spec := range specsByMetric[metricID] {
		value := resolved[spec.FilterID]
		if override, ok := overrides[spec.FilterID]; ok {
			value = override
		}
		out = append(out, RequestFilter{
			ProviderID: providerID,
			FilterID:   spec.FilterID,
			Value:      value,
		})
	}
	return out
}
