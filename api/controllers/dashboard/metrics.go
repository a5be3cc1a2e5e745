package dashboard

import (
	"fmt"
	"net/http"

	"github.com/merchantpulse/dashboard-api/api/responses"
	"github.com/merchantpulse/dashboard-api/api/validators"
	"github.com/merchantpulse/dashboard-api/internal/insights"
	"github.com/merchantpulse/dashboard-api/internal/insights/schema"
	"github.com/merchantpulse/dashboard-api/pkg/enums"
	pkgerrors "github.com/merchantpulse/dashboard-api/pkg/errors"
	"github.com/merchantpulse/dashboard-api/pkg/logger"
)

type metricsRequestBody struct {
	MetricIDs  []string          `json:"metric_ids" validate:"required,min=1,dive,required"`
	Context    string            `json:"context" validate:"required"`
	From       string            `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string            `json:"to" validate:"omitempty,datetime=2006-01-02"`
	Preset     string            `json:"preset" validate:"omitempty,oneof=7d 30d 90d"`
	Period     string            `json:"period" validate:"omitempty,oneof=daily weekly monthly quarterly yearly"`
	CompareYoY bool              `json:"compare_yoy"`
	Smooth     bool              `json:"smooth"`
	Filters    map[string]string `json:"filters"`
}

// Metrics serves normalized dashboard metrics for the requested view.
func Metrics(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body metricsRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		viewContext, err := enums.ParseViewContext(body.Context)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid context"))
			return
		}

		for filterID := range body.Filters {
			if !schema.IsValidFilterID(filterID) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown filter identifier %q", filterID)))
				return
			}
		}

		dateRange, err := resolveDateRange(body, timeNowUTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		period, err := enums.ParsePeriod(body.Period)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid period"))
			return
		}

		ctx = logg.WithViewContext(ctx, string(viewContext))
		result, err := service.DashboardMetrics(ctx, insights.Request{
			MetricIDs:       body.MetricIDs,
			Context:         viewContext,
			Range:           dateRange,
			Period:          period,
			CompareYoY:      body.CompareYoY,
			SmoothSeries:    body.Smooth,
			FilterOverrides: body.Filters,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessWithWarnings(w, result, result.Warnings)
	}
}
