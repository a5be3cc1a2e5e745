package dashboard

import (
	"strings"
	"time"

	"github.com/merchantpulse/dashboard-api/internal/insights/types"
	pkgerrors "github.com/merchantpulse/dashboard-api/pkg/errors"
)

var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

func resolveDateRange(body metricsRequestBody, now time.Time) (types.DateRange, error) {
	from := strings.TrimSpace(body.From)
	to := strings.TrimSpace(body.To)

	if from != "" || to != "" {
		if from == "" || to == "" {
			return types.DateRange{}, pkgerrors.New(pkgerrors.CodeValidation, "from and to must be provided together")
		}
		dateRange, err := types.NewDateRange(from, to)
		if err != nil {
			return types.DateRange{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date range")
		}
		return dateRange, nil
	}

	days, ok := presetDays(body.Preset)
	if !ok {
		return types.DateRange{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid preset")
	}

	end := now
	start := end.AddDate(0, 0, -(days - 1))
	return types.DateRange{
		Start: start.Format(types.ISODate),
		End:   end.Format(types.ISODate),
	}, nil
}

func presetDays(value string) (int, bool) {
	if value == "" {
		value = "30d"
	}
	switch strings.ToLower(value) {
	case "7d":
		return 7, true
	case "30d":
		return 30, true
	case "90d":
		return 90, true
	default:
		return 0, false
	}
}
