package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/merchantpulse/dashboard-api/pkg/errors"
	"github.com/merchantpulse/dashboard-api/pkg/logger"
	"github.com/merchantpulse/dashboard-api/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, types.SuccessEnvelope{Data: data})
}

// WriteSuccessWithWarnings attaches the pipeline's non-fatal warnings to the
// envelope so operators and the dashboard can surface them.
func WriteSuccessWithWarnings(w http.ResponseWriter, data any, warnings []string) {
	writeJSON(w, http.StatusOK, types.SuccessEnvelope{Data: data, Warnings: warnings})
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeClassification,
		pkgerrors.CodeDependency:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := types.ErrorEnvelope{
		Error: types.APIError{
			Code:    string(typed.Code()),
			Message: msg,
		},
	}

	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Error.Details = details
		}
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)
		fields := map[string]any{
			"error":       dump.TopMessage,
			"error_code":  dump.Code,
			"error_chain": dump.Chain,
		}
		logg.Error(logg.WithFields(ctx, fields), "request failed", err)
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("responses: failed to encode payload: %v", err)
	}
}
