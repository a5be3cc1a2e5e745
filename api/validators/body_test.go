package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/merchantpulse/dashboard-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleBody struct {
	MetricIDs []string `json:"metric_ids" validate:"required,min=1"`
	From      string   `json:"from" validate:"omitempty,datetime=2006-01-02"`
	Preset    string   `json:"preset" validate:"omitempty,oneof=7d 30d 90d"`
}

func decode(t *testing.T, payload string) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	var body sampleBody
	return DecodeJSONBody(req, &body)
}

func TestDecodeJSONBody(t *testing.T) {
	require.NoError(t, decode(t, `{"metric_ids":["total_revenue"],"from":"2025-01-01","preset":"7d"}`))
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	err := decode(t, `{"metric_ids":["total_revenue"],"bogus":true}`)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDecodeJSONBodyRejectsMalformedJSON(t *testing.T) {
	err := decode(t, `{"metric_ids":`)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDecodeJSONBodyValidationDetailsUseJSONNames(t *testing.T) {
	err := decode(t, `{"from":"01/01/2025","preset":"14d"}`)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["metric_ids"])
	assert.Equal(t, "must match layout 2006-01-02", details["from"])
	assert.Equal(t, "must be one of 7d 30d 90d", details["preset"])
}
