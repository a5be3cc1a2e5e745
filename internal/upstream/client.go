// Package upstream fetches raw metric payloads from the analytics provider.
// It is the transport collaborator of the normalization pipeline: it either
// delivers a complete raw response or an explicit fetch failure.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/merchantpulse/dashboard-api/internal/insights"
	"github.com/merchantpulse/dashboard-api/internal/insights/filters"
	"github.com/merchantpulse/dashboard-api/internal/insights/types"
	"github.com/merchantpulse/dashboard-api/pkg/config"
	pkgerrors "github.com/merchantpulse/dashboard-api/pkg/errors"
	"github.com/merchantpulse/dashboard-api/pkg/logger"
	"github.com/merchantpulse/dashboard-api/pkg/metrics"
	"github.com/sethvargo/go-retry"
)

const metricsPath = "/v2/metrics/query"

// Client talks to the upstream analytics provider over HTTP.
type Client struct {
	baseURL    string
	providerID string
	httpClient *http.Client
	attempts   uint64
	baseDelay  time.Duration
	pipeMetr   *metrics.PipelineMetrics
	logg       *logger.Logger
}

// NewClient builds an upstream client from configuration.
func NewClient(cfg config.UpstreamConfig, pipeMetr *metrics.PipelineMetrics, logg *logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("upstream base url required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		providerID: cfg.ProviderID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		attempts:   uint64(cfg.RetryAttempts),
		baseDelay:  cfg.RetryBaseDelay,
		pipeMetr:   pipeMetr,
		logg:       logg,
	}, nil
}

type queryBody struct {
	ProviderID string                  `json:"provider_id"`
	MetricIDs  []string                `json:"metric_ids"`
	StartDate  string                  `json:"start_date"`
	EndDate    string                  `json:"end_date"`
	Filters    []filters.RequestFilter `json:"filters,omitempty"`
}

// FetchMetrics posts the metric query and decodes the raw response. Transient
// failures (network errors and 5xx statuses) are retried with exponential
// backoff; anything else fails immediately.
func (c *Client) FetchMetrics(ctx context.Context, req insights.FetchRequest) (*types.RawResponse, error) {
	body, err := json.Marshal(queryBody{
		ProviderID: c.providerID,
		MetricIDs:  req.MetricIDs,
		StartDate:  req.Range.Start,
		EndDate:    req.Range.End,
		Filters:    req.Filters,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode upstream query")
	}

	started := time.Now()
	backoff := retry.WithMaxRetries(c.attempts, retry.NewExponential(c.baseDelay))

	var raw types.RawResponse
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+metricsPath, bytes.NewReader(body))
		if err != nil {
			return err
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			io.Copy(io.Discard, resp.Body)
			return retry.RetryableError(fmt.Errorf("upstream status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("upstream status %d", resp.StatusCode)
		}

		raw = types.RawResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return fmt.Errorf("decode upstream response: %w", err)
		}
		return nil
	})
	if err != nil {
		c.pipeMetr.ObserveUpstream("failure", time.Since(started))
		c.logg.Error(ctx, "upstream metric fetch failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching metrics from analytics provider")
	}

	c.pipeMetr.ObserveUpstream("success", time.Since(started))
	return &raw, nil
}
