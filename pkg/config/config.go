package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Pipeline PipelineConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MERCHANTPULSE_APP_ENV" required:"true"`
	Port         string `envconfig:"MERCHANTPULSE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MERCHANTPULSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MERCHANTPULSE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points at the analytics provider that serves raw metric
// payloads.
type UpstreamConfig struct {
	BaseURL        string        `envconfig:"MERCHANTPULSE_UPSTREAM_BASE_URL" required:"true"`
	ProviderID     string        `envconfig:"MERCHANTPULSE_UPSTREAM_PROVIDER_ID" required:"true"`
	Timeout        time.Duration `envconfig:"MERCHANTPULSE_UPSTREAM_TIMEOUT" default:"10s"`
	RetryAttempts  int           `envconfig:"MERCHANTPULSE_UPSTREAM_RETRY_ATTEMPTS" default:"3"`
	RetryBaseDelay time.Duration `envconfig:"MERCHANTPULSE_UPSTREAM_RETRY_BASE_DELAY" default:"500ms"`
}

func (u UpstreamConfig) validate() error {
	if !strings.HasPrefix(u.BaseURL, "http://") && !strings.HasPrefix(u.BaseURL, "https://") {
		return fmt.Errorf("upstream base url must be http(s), got %q", u.BaseURL)
	}
	if u.RetryAttempts < 0 {
		return fmt.Errorf("upstream retry attempts must not be negative")
	}
	return nil
}

// PipelineConfig tunes the post-normalization steps applied before data is
// returned to the dashboard.
type PipelineConfig struct {
	MovingAverageWindow int  `envconfig:"MERCHANTPULSE_PIPELINE_MOVING_AVERAGE_WINDOW" default:"7"`
	FillGaps            bool `envconfig:"MERCHANTPULSE_PIPELINE_FILL_GAPS" default:"true"`
}
