package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	SubmitModeDirect    = "direct"
	SubmitModeSponsored = "sponsored"
)

type Config struct {
	App     AppConfig
	Sui     SuiConfig
	Sponsor SponsorConfig
	Redis   RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	mode := strings.ToLower(strings.TrimSpace(c.App.SubmitMode))
	switch mode {
	case SubmitModeDirect, SubmitModeSponsored:
		c.App.SubmitMode = mode
	default:
		return fmt.Errorf("SUBMIT_MODE must be %q or %q, got %q", SubmitModeDirect, SubmitModeSponsored, c.App.SubmitMode)
	}
	if mode == SubmitModeSponsored && strings.TrimSpace(c.Sponsor.APIKey) == "" {
		return fmt.Errorf("ENOKI_SECRET_KEY is required in sponsored mode")
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"APP_ENV" default:"dev"`
	Port         string `envconfig:"PORT" default:"3000"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LOG_WARN_STACK" default:"false"`
	SubmitMode   string `envconfig:"SUBMIT_MODE" default:"direct"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

func (a AppConfig) Sponsored() bool {
	return a.SubmitMode == SubmitModeSponsored
}

type SuiConfig struct {
	RPCURL     string        `envconfig:"SUI_RPC_URL" default:"https://fullnode.testnet.sui.io:443"`
	PackageID  string        `envconfig:"PACKAGE_ID" required:"true"`
	SponsorKey string        `envconfig:"SPONSOR_KEY" required:"true"`
	GasBudget  uint64        `envconfig:"SUI_GAS_BUDGET" default:"50000000"`
	Timeout    time.Duration `envconfig:"SUI_RPC_TIMEOUT" default:"30s"`
}

type SponsorConfig struct {
	APIKey       string        `envconfig:"ENOKI_SECRET_KEY"`
	Network      string        `envconfig:"ENOKI_CLIENT_NETWORK" default:"testnet"`
	BaseURL      string        `envconfig:"ENOKI_BASE_URL" default:"https://api.enoki.mystenlabs.com"`
	PollAttempts int           `envconfig:"SPONSOR_POLL_ATTEMPTS" default:"5"`
	PollDelay    time.Duration `envconfig:"SPONSOR_POLL_DELAY" default:"1s"`
	Timeout      time.Duration `envconfig:"SPONSOR_TIMEOUT" default:"30s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"REDIS_URL"`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}
