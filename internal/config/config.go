package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the catalog agent.
// Credentials are loaded once at startup and never logged.
type Config struct {
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"shopagent"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8084"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`

	LLMAPIBase string `env:"OPENAI_API_BASE,required,notEmpty"`
	LLMAPIKey  string `env:"OPENAI_API_KEY,required,notEmpty"`

	ShopURL         string `env:"SHOPIFY_SHOP_URL,required,notEmpty"`
	ShopAccessToken string `env:"SHOPIFY_ACCESS_TOKEN,required,notEmpty"`
	ShopAPIVersion  string `env:"SHOPIFY_API_VERSION" envDefault:"2023-10"`

	Model           string        `env:"AGENT_MODEL" envDefault:"deepseek/deepseek-chat-v3-0324:free"`
	MaxSteps        int           `env:"AGENT_MAX_STEPS" envDefault:"8"`
	RunTimeout      time.Duration `env:"AGENT_RUN_TIMEOUT" envDefault:"5m"`
	ToolCallTimeout time.Duration `env:"TOOL_CALL_TIMEOUT" envDefault:"30s"`
	LLMHTTPTimeout  time.Duration `env:"LLM_HTTP_TIMEOUT" envDefault:"75s"`
	ShopHTTPTimeout time.Duration `env:"SHOPIFY_HTTP_TIMEOUT" envDefault:"15s"`
}

// Load parses environment variables into Config. Missing required
// credentials fail here, before any network call is attempted.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 8
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 5 * time.Minute
	}
	if cfg.ToolCallTimeout <= 0 {
		cfg.ToolCallTimeout = 30 * time.Second
	}

	return cfg, nil
}

// Addr returns the HTTP listen address for serve mode.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
