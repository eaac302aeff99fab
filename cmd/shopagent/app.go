package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"shopagent/internal/config"
	"shopagent/internal/domain/agent"
	"shopagent/internal/domain/catalog"
	"shopagent/internal/domain/tool"
	"shopagent/internal/infrastructure/llmprovider"
	"shopagent/internal/infrastructure/logger"
	"shopagent/internal/infrastructure/observability"
	"shopagent/internal/infrastructure/shopify"
	"shopagent/internal/prompt"
)

// app wires configuration, the store client, the tool registry, and the
// runner for one command invocation.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	registry *tool.Registry
	runner   *agent.Runner
	profile  *prompt.Profile
	shutdown observability.Shutdown
}

func newApp(ctx context.Context) (*app, error) {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg)

	var profile *prompt.Profile
	if profilePath != "" {
		profile, err = prompt.LoadProfile(profilePath)
		if err != nil {
			return nil, err
		}
	}

	shutdown, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("initialize observability: %w", err)
	}

	store := shopify.NewClient(shopify.Config{
		ShopURL:     cfg.ShopURL,
		AccessToken: cfg.ShopAccessToken,
		APIVersion:  cfg.ShopAPIVersion,
		Timeout:     cfg.ShopHTTPTimeout,
	})

	registry := tool.NewRegistry()
	for _, t := range catalog.Tools(store) {
		if err := registry.Register(t); err != nil {
			return nil, fmt.Errorf("register tool: %w", err)
		}
	}

	model := cfg.Model
	temperature := 0.0
	var maxTokens *int
	if profile != nil {
		if profile.Model != "" {
			model = profile.Model
		}
		if profile.Temperature != nil {
			temperature = *profile.Temperature
		}
		maxTokens = profile.MaxTokens
	}

	provider := llmprovider.NewClient(cfg.LLMAPIBase, cfg.LLMAPIKey, cfg.LLMHTTPTimeout)
	runner := agent.NewRunner(provider, registry, agent.Options{
		Model:           model,
		Temperature:     &temperature,
		MaxTokens:       maxTokens,
		MaxSteps:        cfg.MaxSteps,
		ToolCallTimeout: cfg.ToolCallTimeout,
	}, log)

	return &app{
		cfg:      cfg,
		log:      log,
		registry: registry,
		runner:   runner,
		profile:  profile,
		shutdown: shutdown,
	}, nil
}

func (a *app) close(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("shutdown telemetry")
	}
}

func (a *app) systemPrompt() string {
	return a.profile.System()
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
