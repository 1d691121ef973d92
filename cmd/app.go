package cmd

import (
	"context"

	"go.uber.org/zap"

	"github.com/mrbane10/AI-CV-MatchMaker/internal/ai"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/ai/provider"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/jobpage"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/matching"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/resume"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/secrets"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/telemetry"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/web"
)

func resolveAPIKey(config *Config) (string, error) {
	return secrets.Load(secrets.Source{
		Name:  "llm api key",
		Value: config.LLM.APIKey,
		File:  config.LLM.APIKeyFile,
		Hint:  "set API_KEY, API_KEY_FILE or llm.api-key in the config file",
	})
}

func newGenerator(config *Config) (ai.Generator, error) {
	apiKey, err := resolveAPIKey(config)
	if err != nil {
		return nil, err
	}
	return provider.New(context.Background(), config.LLM.Provider, apiKey)
}

func newWorkflow(config *Config, generator ai.Generator, logger *zap.Logger) *matching.Workflow {
	extractor := resume.NewExtractor(logger)
	fetcher := jobpage.New(logger, config.Fetch.Timeout, config.Fetch.UserAgent)
	return matching.NewWorkflow(extractor, fetcher, generator, provider.Name(config.LLM.Provider), logger, config.Log.MaxLength)
}

func newWebServer(config *Config, matcher web.Matcher, logger *zap.Logger) (*web.Server, error) {
	return web.NewServer(matcher, logger, config.Server.Listen, config.Server.MaxUploadMB)
}

func initTracing(ctx context.Context, config *Config, logger *zap.Logger) func(context.Context) error {
	shutdown, err := telemetry.InitTracer(ctx, app, version, config.Telemetry.CollectorURL)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
		return func(context.Context) error { return nil }
	}
	if config.Telemetry.CollectorURL == "" {
		logger.Debug("tracing not configured")
	} else {
		logger.Info("tracing enabled", zap.String("collector", config.Telemetry.CollectorURL))
	}
	return shutdown
}
