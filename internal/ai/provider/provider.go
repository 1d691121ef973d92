package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrbane10/AI-CV-MatchMaker/internal/ai"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/ai/gemini"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/ai/groq"
)

// New builds the generator for the named provider. An empty name selects Groq.
func New(ctx context.Context, name, apiKey string) (ai.Generator, error) {
	switch Name(name) {
	case ai.ProviderGroq:
		gen, err := groq.NewGenerator(apiKey)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case ai.ProviderGemini:
		gen, err := gemini.NewGenerator(ctx, apiKey)
		if err != nil {
			return nil, err
		}
		return gen, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", name)
	}
}

// Name normalizes a configured provider name for logging.
func Name(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ai.ProviderGroq
	}
	return name
}
