package groq

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/mrbane10/AI-CV-MatchMaker/internal/ai"
)

const (
	BaseURL      = "https://api.groq.com/openai/v1"
	DefaultModel = "llama-3.1-70b-versatile"
)

// Generator talks to Groq through its OpenAI-compatible chat endpoint.
type Generator struct {
	llm       llms.Model
	modelName string
}

var _ ai.Generator = (*Generator)(nil)

func NewGenerator(apiKey string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("groq api key is required")
	}

	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(BaseURL),
		openai.WithModel(DefaultModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	return &Generator{llm: llm, modelName: DefaultModel}, nil
}

func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.llm == nil {
		return "", errors.New("groq generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	output, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithModel(g.modelName),
		llms.WithTemperature(ai.Temperature),
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	output = strings.TrimSpace(output)
	if output == "" {
		return "", errors.New("groq api returned empty response")
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
