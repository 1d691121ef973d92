package ai

import "context"

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"

	// Temperature is fixed for every provider.
	Temperature = 0.0
)

// Generator sends a single prompt to a hosted LLM and returns its text reply.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}
