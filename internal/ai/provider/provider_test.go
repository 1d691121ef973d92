package provider

import (
	"context"
	"testing"

	"github.com/mrbane10/AI-CV-MatchMaker/internal/ai"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/ai/groq"
)

func TestNewSelectsGroqByDefault(t *testing.T) {
	gen, err := New(context.Background(), "", "gsk_test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.Model() != groq.DefaultModel {
		t.Fatalf("unexpected model: %q", gen.Model())
	}
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	if _, err := New(context.Background(), "openai", "key"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewRequiresKey(t *testing.T) {
	for _, name := range []string{ai.ProviderGroq, ai.ProviderGemini} {
		if _, err := New(context.Background(), name, ""); err == nil {
			t.Fatalf("expected error for %s without key", name)
		}
	}
}

func TestName(t *testing.T) {
	if got := Name(" "); got != ai.ProviderGroq {
		t.Fatalf("unexpected default name: %q", got)
	}
	if got := Name(" Gemini "); got != ai.ProviderGemini {
		t.Fatalf("unexpected name: %q", got)
	}
}
