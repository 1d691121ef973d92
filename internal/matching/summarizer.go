package matching

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mrbane10/AI-CV-MatchMaker/internal/ai"
	apperrors "github.com/mrbane10/AI-CV-MatchMaker/internal/errors"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/telemetry"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/utils"
)

const defaultMaxLogLength = 200

var tracer = telemetry.GetTracer("cv-matchmaker/matching")

// completer renders nothing itself; it sends a finished prompt and logs
// truncated previews of the exchange.
type completer struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func newCompleter(generator ai.Generator, logger *zap.Logger, maxLogLength int) completer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return completer{generator: generator, logger: logger, maxLogLen: maxLogLength}
}

func (c completer) complete(ctx context.Context, step, prompt string) (string, error) {
	c.logger.Debug("llm request",
		zap.String("step", step),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	raw, err := c.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", apperrors.LLM(step, err)
	}

	output := strings.TrimSpace(raw)
	if output == "" {
		return "", apperrors.LLM(step+": empty response", nil)
	}

	c.logger.Debug("llm response",
		zap.String("step", step),
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", utils.TruncateForLog(output, c.maxLogLen)),
	)

	return output, nil
}

// Summarizer condenses a job posting or a résumé with one LLM call each.
type Summarizer struct {
	completer
}

func NewSummarizer(generator ai.Generator, logger *zap.Logger, maxLogLength int) *Summarizer {
	return &Summarizer{completer: newCompleter(generator, logger, maxLogLength)}
}

func (s *Summarizer) withLogger(logger *zap.Logger) *Summarizer {
	clone := *s
	clone.logger = logger
	return &clone
}

func (s *Summarizer) SummarizeJob(ctx context.Context, pageText string) (string, error) {
	ctx, span := tracer.Start(ctx, "SummarizeJob")
	defer span.End()

	prompt, err := render(jobSummaryPrompt, map[string]any{varPageData: pageText})
	if err != nil {
		return "", apperrors.Internal("job summary prompt", err)
	}

	summary, err := s.complete(ctx, "summarize job", prompt)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return summary, nil
}

func (s *Summarizer) SummarizeCV(ctx context.Context, cvText string) (string, error) {
	ctx, span := tracer.Start(ctx, "SummarizeCV")
	defer span.End()

	prompt, err := render(cvSummaryPrompt, map[string]any{varCVText: cvText})
	if err != nil {
		return "", apperrors.Internal("cv summary prompt", err)
	}

	summary, err := s.complete(ctx, "summarize cv", prompt)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return summary, nil
}
