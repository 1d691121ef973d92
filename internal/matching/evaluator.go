package matching

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/mrbane10/AI-CV-MatchMaker/internal/ai"
	apperrors "github.com/mrbane10/AI-CV-MatchMaker/internal/errors"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/telemetry"
)

var verdictMarker = regexp.MustCompile("(?i)^[\\s\"'`*_#>-]*fit\\s*:\\s*[\"'`*_]*\\s*(true|false)\\b[\"'`*_.]*")

// Verdict is a read-only view of an evaluation result.
type Verdict struct {
	Fit bool
	// Known is false when the result does not start with a fit marker.
	Known bool
	Body  string
}

// ParseVerdict reads the leading "Fit: True" or "Fit: False" marker of text.
func ParseVerdict(text string) Verdict {
	match := verdictMarker.FindStringSubmatchIndex(text)
	if match == nil {
		return Verdict{Body: strings.TrimSpace(text)}
	}

	value := strings.ToLower(text[match[2]:match[3]])
	body := strings.TrimLeft(text[match[1]:], " \t\r\n,:-")

	return Verdict{
		Fit:   value == "true",
		Known: true,
		Body:  strings.TrimSpace(body),
	}
}

// Evaluator asks the LLM whether a candidate fits a job.
type Evaluator struct {
	completer
}

func NewEvaluator(generator ai.Generator, logger *zap.Logger, maxLogLength int) *Evaluator {
	return &Evaluator{completer: newCompleter(generator, logger, maxLogLength)}
}

func (e *Evaluator) withLogger(logger *zap.Logger) *Evaluator {
	clone := *e
	clone.logger = logger
	return &clone
}

// Evaluate returns the LLM verdict text trimmed of surrounding whitespace and
// otherwise unchanged.
func (e *Evaluator) Evaluate(ctx context.Context, jobSummary, candidateSummary string) (string, error) {
	ctx, span := tracer.Start(ctx, "EvaluateFit")
	defer span.End()

	prompt, err := render(evaluateFitPrompt, map[string]any{
		varJobSummary:       jobSummary,
		varCandidateSummary: candidateSummary,
	})
	if err != nil {
		return "", apperrors.Internal("evaluate fit prompt", err)
	}

	result, err := e.complete(ctx, "evaluate fit", prompt)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	verdict := ParseVerdict(result)
	span.SetAttributes(
		telemetry.Bool("fit.known", verdict.Known),
		telemetry.Bool("fit.value", verdict.Fit),
	)
	if !verdict.Known {
		e.logger.Warn("evaluation has no fit marker")
	}

	return result, nil
}
