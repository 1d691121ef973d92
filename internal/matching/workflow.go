// Package matching runs the résumé-to-job matching flow: summarize the
// résumé, summarize each job posting, then ask the LLM for a fit verdict.
package matching

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mrbane10/AI-CV-MatchMaker/internal/ai"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/dataset"
	apperrors "github.com/mrbane10/AI-CV-MatchMaker/internal/errors"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/logger"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/resume"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/telemetry"
)

const (
	ModeSingle = "single"
	ModeBatch  = "batch"
)

type ResumeExtractor interface {
	Extract(ctx context.Context, r resume.Resume) (string, error)
}

type PageFetcher interface {
	Fetch(ctx context.Context, link string) (string, error)
}

// SingleResult is the outcome of matching one résumé against one job link.
type SingleResult struct {
	RequestID        string
	Link             string
	CandidateSummary string
	JobSummary       string
	MatchResult      string
	Verdict          Verdict
}

type Workflow struct {
	extractor  ResumeExtractor
	fetcher    PageFetcher
	summarizer *Summarizer
	evaluator  *Evaluator
	provider   string
	model      string
	logger     *zap.Logger
	newID      func() string
}

func NewWorkflow(extractor ResumeExtractor, fetcher PageFetcher, generator ai.Generator, provider string, log *zap.Logger, maxLogLength int) *Workflow {
	if log == nil {
		log = zap.NewNop()
	}

	return &Workflow{
		extractor:  extractor,
		fetcher:    fetcher,
		summarizer: NewSummarizer(generator, log, maxLogLength),
		evaluator:  NewEvaluator(generator, log, maxLogLength),
		provider:   provider,
		model:      generator.Model(),
		logger:     log,
		newID:      uuid.NewString,
	}
}

type run struct {
	id         string
	logger     *zap.Logger
	summarizer *Summarizer
	evaluator  *Evaluator
}

func (w *Workflow) startRun(mode string) run {
	id := w.newID()
	log := logger.WithRun(logger.WithCommonFields(w.logger, w.provider, w.model), id, mode)
	return run{
		id:         id,
		logger:     log,
		summarizer: w.summarizer.withLogger(log),
		evaluator:  w.evaluator.withLogger(log),
	}
}

// RunSingle matches the résumé against a single job link. It performs one
// page fetch and three LLM calls.
func (w *Workflow) RunSingle(ctx context.Context, r resume.Resume, link string) (*SingleResult, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, apperrors.InvalidInput("job link is required", nil)
	}

	rn := w.startRun(ModeSingle)
	ctx, span := tracer.Start(ctx, "RunSingle")
	defer span.End()
	span.SetAttributes(telemetry.String("request.id", rn.id))

	rn.logger.Info("matching started", zap.String("link", link))

	candidateSummary, err := w.candidateSummary(ctx, rn, r)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	jobSummary, result, err := w.matchLink(ctx, rn, link, candidateSummary)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	verdict := ParseVerdict(result)
	rn.logger.Info("matching finished",
		zap.String("link", link),
		zap.Bool("fit", verdict.Fit),
		zap.Bool("fit_known", verdict.Known),
	)

	return &SingleResult{
		RequestID:        rn.id,
		Link:             link,
		CandidateSummary: candidateSummary,
		JobSummary:       jobSummary,
		MatchResult:      result,
		Verdict:          verdict,
	}, nil
}

// RunBatch matches the résumé against every link of the CSV and returns the
// dataset with a match_result column. The CSV is validated before any
// extraction or outbound call. The first failing row aborts the batch.
func (w *Workflow) RunBatch(ctx context.Context, r resume.Resume, jobs io.Reader) (*dataset.Dataset, error) {
	ds, err := dataset.Read(jobs)
	if err != nil {
		return nil, err
	}
	links, err := ds.Column(dataset.LinkColumn)
	if err != nil {
		return nil, err
	}

	rn := w.startRun(ModeBatch)
	ctx, span := tracer.Start(ctx, "RunBatch")
	defer span.End()
	span.SetAttributes(
		telemetry.String("request.id", rn.id),
		telemetry.Int("batch.size", len(links)),
	)

	rn.logger.Info("batch matching started", zap.Int("rows", len(links)))

	candidateSummary, err := w.candidateSummary(ctx, rn, r)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	results := make([]string, 0, len(links))
	fits := 0
	for i, link := range links {
		_, result, err := w.matchLink(ctx, rn, link, candidateSummary)
		if err != nil {
			span.RecordError(err)
			rn.logger.Error("batch row failed", zap.Int("row", i+1), zap.String("link", link), zap.Error(err))
			return nil, fmt.Errorf("row %d (%s): %w", i+1, link, err)
		}

		verdict := ParseVerdict(result)
		if verdict.Fit {
			fits++
		}
		rn.logger.Debug("batch row matched",
			zap.Int("row", i+1),
			zap.String("link", link),
			zap.Bool("fit", verdict.Fit),
			zap.Bool("fit_known", verdict.Known),
		)
		results = append(results, result)
	}

	if err := ds.SetColumn(dataset.ResultColumn, results); err != nil {
		return nil, err
	}

	rn.logger.Info("batch matching finished", zap.Int("rows", len(links)), zap.Int("fits", fits))
	return ds, nil
}

func (w *Workflow) candidateSummary(ctx context.Context, rn run, r resume.Resume) (string, error) {
	extractCtx, span := tracer.Start(ctx, "ExtractResume")
	cvText, err := w.extractor.Extract(extractCtx, r)
	if err != nil {
		span.RecordError(err)
		span.End()
		return "", err
	}
	span.SetAttributes(telemetry.Int("resume.text_length", len(cvText)))
	span.End()

	rn.logger.Debug("resume extracted", zap.String("name", r.Name), zap.Int("text_length", len(cvText)))

	return rn.summarizer.SummarizeCV(ctx, cvText)
}

func (w *Workflow) matchLink(ctx context.Context, rn run, link, candidateSummary string) (string, string, error) {
	pageText, err := w.fetcher.Fetch(ctx, link)
	if err != nil {
		return "", "", err
	}

	jobSummary, err := rn.summarizer.SummarizeJob(ctx, pageText)
	if err != nil {
		return "", "", err
	}

	result, err := rn.evaluator.Evaluate(ctx, jobSummary, candidateSummary)
	if err != nil {
		return "", "", err
	}

	return jobSummary, result, nil
}
