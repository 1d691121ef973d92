package matching

import (
	_ "embed"
	"fmt"

	"github.com/tmc/langchaingo/prompts"
)

const (
	varPageData         = "page_data"
	varCVText           = "cv_text"
	varJobSummary       = "job_summary"
	varCandidateSummary = "candidate_summary"
)

var (
	//go:embed prompts/job_summary.md
	jobSummaryTemplate string
	//go:embed prompts/cv_summary.md
	cvSummaryTemplate string
	//go:embed prompts/evaluate_fit.md
	evaluateFitTemplate string
)

var (
	jobSummaryPrompt  = prompts.NewPromptTemplate(jobSummaryTemplate, []string{varPageData})
	cvSummaryPrompt   = prompts.NewPromptTemplate(cvSummaryTemplate, []string{varCVText})
	evaluateFitPrompt = prompts.NewPromptTemplate(evaluateFitTemplate, []string{varJobSummary, varCandidateSummary})
)

func render(tpl prompts.PromptTemplate, values map[string]any) (string, error) {
	prompt, err := tpl.Format(values)
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return prompt, nil
}
