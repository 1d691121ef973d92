package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apperrors "github.com/mrbane10/AI-CV-MatchMaker/internal/errors"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/resume"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/web"
)

const (
	PromptCSV  = "CSV File"
	PromptLink = "Single Link"
)

var modePrompt = promptui.Select{
	Label: "Upload job descriptions as a CSV file or enter a single link",
	Items: []string{PromptCSV, PromptLink},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a resume against a job link or a CSV of job links",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

type matchOptions struct {
	resumePath string
	link       string
	jobsPath   string
	output     string
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("resume", "r", "", "the candidate's resume (pdf, docx or txt)")
	matchCmd.Flags().StringP("link", "u", "", "the link to a single job description")
	matchCmd.Flags().StringP("jobs", "c", "", "a CSV file with a link column")
	matchCmd.Flags().StringP("output", "o", web.ResultFilename, "where to write the result CSV")
	matchCmd.MarkFlagRequired("resume")
	matchCmd.MarkFlagsMutuallyExclusive("link", "jobs")
}

func match(cmd *cobra.Command) {
	ctx := context.Background()
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	opts := matchOptions{
		resumePath: cmd.Flag("resume").Value.String(),
		link:       cmd.Flag("link").Value.String(),
		jobsPath:   cmd.Flag("jobs").Value.String(),
		output:     cmd.Flag("output").Value.String(),
	}

	if opts.link == "" && opts.jobsPath == "" {
		if err := askJobInput(&opts); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}

	generator, err := newGenerator(config)
	if err != nil {
		logger.Fatal("creating llm client", zap.Error(err))
	}

	shutdown := initTracing(ctx, config, logger)
	defer func() {
		if err := shutdown(ctx); err != nil {
			logger.Warn("flushing traces", zap.Error(err))
		}
	}()

	workflow := newWorkflow(config, generator, logger)

	if err := runMatch(ctx, workflow, opts, cmd.OutOrStdout(), logger); err != nil {
		logger.Fatal("matching failed",
			zap.String("type", string(apperrors.TypeOf(err))),
			zap.Error(err),
		)
	}
}

func askJobInput(opts *matchOptions) error {
	_, mode, err := modePrompt.Run()
	if err != nil {
		return err
	}

	input := promptui.Prompt{Label: "Enter the link to the job description"}
	input.Validate = validateLink
	if mode == PromptCSV {
		input = promptui.Prompt{Label: "Path to the CSV file with job description links"}
		input.Validate = validateFile
	}

	value, err := input.Run()
	if err != nil {
		return err
	}

	if mode == PromptCSV {
		opts.jobsPath = value
	} else {
		opts.link = value
	}
	return nil
}

func validateLink(value string) error {
	u, err := url.Parse(strings.TrimSpace(value))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("enter an http or https link")
	}
	return nil
}

func validateFile(value string) error {
	info, err := os.Stat(strings.TrimSpace(value))
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", value)
	}
	return nil
}

// runMatch runs one matching session. Single results are printed to out,
// batch results are written to opts.output.
func runMatch(ctx context.Context, matcher web.Matcher, opts matchOptions, out io.Writer, logger *zap.Logger) error {
	cv, err := loadResume(opts.resumePath)
	if err != nil {
		return err
	}

	if opts.link != "" {
		result, err := matcher.RunSingle(ctx, cv, opts.link)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, result.MatchResult)
		return err
	}

	jobs, err := os.Open(opts.jobsPath)
	if err != nil {
		return apperrors.InvalidInput("opening jobs csv", err)
	}
	defer jobs.Close()

	ds, err := matcher.RunBatch(ctx, cv, jobs)
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = web.ResultFilename
	}

	f, err := os.Create(output)
	if err != nil {
		return apperrors.Internal("creating result file", err)
	}
	if err := ds.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return apperrors.Internal("closing result file", err)
	}

	logger.Info("results written", zap.String("filename", output), zap.Int("rows", ds.Len()))
	return nil
}

func loadResume(path string) (resume.Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return resume.Resume{}, apperrors.InvalidInput("reading resume", err)
	}

	name := filepath.Base(path)
	return resume.Resume{
		Name: name,
		Mime: resume.MimeFromFilename(name),
		Data: data,
	}, nil
}
