package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonathan/placify/internal/ats"
	"github.com/jonathan/placify/internal/ats/style"
	"github.com/jonathan/placify/internal/extract"
	"github.com/jonathan/placify/internal/fetch"
	"github.com/jonathan/placify/internal/llm"
	"github.com/jonathan/placify/internal/observability"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job description",
	Long: `Extract text from a PDF, DOCX or plain-text resume and score it against a job
description file (or a job posting URL) with the multi-factor ATS scorer. With --ai and GEMINI_API_KEY set,
Gemini fit feedback is added.`,
	RunE: runScore,
}

var (
	scoreResumeFile string
	scoreJobFile    string
	scoreJobURL     string
	scoreRender     bool
	scoreJSON       bool
	scoreAI         bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreResumeFile, "resume", "r", "", "Path to resume file (PDF, DOCX or TXT)")
	scoreCmd.Flags().StringVarP(&scoreJobFile, "job", "j", "", "Path to job description file (text or HTML)")
	scoreCmd.Flags().StringVar(&scoreJobURL, "job-url", "", "URL of a job posting to fetch instead of --job")
	scoreCmd.Flags().BoolVar(&scoreRender, "render", false, "Render --job-url in headless Chrome when the page has little text")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the result as JSON")
	scoreCmd.Flags().BoolVar(&scoreAI, "ai", false, "Request Gemini feedback (requires GEMINI_API_KEY)")

	_ = scoreCmd.MarkFlagRequired("resume")
	scoreCmd.MarkFlagsOneRequired("job", "job-url")
	scoreCmd.MarkFlagsMutuallyExclusive("job", "job-url")

	rootCmd.AddCommand(scoreCmd)
}

// scoreOutput is the --json payload.
type scoreOutput struct {
	File        string        `json:"file"`
	ResumeChars int           `json:"resumeChars"`
	Result      *ats.Result   `json:"multiFactor"`
	Feedback    *llm.Feedback `json:"geminiAnalysis"`
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resumeData, err := os.ReadFile(scoreResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}
	resumeText, err := extract.FromUpload(filepath.Base(scoreResumeFile), resumeData)
	if err != nil {
		return fmt.Errorf("failed to extract resume text: %w", err)
	}

	jobText, err := loadJobDescription(ctx)
	if err != nil {
		return err
	}

	analyzer := style.New()
	if cfg.Scoring.TargetAge > 0 {
		analyzer.TargetAge = cfg.Scoring.TargetAge
	}
	scorer := ats.NewScorer(analyzer, ats.WithWeights(cfg.Scoring.Weights))
	result, err := scorer.Score(ctx, resumeText, jobText)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	var feedback *llm.Feedback
	if scoreAI {
		feedback, err = scoreFeedback(ctx, resumeText, jobText)
		if err != nil {
			return err
		}
	}

	return writeScore(cmd.OutOrStdout(), scoreOutput{
		File:        filepath.Base(scoreResumeFile),
		ResumeChars: len([]rune(resumeText)),
		Result:      result,
		Feedback:    feedback,
	})
}

// loadJobDescription reads --job or fetches --job-url.
func loadJobDescription(ctx context.Context) (string, error) {
	if scoreJobURL != "" {
		opts := fetch.DefaultOptions()
		if scoreRender {
			opts.Render = fetch.ChromeRenderer(fetch.DefaultTimeout)
		}
		posting, err := fetch.JobPosting(ctx, scoreJobURL, opts)
		if err != nil {
			return "", fmt.Errorf("failed to fetch job posting: %w", err)
		}
		return posting.Text, nil
	}

	jobData, err := os.ReadFile(scoreJobFile)
	if err != nil {
		return "", fmt.Errorf("failed to read job description file: %w", err)
	}
	jobText, err := extract.JobDescription(string(jobData))
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	return jobText, nil
}

// scoreFeedback asks Gemini for feedback. A model failure is logged and
// yields nil, as in the upload endpoint.
func scoreFeedback(ctx context.Context, resumeText, jobText string) (*llm.Feedback, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("--ai requires GEMINI_API_KEY")
	}
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.Gemini.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	fctx, cancel := context.WithTimeout(ctx, cfg.Gemini.FeedbackTimeout)
	defer cancel()
	feedback, err := llm.AnalyzeResume(fctx, client, resumeText, jobText)
	if err != nil {
		slog.Warn("AI feedback unavailable", slog.Any("error", err))
		return nil, nil
	}
	return feedback, nil
}

func writeScore(w io.Writer, out scoreOutput) error {
	if scoreJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	//nolint:errcheck // writing to stdout; errors are not recoverable
	fmt.Fprintf(w, "Resume: %s (%d characters extracted)\n", out.File, out.ResumeChars)
	p := observability.NewPrinter(w)
	p.PrintScoreReport(out.Result)
	p.PrintFeedback(out.Feedback)
	return nil
}
