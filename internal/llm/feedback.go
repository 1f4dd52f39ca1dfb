package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/placify/internal/schemas"
)

// maxPromptChars caps each input block sent to the model.
const maxPromptChars = 20000

// Feedback is the model's qualitative review of a resume against a job.
type Feedback struct {
	FitScore    int      `json:"fitScore"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

// AnalyzeResume asks the model for fit feedback. The response must match
// the feedback schema; anything else is an error.
func AnalyzeResume(ctx context.Context, client Client, resumeText, jobDescription string) (*Feedback, error) {
	if client == nil {
		return nil, ErrNotConfigured
	}

	prompt := BuildJSONPrompt(FeedbackSchema(),
		Section{Label: "Resume", Text: truncate(resumeText, maxPromptChars)},
		Section{Label: "Job Description", Text: truncate(jobDescription, maxPromptChars)},
	)

	raw, err := client.GenerateJSON(ctx, prompt, TierStandard)
	if err != nil {
		return nil, fmt.Errorf("feedback generation failed: %w", err)
	}
	raw = CleanJSONBlock(raw)

	if err := schemas.Validate(schemas.Feedback, []byte(raw)); err != nil {
		return nil, fmt.Errorf("feedback response rejected: %w", err)
	}

	var parsed struct {
		FitScore    float64  `json:"fitScore"`
		Strengths   []string `json:"strengths"`
		Weaknesses  []string `json:"weaknesses"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse feedback: %w", err)
	}

	return &Feedback{
		FitScore:    int(math.Round(math.Max(0, math.Min(100, parsed.FitScore)))),
		Strengths:   nonEmpty(parsed.Strengths),
		Weaknesses:  nonEmpty(parsed.Weaknesses),
		Suggestions: nonEmpty(parsed.Suggestions),
	}, nil
}

// nonEmpty trims items and drops blank ones. Never returns nil.
func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
