package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/placify/internal/schemas"
)

// GeneratedQuestion is a multiple-choice question produced by the model.
type GeneratedQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// GenerateAptitudeQuestion asks the model for one question on topic at the
// given difficulty. The answer must be one of the options.
func GenerateAptitudeQuestion(ctx context.Context, client Client, topic, difficulty string) (*GeneratedQuestion, error) {
	if client == nil {
		return nil, ErrNotConfigured
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	prompt := BuildJSONPrompt(AptitudeQuestionSchema(topic, difficulty))
	raw, err := client.GenerateJSON(ctx, prompt, TierLite)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}
	raw = CleanJSONBlock(raw)

	if err := schemas.Validate(schemas.AptitudeQuestion, []byte(raw)); err != nil {
		return nil, fmt.Errorf("question response rejected: %w", err)
	}

	var q GeneratedQuestion
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil, fmt.Errorf("failed to parse question: %w", err)
	}

	q.Question = strings.TrimSpace(q.Question)
	q.Answer = strings.TrimSpace(q.Answer)
	q.Explanation = strings.TrimSpace(q.Explanation)
	for i := range q.Options {
		q.Options[i] = strings.TrimSpace(q.Options[i])
	}

	if !q.hasAnswerOption() {
		return nil, fmt.Errorf("question response rejected: answer %q is not one of the options", q.Answer)
	}
	return &q, nil
}

func (q *GeneratedQuestion) hasAnswerOption() bool {
	for _, o := range q.Options {
		if strings.EqualFold(o, q.Answer) {
			return true
		}
	}
	return false
}
