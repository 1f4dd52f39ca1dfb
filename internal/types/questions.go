package types

import (
	"time"

	"github.com/google/uuid"
)

// Question is the API view of an aptitude question. The answer is withheld
// from list responses and revealed by the answer check.
type Question struct {
	ID          uuid.UUID `json:"id"`
	Question    string    `json:"question"`
	Options     []string  `json:"options"`
	Answer      string    `json:"answer,omitempty"`
	Explanation string    `json:"explanation,omitempty"`
	Topic       string    `json:"topic"`
	Difficulty  string    `json:"difficulty"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CheckAnswerRequest submits one answer.
type CheckAnswerRequest struct {
	QuestionID uuid.UUID `json:"questionId" validate:"required"`
	Answer     string    `json:"answer" validate:"required"`
}

// CheckAnswerResponse reports whether the answer was right.
type CheckAnswerResponse struct {
	Correct     bool   `json:"correct"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

// GenerateQuestionRequest asks the LLM for a new question.
type GenerateQuestionRequest struct {
	Topic      string `json:"topic" validate:"required,max=100"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

// Validate validates the CheckAnswerRequest using the validator.
func (r *CheckAnswerRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the GenerateQuestionRequest using the validator.
func (r *GenerateQuestionRequest) Validate() error {
	return validate.Struct(r)
}
