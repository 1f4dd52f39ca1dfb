package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jonathan/placify/internal/db"
	"github.com/jonathan/placify/internal/llm"
	"github.com/jonathan/placify/internal/types"
)

const (
	defaultQuestionLimit = 10
	maxQuestionLimit     = 50
	questionSourceGemini = "gemini"
)

func toAPIQuestion(q *db.Question, withAnswer bool) types.Question {
	out := types.Question{
		ID:         q.ID,
		Question:   q.Question,
		Options:    nonNil(q.Options),
		Topic:      q.Topic,
		Difficulty: q.Difficulty,
		Source:     q.Source,
		CreatedAt:  q.CreatedAt,
	}
	if withAnswer {
		out.Answer = q.Answer
		out.Explanation = q.Explanation
	}
	return out
}

// handleListQuestions returns questions without their answers.
func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	questions, err := s.store.ListQuestions(r.Context(), db.QuestionFilters{
		Topic:      strings.TrimSpace(q.Get("topic")),
		Difficulty: strings.ToLower(strings.TrimSpace(q.Get("difficulty"))),
		Limit:      min(queryInt(r, "limit", defaultQuestionLimit), maxQuestionLimit),
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}

	out := make([]types.Question, 0, len(questions))
	for i := range questions {
		out = append(out, toAPIQuestion(&questions[i], false))
	}
	jsonResponse(w, http.StatusOK, map[string]any{"questions": out})
}

// handleCheckAnswer compares a submitted answer ignoring case and
// surrounding whitespace.
func (s *Server) handleCheckAnswer(w http.ResponseWriter, r *http.Request) {
	var req types.CheckAnswerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		serviceError(w, r, err)
		return
	}

	q, err := s.store.GetQuestion(r.Context(), req.QuestionID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if q == nil {
		serviceError(w, r, &ErrNotFound{Resource: "question", ID: req.QuestionID})
		return
	}

	jsonResponse(w, http.StatusOK, types.CheckAnswerResponse{
		Correct:     strings.EqualFold(strings.TrimSpace(req.Answer), strings.TrimSpace(q.Answer)),
		Answer:      q.Answer,
		Explanation: q.Explanation,
	})
}

// handleGenerateQuestion asks Gemini for a question and adds it to the bank.
func (s *Server) handleGenerateQuestion(w http.ResponseWriter, r *http.Request) {
	if s.llm == nil {
		errorResponse(w, http.StatusServiceUnavailable, "AI question generation is not configured")
		return
	}

	var req types.GenerateQuestionRequest
	if err := decodeJSONWith(w, r, &req, func() {
		req.Topic = strings.TrimSpace(req.Topic)
		req.Difficulty = strings.ToLower(strings.TrimSpace(req.Difficulty))
	}); err != nil {
		serviceError(w, r, err)
		return
	}

	gen, err := llm.GenerateAptitudeQuestion(r.Context(), s.llm, req.Topic, req.Difficulty)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			errorResponse(w, http.StatusServiceUnavailable, "AI question generation is not configured")
			return
		}
		slog.Error("question generation failed", slog.String("topic", req.Topic), slog.Any("error", err))
		errorResponse(w, http.StatusBadGateway, "Failed to generate question")
		return
	}

	q := &db.Question{
		Question:    gen.Question,
		Options:     gen.Options,
		Answer:      gen.Answer,
		Explanation: gen.Explanation,
		Topic:       req.Topic,
		Difficulty:  req.Difficulty,
		Source:      questionSourceGemini,
	}
	if err := s.store.CreateQuestion(r.Context(), q); err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, toAPIQuestion(q, true))
}
