package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ATSUploadResponse is returned by the resume upload endpoint. MultiFactor
// and GeminiAnalysis are kept as raw JSON so cached results pass through
// unchanged.
type ATSUploadResponse struct {
	Message        string          `json:"message"`
	ResumeChars    int             `json:"resumeChars"`
	OverallScore   int             `json:"overallScore"`
	MultiFactor    json.RawMessage `json:"multiFactor"`
	GeminiAnalysis json.RawMessage `json:"geminiAnalysis"`
	ScoreSaved     bool            `json:"scoreSaved"`
	Cached         bool            `json:"cached"`
}

// ResumeScore is the API view of a persisted scoring run.
type ResumeScore struct {
	ID                 uuid.UUID       `json:"id"`
	Score              int             `json:"score"`
	Breakdown          json.RawMessage `json:"scoreBreakdown"`
	JobTitle           string          `json:"jobTitle,omitempty"`
	CompanyName        string          `json:"companyName,omitempty"`
	JobDescriptionHash string          `json:"jobDescriptionHash"`
	FileName           string          `json:"resumeFileName,omitempty"`
	ProcessingMS       int             `json:"processingTime"`
	ScoringVersion     string          `json:"analysisVersion"`
	AIFeedback         json.RawMessage `json:"aiAnalysis,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// ScoreHistoryResponse is a page of the caller's score history.
type ScoreHistoryResponse struct {
	Scores     []ResumeScore `json:"scores"`
	Pagination Pagination    `json:"pagination"`
}

// ScoreBucket counts scores within [Min, Max).
type ScoreBucket struct {
	Min   int `json:"min"`
	Max   int `json:"max"`
	Count int `json:"count"`
}

// AdminScoreAnalytics summarizes every live score on the platform.
type AdminScoreAnalytics struct {
	TotalScores  int           `json:"totalScores"`
	AverageScore float64       `json:"averageScore"`
	UniqueUsers  int           `json:"uniqueUsers"`
	Distribution []ScoreBucket `json:"scoreDistribution"`
}
