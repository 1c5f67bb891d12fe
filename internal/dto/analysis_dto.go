package dto

import (
	"time"

	"github.com/noah-isme/mentor-go-api/internal/models"
	"github.com/noah-isme/mentor-go-api/pkg/ai"
)

// AnalyzeRequest is the payload for submitting a solution for analysis.
// Level is an optional hint; anything outside the closed enum is ignored and
// the classifier decides instead.
type AnalyzeRequest struct {
	Problem string `json:"problem" validate:"required,min=10"`
	Code    string `json:"code" validate:"required,min=1"`
	Level   string `json:"level" validate:"omitempty"`
}

// AnalyzeResponse is returned after a submission has been analyzed and stored.
type AnalyzeResponse struct {
	ID       string            `json:"id"`
	Level    string            `json:"level"`
	Analysis ai.AnalysisReport `json:"analysis"`
}

// SubmissionResponse serializes a stored submission for the history view.
// Analysis is re-derived from the persisted raw text on every read.
type SubmissionResponse struct {
	ID        string            `json:"id"`
	Problem   string            `json:"problem"`
	Code      string            `json:"code"`
	Level     string            `json:"level"`
	Analysis  ai.AnalysisReport `json:"analysis"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:        model.ID.String(),
		Problem:   model.Problem,
		Code:      model.Code,
		Level:     model.Level,
		Analysis:  ai.NormalizeAnalysis(model.RawAnalysis),
		CreatedAt: model.CreatedAt,
	}
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(models []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(models))
	for _, submission := range models {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}

// StatsResponse aggregates a user's submission counts for the dashboard.
type StatsResponse struct {
	Total  int64 `json:"total"`
	Easy   int64 `json:"easy"`
	Medium int64 `json:"medium"`
	Hard   int64 `json:"hard"`
}

// RecommendationResponse carries the coach's free-text advice.
type RecommendationResponse struct {
	Recommendation string `json:"recommendation"`
}
