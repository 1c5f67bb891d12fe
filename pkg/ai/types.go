package ai

import (
	"context"
	"errors"
)

// ErrRateLimited indicates the completion provider refused the request due to
// quota or throughput limits. Callers treat it differently from other
// provider failures, so it must stay distinguishable with errors.Is.
var ErrRateLimited = errors.New("completion provider rate limited")

// CompletionOptions tunes a single completion request.
type CompletionOptions struct {
	Temperature float32
	MaxTokens   int
	// ForceJSON asks the provider to constrain the output to a JSON object.
	ForceJSON bool
}

// Completer describes a model completion service: prompt in, raw text out.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}

// Approach is one alternative solution suggested by the mentor.
type Approach struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Code            string `json:"code"`
	TimeComplexity  string `json:"timeComplexity"`
	SpaceComplexity string `json:"spaceComplexity"`
}

// AnalysisReport is the normalized mentor feedback. Every field is always
// present with its canonical type regardless of what the model returned.
type AnalysisReport struct {
	Explanation      string     `json:"explanation"`
	TimeComplexity   string     `json:"timeComplexity"`
	SpaceComplexity  string     `json:"spaceComplexity"`
	BetterApproaches []Approach `json:"betterApproaches"`
	NextSteps        string     `json:"nextSteps"`
}
