package ai

import "strings"

// Level enumerates problem difficulty.
const (
	LevelEasy   = "easy"
	LevelMedium = "medium"
	LevelHard   = "hard"
)

// ValidLevel reports whether value is one of the three canonical levels
// after trimming and lowercasing.
func ValidLevel(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case LevelEasy, LevelMedium, LevelHard:
		return true
	}
	return false
}

// CanonicalLevel returns the lowercased canonical form of a valid level.
// Callers must check ValidLevel first.
func CanonicalLevel(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// ParseLevel coerces arbitrary classifier output into exactly one level.
// Models hedge ("medium-to-hard"), so the stricter token wins: any mention
// of hard resolves hard, then medium, then the easy default. Total function.
func ParseLevel(text string) string {
	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, LevelHard):
		return LevelHard
	case strings.Contains(lowered, LevelMedium):
		return LevelMedium
	default:
		return LevelEasy
	}
}

// BuildAnalysisPrompt assembles the mentor prompt for a submission. The
// problem and code are embedded verbatim and the response contract is spelled
// out so normalization stays mechanical. Deterministic for identical inputs.
func BuildAnalysisPrompt(problem, code, level string) string {
	builder := strings.Builder{}
	builder.WriteString("You are a competitive programming mentor reviewing a student's solution.\n\n")
	builder.WriteString("Difficulty level: ")
	builder.WriteString(level)
	builder.WriteString("\n\n## Problem\n")
	builder.WriteString(problem)
	builder.WriteString("\n\n## Submitted Code\n")
	builder.WriteString(code)
	builder.WriteString("\n\n## Instructions\n")
	builder.WriteString("Respond with a single JSON object and nothing else: no prose before or after, no markdown code fences.\n")
	builder.WriteString("The object must have exactly these keys:\n")
	builder.WriteString(`{"explanation": string, "timeComplexity": string, "spaceComplexity": string, "betterApproaches": [{"title": string, "description": string, "code": string, "timeComplexity": string, "spaceComplexity": string}], "nextSteps": string}`)
	builder.WriteString("\n")
	builder.WriteString("timeComplexity and spaceComplexity must describe the submitted code exactly as written, not an optimal solution.\n")
	builder.WriteString("If you are unsure about a field, return an empty string for it rather than omitting the key.\n")
	return builder.String()
}

// BuildClassifierPrompt asks for a one-word difficulty label.
func BuildClassifierPrompt(problem, code string) string {
	builder := strings.Builder{}
	builder.WriteString("Classify the difficulty of this competitive programming problem for the student who wrote the solution below.\n\n")
	builder.WriteString("## Problem\n")
	builder.WriteString(problem)
	builder.WriteString("\n\n## Solution\n")
	builder.WriteString(code)
	builder.WriteString("\n\nAnswer with exactly one word: easy, medium, or hard.")
	return builder.String()
}

// RecommendationItem is one line of submission history fed to the coach.
type RecommendationItem struct {
	Level   string
	Excerpt string
}

// BuildRecommendationPrompt turns a compact submission history into a
// coaching prompt. The reply is free text consumed as-is.
func BuildRecommendationPrompt(items []RecommendationItem) string {
	builder := strings.Builder{}
	builder.WriteString("You are a competitive programming coach. Here are a student's most recent analyzed submissions, newest first:\n\n")
	for _, item := range items {
		builder.WriteString("- [")
		builder.WriteString(item.Level)
		builder.WriteString("] ")
		builder.WriteString(item.Excerpt)
		builder.WriteString("\n")
	}
	builder.WriteString("\nBased on this history, describe the student's weak areas, the topics they should focus on next, and suggest 3 types of problems to attempt. Keep it short and practical.")
	return builder.String()
}
