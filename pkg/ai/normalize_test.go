package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeAnalysisParsesCompleteResponse(t *testing.T) {
	raw := `{
		"explanation": "Brute force over all pairs.",
		"timeComplexity": "O(n^2)",
		"spaceComplexity": "O(1)",
		"betterApproaches": [
			{"title": "Hash map", "description": "Track complements.", "code": "seen := map[int]int{}", "timeComplexity": "O(n)", "spaceComplexity": "O(n)"}
		],
		"nextSteps": "Practice hash-based lookups."
	}`

	report := NormalizeAnalysis(raw)
	require.Equal(t, "Brute force over all pairs.", report.Explanation)
	require.Equal(t, "O(n^2)", report.TimeComplexity)
	require.Equal(t, "O(1)", report.SpaceComplexity)
	require.Len(t, report.BetterApproaches, 1)
	require.Equal(t, "Hash map", report.BetterApproaches[0].Title)
	require.Equal(t, "Practice hash-based lookups.", report.NextSteps)
}

func TestNormalizeAnalysisKeepsMalformedTextAsExplanation(t *testing.T) {
	raw := "Your loop is quadratic; consider sorting first."

	report := NormalizeAnalysis(raw)
	require.Equal(t, raw, report.Explanation)
	require.Empty(t, report.TimeComplexity)
	require.Empty(t, report.SpaceComplexity)
	require.Empty(t, report.NextSteps)
	require.NotNil(t, report.BetterApproaches)
	require.Empty(t, report.BetterApproaches)
}

func TestNormalizeAnalysisCoercesMissingKeys(t *testing.T) {
	report := NormalizeAnalysis(`{"explanation": "partial answer"}`)
	require.Equal(t, "partial answer", report.Explanation)
	require.Equal(t, "", report.TimeComplexity)
	require.Equal(t, "", report.SpaceComplexity)
	require.Equal(t, "", report.NextSteps)
	require.Equal(t, []Approach{}, report.BetterApproaches)
}

func TestNormalizeAnalysisCoercesWrongTypes(t *testing.T) {
	raw := `{
		"explanation": 42,
		"timeComplexity": ["O(n)"],
		"spaceComplexity": null,
		"betterApproaches": "not a list",
		"nextSteps": {"text": "nested"}
	}`

	report := NormalizeAnalysis(raw)
	require.Equal(t, "", report.Explanation)
	require.Equal(t, "", report.TimeComplexity)
	require.Equal(t, "", report.SpaceComplexity)
	require.Equal(t, "", report.NextSteps)
	require.Equal(t, []Approach{}, report.BetterApproaches)
}

func TestNormalizeAnalysisKeepsApproachWithMalformedSibling(t *testing.T) {
	raw := `{
		"betterApproaches": [
			{"title": "Two pointers", "description": 7, "code": "l, r := 0, n-1", "timeComplexity": "O(n)", "spaceComplexity": "O(1)"},
			"garbage",
			{"title": "Sorting"}
		]
	}`

	report := NormalizeAnalysis(raw)
	require.Len(t, report.BetterApproaches, 2)
	require.Equal(t, "Two pointers", report.BetterApproaches[0].Title)
	require.Equal(t, "", report.BetterApproaches[0].Description)
	require.Equal(t, "O(n)", report.BetterApproaches[0].TimeComplexity)
	require.Equal(t, "Sorting", report.BetterApproaches[1].Title)
	require.Equal(t, "", report.BetterApproaches[1].Code)
}

func TestNormalizeAnalysisNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"null",
		"[]",
		`"just a string"`,
		"{",
		`{"betterApproaches": [null, 1, []]}`,
		"\x00\xff",
	}

	for _, input := range inputs {
		report := NormalizeAnalysis(input)
		require.NotNil(t, report.BetterApproaches)
	}
}
