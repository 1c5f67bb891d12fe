package ai

import (
	"encoding/json"
	"strings"
)

// NormalizeAnalysis coerces raw model output into a fully populated
// AnalysisReport. It never fails: text that is not a JSON object becomes the
// explanation so the user still sees whatever the model said, and every field
// of a parsed object is coerced independently so one malformed value cannot
// discard its siblings.
func NormalizeAnalysis(raw string) AnalysisReport {
	report := AnalysisReport{BetterApproaches: []Approach{}}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil || payload == nil {
		report.Explanation = raw
		return report
	}

	report.Explanation = stringField(payload, "explanation")
	report.TimeComplexity = stringField(payload, "timeComplexity")
	report.SpaceComplexity = stringField(payload, "spaceComplexity")
	report.NextSteps = stringField(payload, "nextSteps")
	report.BetterApproaches = approachList(payload["betterApproaches"])

	return report
}

func stringField(payload map[string]interface{}, key string) string {
	value, ok := payload[key].(string)
	if !ok {
		return ""
	}
	return value
}

func approachList(value interface{}) []Approach {
	items, ok := value.([]interface{})
	if !ok {
		return []Approach{}
	}

	approaches := make([]Approach, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		approaches = append(approaches, Approach{
			Title:           stringField(entry, "title"),
			Description:     stringField(entry, "description"),
			Code:            stringField(entry, "code"),
			TimeComplexity:  stringField(entry, "timeComplexity"),
			SpaceComplexity: stringField(entry, "spaceComplexity"),
		})
	}
	return approaches
}
