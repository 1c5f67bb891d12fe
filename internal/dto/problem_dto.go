package dto

// ProblemResponse is the cleaned problem statement fetched from LeetCode.
type ProblemResponse struct {
	Title       string   `json:"title"`
	Difficulty  string   `json:"difficulty"`
	Description string   `json:"description"`
	Examples    string   `json:"examples"`
	Tags        []string `json:"tags"`
}
