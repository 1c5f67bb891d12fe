package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mentor-go-api/internal/dto"
)

// ErrInvalidProblemURL indicates the input does not look like a LeetCode problem URL.
var ErrInvalidProblemURL = errors.New("invalid leetcode url")

// ErrProblemNotFound indicates LeetCode has no problem for the extracted slug.
var ErrProblemNotFound = errors.New("problem not found")

var slugPattern = regexp.MustCompile(`problems/([^/]+)`)

const problemQuery = `query getQuestionDetail($titleSlug: String!) {
  question(titleSlug: $titleSlug) {
    title
    difficulty
    content
    exampleTestcases
    topicTags {
      name
    }
  }
}`

// ProblemService fetches problem statements from the public LeetCode API.
type ProblemService interface {
	Fetch(ctx context.Context, input string) (dto.ProblemResponse, error)
}

type problemService struct {
	endpoint  string
	client    *http.Client
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewProblemService constructs a problem fetcher against the given GraphQL endpoint.
func NewProblemService(endpoint string, logger zerolog.Logger) ProblemService {
	return &problemService{
		endpoint:  endpoint,
		client:    &http.Client{Timeout: 15 * time.Second},
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "problem_service").Logger(),
	}
}

// Fetch extracts the slug from a problem URL, queries the GraphQL endpoint,
// and returns the statement with all HTML markup stripped.
func (s *problemService) Fetch(ctx context.Context, input string) (dto.ProblemResponse, error) {
	match := slugPattern.FindStringSubmatch(input)
	if match == nil {
		return dto.ProblemResponse{}, ErrInvalidProblemURL
	}
	slug := match[1]

	body, err := json.Marshal(map[string]interface{}{
		"query":     problemQuery,
		"variables": map[string]string{"titleSlug": slug},
	})
	if err != nil {
		return dto.ProblemResponse{}, fmt.Errorf("encode graphql query: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return dto.ProblemResponse{}, fmt.Errorf("build graphql request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := s.client.Do(request)
	if err != nil {
		return dto.ProblemResponse{}, fmt.Errorf("fetch problem: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return dto.ProblemResponse{}, fmt.Errorf("fetch problem: unexpected status %d", response.StatusCode)
	}

	var payload struct {
		Data struct {
			Question *struct {
				Title            string `json:"title"`
				Difficulty       string `json:"difficulty"`
				Content          string `json:"content"`
				ExampleTestcases string `json:"exampleTestcases"`
				TopicTags        []struct {
					Name string `json:"name"`
				} `json:"topicTags"`
			} `json:"question"`
		} `json:"data"`
	}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return dto.ProblemResponse{}, fmt.Errorf("decode problem response: %w", err)
	}

	question := payload.Data.Question
	if question == nil {
		return dto.ProblemResponse{}, ErrProblemNotFound
	}

	tags := make([]string, 0, len(question.TopicTags))
	for _, tag := range question.TopicTags {
		tags = append(tags, tag.Name)
	}

	return dto.ProblemResponse{
		Title:       question.Title,
		Difficulty:  strings.ToLower(question.Difficulty),
		Description: s.cleanHTML(question.Content),
		Examples:    question.ExampleTestcases,
		Tags:        tags,
	}, nil
}

func (s *problemService) cleanHTML(content string) string {
	stripped := s.sanitizer.Sanitize(content)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
