package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/mentor-go-api/internal/dto"
	"github.com/noah-isme/mentor-go-api/internal/models"
	"github.com/noah-isme/mentor-go-api/internal/repository"
	"github.com/noah-isme/mentor-go-api/pkg/ai"
)

type stubUserRepo struct {
	users map[string]models.User
	err   error
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if s.err != nil {
		return s.err
	}
	if user.ID == 0 {
		user.ID = uint(len(s.users) + 1)
	}
	if s.users == nil {
		s.users = map[string]models.User{}
	}
	s.users[user.Email] = *user
	return nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.err != nil {
		return models.User{}, s.err
	}
	user, ok := s.users[email]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

type stubSubmissionRepo struct {
	created    []models.Submission
	recent     []models.Submission
	counts     repository.LevelCounts
	createErr  error
	listErr    error
	countErr   error
	countCalls int
}

func (s *stubSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	if s.createErr != nil {
		return s.createErr
	}
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	s.created = append(s.created, *submission)
	return nil
}

func (s *stubSubmissionRepo) ListRecent(ctx context.Context, userID uint, limit int) ([]models.Submission, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if limit > 0 && len(s.recent) > limit {
		return s.recent[:limit], nil
	}
	return s.recent, nil
}

func (s *stubSubmissionRepo) CountByLevel(ctx context.Context, userID uint) (repository.LevelCounts, error) {
	s.countCalls++
	if s.countErr != nil {
		return repository.LevelCounts{}, s.countErr
	}
	return s.counts, nil
}

type stubCompleter struct {
	responses []string
	prompts   []string
	err       error
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string, opts ai.CompletionOptions) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", nil
	}
	response := s.responses[0]
	s.responses = s.responses[1:]
	return response, nil
}

func userRepoWith(email string) *stubUserRepo {
	return &stubUserRepo{users: map[string]models.User{
		email: {ID: 1, Name: "Jane", Email: email},
	}}
}

func newAnalysisService(users repository.UserRepository, submissions repository.SubmissionRepository, completer ai.Completer) AnalysisService {
	return NewAnalysisService(users, submissions, completer, nil, time.Minute, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
}

func validAnalyzeRequest(level string) dto.AnalyzeRequest {
	return dto.AnalyzeRequest{
		Problem: "Given an array of integers, return indices of two numbers adding to a target.",
		Code:    "for i := range nums {}",
		Level:   level,
	}
}

func TestAnalyzeTrustsValidLevelHint(t *testing.T) {
	submissions := &stubSubmissionRepo{}
	completer := &stubCompleter{responses: []string{`{"explanation": "ok", "timeComplexity": "O(n)", "spaceComplexity": "O(1)", "betterApproaches": [], "nextSteps": "keep going"}`}}
	svc := newAnalysisService(userRepoWith("jane@example.com"), submissions, completer)

	resp, err := svc.Analyze(context.Background(), "jane@example.com", validAnalyzeRequest(" Hard "))
	require.NoError(t, err)
	require.Equal(t, "hard", resp.Level)
	require.Equal(t, "ok", resp.Analysis.Explanation)
	require.NotEmpty(t, resp.ID)

	require.Len(t, completer.prompts, 1, "classifier must not run when the hint is valid")
	require.Contains(t, completer.prompts[0], "competitive programming mentor")

	require.Len(t, submissions.created, 1)
	require.Equal(t, "hard", submissions.created[0].Level)
}

func TestAnalyzeClassifiesWhenHintInvalid(t *testing.T) {
	submissions := &stubSubmissionRepo{}
	completer := &stubCompleter{responses: []string{
		"I would call this medium-to-hard.",
		`{"explanation": "fine"}`,
	}}
	svc := newAnalysisService(userRepoWith("jane@example.com"), submissions, completer)

	resp, err := svc.Analyze(context.Background(), "jane@example.com", validAnalyzeRequest("expert"))
	require.NoError(t, err)
	require.Equal(t, "hard", resp.Level)

	require.Len(t, completer.prompts, 2)
	require.Contains(t, completer.prompts[0], "exactly one word")
}

func TestAnalyzePersistsRawModelTextVerbatim(t *testing.T) {
	raw := "not json at all, but still useful advice"
	submissions := &stubSubmissionRepo{}
	completer := &stubCompleter{responses: []string{raw}}
	svc := newAnalysisService(userRepoWith("jane@example.com"), submissions, completer)

	resp, err := svc.Analyze(context.Background(), "jane@example.com", validAnalyzeRequest("easy"))
	require.NoError(t, err, "malformed model output must not fail the request")
	require.Equal(t, raw, resp.Analysis.Explanation)
	require.Equal(t, raw, submissions.created[0].RawAnalysis)
	require.NotNil(t, resp.Analysis.BetterApproaches)
}

func TestAnalyzeRequiresOwnerReference(t *testing.T) {
	svc := newAnalysisService(&stubUserRepo{}, &stubSubmissionRepo{}, &stubCompleter{})

	_, err := svc.Analyze(context.Background(), "  ", validAnalyzeRequest("easy"))
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAnalyzeUnknownOwnerCreatesNothing(t *testing.T) {
	submissions := &stubSubmissionRepo{}
	svc := newAnalysisService(&stubUserRepo{users: map[string]models.User{}}, submissions, &stubCompleter{})

	_, err := svc.Analyze(context.Background(), "ghost@example.com", validAnalyzeRequest("easy"))
	require.ErrorIs(t, err, ErrOwnerNotFound)
	require.Empty(t, submissions.created)
}

func TestAnalyzeSurfacesRateLimit(t *testing.T) {
	completer := &stubCompleter{err: ai.ErrRateLimited}
	svc := newAnalysisService(userRepoWith("jane@example.com"), &stubSubmissionRepo{}, completer)

	_, err := svc.Analyze(context.Background(), "jane@example.com", validAnalyzeRequest("easy"))
	require.ErrorIs(t, err, ai.ErrRateLimited)
}

func TestAnalyzeMapsProviderFailureToModelUnavailable(t *testing.T) {
	completer := &stubCompleter{err: errors.New("connection refused")}
	svc := newAnalysisService(userRepoWith("jane@example.com"), &stubSubmissionRepo{}, completer)

	_, err := svc.Analyze(context.Background(), "jane@example.com", validAnalyzeRequest("easy"))
	require.ErrorIs(t, err, ErrModelUnavailable)
}

func TestAnalyzeStoreFailureBecomesAnalysisFailed(t *testing.T) {
	submissions := &stubSubmissionRepo{createErr: errors.New("disk full")}
	completer := &stubCompleter{responses: []string{"{}"}}
	svc := newAnalysisService(userRepoWith("jane@example.com"), submissions, completer)

	_, err := svc.Analyze(context.Background(), "jane@example.com", validAnalyzeRequest("easy"))
	require.ErrorIs(t, err, ErrAnalysisFailed)
	require.NotContains(t, err.Error(), "disk full")
}

func TestAnalyzeTwiceCreatesTwoRecords(t *testing.T) {
	submissions := &stubSubmissionRepo{}
	completer := &stubCompleter{responses: []string{"{}", "{}"}}
	svc := newAnalysisService(userRepoWith("jane@example.com"), submissions, completer)

	first, err := svc.Analyze(context.Background(), "jane@example.com", validAnalyzeRequest("easy"))
	require.NoError(t, err)
	second, err := svc.Analyze(context.Background(), "jane@example.com", validAnalyzeRequest("easy"))
	require.NoError(t, err)

	require.Len(t, submissions.created, 2)
	require.NotEqual(t, first.ID, second.ID)
}

func TestAnalyzeRejectsInvalidPayload(t *testing.T) {
	svc := newAnalysisService(userRepoWith("jane@example.com"), &stubSubmissionRepo{}, &stubCompleter{})

	_, err := svc.Analyze(context.Background(), "jane@example.com", dto.AnalyzeRequest{Problem: "short", Code: ""})
	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
}

func TestListSubmissionsNormalizesStoredAnalyses(t *testing.T) {
	submissions := &stubSubmissionRepo{recent: []models.Submission{
		{ID: uuid.New(), UserID: 1, Problem: "p", Code: "c", Level: "easy", RawAnalysis: `{"explanation": "parsed"}`},
		{ID: uuid.New(), UserID: 1, Problem: "p", Code: "c", Level: "hard", RawAnalysis: "plain text"},
	}}
	svc := newAnalysisService(userRepoWith("jane@example.com"), submissions, &stubCompleter{})

	listed, err := svc.ListSubmissions(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "parsed", listed[0].Analysis.Explanation)
	require.Equal(t, "plain text", listed[1].Analysis.Explanation)
	require.NotNil(t, listed[1].Analysis.BetterApproaches)
}

func TestStatsUsesCacheOnSecondCall(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	submissions := &stubSubmissionRepo{counts: repository.LevelCounts{Total: 4, Easy: 1, Medium: 2, Hard: 1}}
	svc := NewAnalysisService(userRepoWith("jane@example.com"), submissions, &stubCompleter{}, cache, time.Minute, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	first, err := svc.Stats(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, int64(4), first.Total)

	second, err := svc.Stats(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, submissions.countCalls, "second call should be served from cache")
}

func TestStatsWithoutCacheStillAggregates(t *testing.T) {
	submissions := &stubSubmissionRepo{counts: repository.LevelCounts{Total: 2, Easy: 2}}
	svc := newAnalysisService(userRepoWith("jane@example.com"), submissions, &stubCompleter{})

	stats, err := svc.Stats(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, dto.StatsResponse{Total: 2, Easy: 2}, stats)
}

func TestAnalyzeInvalidatesStatsCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	submissions := &stubSubmissionRepo{counts: repository.LevelCounts{Total: 1, Easy: 1}}
	completer := &stubCompleter{responses: []string{"{}"}}
	svc := NewAnalysisService(userRepoWith("jane@example.com"), submissions, completer, cache, time.Minute, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	_, err := svc.Stats(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.True(t, mr.Exists("stats:user:1"))

	_, err = svc.Analyze(context.Background(), "jane@example.com", validAnalyzeRequest("easy"))
	require.NoError(t, err)
	require.False(t, mr.Exists("stats:user:1"))
}

func TestExcerptHelperIsUsedForLongProblems(t *testing.T) {
	long := strings.Repeat("word ", 100)
	shortened := excerpt(long)
	require.LessOrEqual(t, len(shortened), excerptLimit+3)
	require.True(t, strings.HasSuffix(shortened, "..."))
}
