package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/mentor-go-api/internal/dto"
	"github.com/noah-isme/mentor-go-api/internal/models"
	"github.com/noah-isme/mentor-go-api/internal/repository"
	"github.com/noah-isme/mentor-go-api/pkg/ai"
)

// ErrUnauthenticated indicates no owner reference accompanied the request.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrOwnerNotFound indicates the owner reference does not resolve to a user.
var ErrOwnerNotFound = errors.New("owner not found")

// ErrModelUnavailable indicates the completion service errored for a reason
// other than rate limiting.
var ErrModelUnavailable = errors.New("model unavailable")

// ErrAnalysisFailed wraps any other internal failure; its message is safe to
// show to callers, the underlying cause is only logged.
var ErrAnalysisFailed = errors.New("analysis failed")

// AnalysisService runs the submission analysis pipeline and serves the
// submission history and dashboard aggregates derived from it.
type AnalysisService interface {
	Analyze(ctx context.Context, ownerEmail string, payload dto.AnalyzeRequest) (dto.AnalyzeResponse, error)
	ListSubmissions(ctx context.Context, ownerEmail string) ([]dto.SubmissionResponse, error)
	Stats(ctx context.Context, ownerEmail string) (dto.StatsResponse, error)
}

type analysisService struct {
	users       repository.UserRepository
	submissions repository.SubmissionRepository
	completer   ai.Completer
	cache       *redis.Client
	cacheTTL    time.Duration
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewAnalysisService constructs the analysis pipeline service.
func NewAnalysisService(users repository.UserRepository, submissions repository.SubmissionRepository, completer ai.Completer, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) AnalysisService {
	return &analysisService{
		users:       users,
		submissions: submissions,
		completer:   completer,
		cache:       cache,
		cacheTTL:    cacheTTL,
		validator:   validate,
		logger:      logger.With().Str("component", "analysis_service").Logger(),
	}
}

// Analyze resolves the owner, settles the difficulty level once, asks the
// model for feedback, normalizes whatever comes back, and stores the verbatim
// model text. Malformed model content never fails the request; only
// infrastructure errors do.
func (s *analysisService) Analyze(ctx context.Context, ownerEmail string, payload dto.AnalyzeRequest) (dto.AnalyzeResponse, error) {
	if strings.TrimSpace(ownerEmail) == "" {
		return dto.AnalyzeResponse{}, ErrUnauthenticated
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.AnalyzeResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, ownerEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnalyzeResponse{}, ErrOwnerNotFound
		}
		s.logger.Error().Err(err).Msg("owner lookup failed")
		return dto.AnalyzeResponse{}, ErrAnalysisFailed
	}

	level, err := s.resolveLevel(ctx, payload)
	if err != nil {
		return dto.AnalyzeResponse{}, err
	}

	prompt := ai.BuildAnalysisPrompt(payload.Problem, payload.Code, level)
	raw, err := s.completer.Complete(ctx, prompt, ai.CompletionOptions{ForceJSON: true})
	if err != nil {
		return dto.AnalyzeResponse{}, s.completionError(err)
	}

	report := ai.NormalizeAnalysis(raw)

	submission := models.Submission{
		UserID:      user.ID,
		Problem:     payload.Problem,
		Code:        payload.Code,
		Level:       level,
		RawAnalysis: raw,
	}
	if err := s.submissions.Create(ctx, &submission); err != nil {
		s.logger.Error().Err(err).Msg("failed to store submission")
		return dto.AnalyzeResponse{}, ErrAnalysisFailed
	}

	s.invalidateStats(ctx, user.ID)

	return dto.AnalyzeResponse{
		ID:       submission.ID.String(),
		Level:    level,
		Analysis: report,
	}, nil
}

// ListSubmissions returns the owner's full history, newest first.
func (s *analysisService) ListSubmissions(ctx context.Context, ownerEmail string) ([]dto.SubmissionResponse, error) {
	user, err := s.resolveOwner(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissions.ListRecent(ctx, user.ID, 0)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list submissions")
		return nil, ErrAnalysisFailed
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

// Stats aggregates submission counts per level, cached briefly in Redis.
func (s *analysisService) Stats(ctx context.Context, ownerEmail string) (dto.StatsResponse, error) {
	user, err := s.resolveOwner(ctx, ownerEmail)
	if err != nil {
		return dto.StatsResponse{}, err
	}

	cacheKey := statsCacheKey(user.ID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.StatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("user_id", user.ID).Msg("stats cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read stats cache")
		}
	}

	counts, err := s.submissions.CountByLevel(ctx, user.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count submissions")
		return dto.StatsResponse{}, ErrAnalysisFailed
	}

	response := dto.StatsResponse{
		Total:  counts.Total,
		Easy:   counts.Easy,
		Medium: counts.Medium,
		Hard:   counts.Hard,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store stats cache")
			}
		}
	}

	return response, nil
}

// resolveLevel trusts the caller's hint only when it is one of the three
// valid tokens; everything else goes through the classifier.
func (s *analysisService) resolveLevel(ctx context.Context, payload dto.AnalyzeRequest) (string, error) {
	if ai.ValidLevel(payload.Level) {
		return ai.CanonicalLevel(payload.Level), nil
	}

	answer, err := s.completer.Complete(ctx, ai.BuildClassifierPrompt(payload.Problem, payload.Code), ai.CompletionOptions{
		Temperature: 0,
		MaxTokens:   8,
	})
	if err != nil {
		return "", s.completionError(err)
	}

	return ai.ParseLevel(answer), nil
}

func (s *analysisService) resolveOwner(ctx context.Context, ownerEmail string) (models.User, error) {
	if strings.TrimSpace(ownerEmail) == "" {
		return models.User{}, ErrUnauthenticated
	}

	user, err := s.users.GetByEmail(ctx, ownerEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrOwnerNotFound
		}
		s.logger.Error().Err(err).Msg("owner lookup failed")
		return models.User{}, ErrAnalysisFailed
	}
	return user, nil
}

// completionError keeps the rate-limit condition distinguishable and folds
// every other provider failure into ErrModelUnavailable.
func (s *analysisService) completionError(err error) error {
	if errors.Is(err, ai.ErrRateLimited) {
		return err
	}
	s.logger.Error().Err(err).Msg("completion request failed")
	return ErrModelUnavailable
}

func (s *analysisService) invalidateStats(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey(userID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to invalidate stats cache")
	}
}

func statsCacheKey(userID uint) string {
	return fmt.Sprintf("stats:user:%d", userID)
}
