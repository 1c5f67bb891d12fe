package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/mentor-go-api/internal/repository"
	"github.com/noah-isme/mentor-go-api/pkg/ai"
)

// NotEnoughDataMessage is returned when the user has no analyzed submissions
// yet. The model is not called in that case.
const NotEnoughDataMessage = "Not enough submission history yet. Analyze a few problems first to unlock personalized recommendations."

// RecommendationUnavailableMessage is returned when the completion provider
// is throttling requests.
const RecommendationUnavailableMessage = "Recommendations are temporarily unavailable. Please try again in a few minutes."

// excerptLimit bounds the problem excerpt fed into the coaching prompt.
const excerptLimit = 160

// RecommendationService turns recent submission history into coaching advice.
type RecommendationService interface {
	Recommend(ctx context.Context, ownerEmail string) (string, error)
}

type recommendationService struct {
	users       repository.UserRepository
	submissions repository.SubmissionRepository
	completer   ai.Completer
	window      int
	logger      zerolog.Logger
}

// NewRecommendationService constructs the recommendation engine. window is
// the number of recent submissions summarized per request.
func NewRecommendationService(users repository.UserRepository, submissions repository.SubmissionRepository, completer ai.Completer, window int, logger zerolog.Logger) RecommendationService {
	if window <= 0 {
		window = 7
	}

	return &recommendationService{
		users:       users,
		submissions: submissions,
		completer:   completer,
		window:      window,
		logger:      logger.With().Str("component", "recommendation_service").Logger(),
	}
}

// Recommend summarizes the owner's recent submissions and asks the model for
// weak areas and next problems. Rate limiting degrades to a fixed message;
// any other failure propagates so genuine defects stay visible.
func (s *recommendationService) Recommend(ctx context.Context, ownerEmail string) (string, error) {
	if strings.TrimSpace(ownerEmail) == "" {
		return "", ErrUnauthenticated
	}

	user, err := s.users.GetByEmail(ctx, ownerEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrOwnerNotFound
		}
		return "", err
	}

	recent, err := s.submissions.ListRecent(ctx, user.ID, s.window)
	if err != nil {
		return "", err
	}

	if len(recent) == 0 {
		return NotEnoughDataMessage, nil
	}

	items := make([]ai.RecommendationItem, 0, len(recent))
	for _, submission := range recent {
		items = append(items, ai.RecommendationItem{
			Level:   submission.Level,
			Excerpt: excerpt(submission.Problem),
		})
	}

	advice, err := s.completer.Complete(ctx, ai.BuildRecommendationPrompt(items), ai.CompletionOptions{})
	if err != nil {
		if errors.Is(err, ai.ErrRateLimited) {
			s.logger.Warn().Uint("user_id", user.ID).Msg("recommendation rate limited")
			return RecommendationUnavailableMessage, nil
		}
		return "", err
	}

	return advice, nil
}

func excerpt(problem string) string {
	collapsed := strings.Join(strings.Fields(problem), " ")
	if len(collapsed) <= excerptLimit {
		return collapsed
	}
	return collapsed[:excerptLimit] + "..."
}
