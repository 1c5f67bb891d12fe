package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/mentor-go-api/internal/models"
)

// LevelCounts aggregates a user's submissions per difficulty level.
type LevelCounts struct {
	Total  int64 `json:"total"`
	Easy   int64 `json:"easy"`
	Medium int64 `json:"medium"`
	Hard   int64 `json:"hard"`
}

// SubmissionRepository exposes persistence helpers for submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	ListRecent(ctx context.Context, userID uint, limit int) ([]models.Submission, error)
	CountByLevel(ctx context.Context, userID uint) (LevelCounts, error)
}

// NewSubmissionRepository constructs a submission repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

type submissionRepository struct {
	db *gorm.DB
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) ListRecent(ctx context.Context, userID uint, limit int) ([]models.Submission, error) {
	var submissions []models.Submission
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) CountByLevel(ctx context.Context, userID uint) (LevelCounts, error) {
	type row struct {
		Level string
		Count int64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("level, count(*) as count").
		Where("user_id = ?", userID).
		Group("level").
		Scan(&rows).Error
	if err != nil {
		return LevelCounts{}, err
	}

	counts := LevelCounts{}
	for _, entry := range rows {
		counts.Total += entry.Count
		switch entry.Level {
		case "easy":
			counts.Easy = entry.Count
		case "medium":
			counts.Medium = entry.Count
		case "hard":
			counts.Hard = entry.Count
		}
	}
	return counts, nil
}
