package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission records one analyzed attempt: the problem, the user's code, the
// resolved difficulty, and the verbatim model output. RawAnalysis is kept
// even when it failed to parse; the normalized report is always re-derivable
// from it. Rows are append-only.
type Submission struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Problem     string    `gorm:"type:text;not null" json:"problem"`
	Code        string    `gorm:"type:text;not null" json:"code"`
	Level       string    `gorm:"size:16;not null;index" json:"level"`
	RawAnalysis string    `gorm:"type:text" json:"raw_analysis"`
	CreatedAt   time.Time `json:"created_at"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns the submission identifier.
func (s *Submission) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
