package models

import "time"

// UserProgress is the single per-installation record of overall learning state.
// It is lazily created on first access and updated after every study session.
type UserProgress struct {
	ID             int        `json:"id" db:"id"`
	TotalLearned   int        `json:"total_learned" db:"total_learned"`
	TotalReviewed  int        `json:"total_reviewed" db:"total_reviewed"`
	LastStudyDate  *time.Time `json:"last_study_date" db:"last_study_date"`
	TotalStudyTime int        `json:"total_study_time" db:"total_study_time"` // minutes
	StreakDays     int        `json:"streak_days" db:"streak_days"`
	CurrentModule  *int64     `json:"current_module" db:"current_module"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
