package models

import "time"

// VocabularyItem represents a single source/target word pair with its learning state.
// Items are created by the import path and mutated by review events; the engine
// never deletes them.
type VocabularyItem struct {
	ID             int        `json:"id" db:"id"`
	SourceText     string     `json:"source_text" db:"source_text"`
	TargetText     string     `json:"target_text" db:"target_text"`
	ModuleID       int64      `json:"module_id" db:"module_id"`
	Learned        bool       `json:"learned" db:"learned"`
	LastReviewedAt *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
	NextReview     *time.Time `json:"next_review" db:"next_review"`
	ReviewCount    int        `json:"review_count" db:"review_count"`
	Difficulty     int        `json:"difficulty" db:"difficulty"` // 1-3 scale of difficulty
	Examples       string     `json:"examples" db:"examples"`     // newline-separated example sentences
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
