package models

import "time"

// Module represents a thematic grouping of vocabulary items.
// Progress, Completed and WordCount are derived fields: they are recomputed
// from vocabulary state by the progress aggregator and cached here.
type Module struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Level       string    `json:"level" db:"level"` // e.g. "A1", "B2"
	Theme       string    `json:"theme" db:"theme"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	Completed   bool      `json:"completed" db:"completed"`
	Progress    int       `json:"progress" db:"progress"` // 0-100
	WordCount   int       `json:"word_count" db:"word_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
