package models

import "time"

// QuestionType represents different types of quiz questions
type QuestionType string

const (
	// MultipleChoice asks for the translation among four options
	MultipleChoice QuestionType = "multiple_choice"
	// FillBlank asks the user to type the word for a given translation
	FillBlank QuestionType = "fill_blank"
	// AudioRecognition asks the user to type the word they hear
	AudioRecognition QuestionType = "audio"
)

// QuizQuestion represents a single generated assessment question.
// Options is populated for multiple choice questions only.
type QuizQuestion struct {
	ID            string       `json:"id" db:"id"` // uuid
	ModuleID      int64        `json:"module_id" db:"module_id"`
	Type          QuestionType `json:"type" db:"type"`
	Prompt        string       `json:"prompt" db:"prompt"`
	Options       []string     `json:"options,omitempty" db:"-"`
	CorrectAnswer string       `json:"correct_answer" db:"correct_answer"`
	Completed     bool         `json:"completed" db:"completed"`
	Correct       bool         `json:"correct" db:"correct"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
}
