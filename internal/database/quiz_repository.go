package database

import (
	"fmt"
	"strings"

	"github.com/example/linguabot/pkg/models"
)

// QuizRepository handles database operations for generated quiz questions
type QuizRepository struct{}

// NewQuizRepository creates a new repository instance
func NewQuizRepository() *QuizRepository {
	return &QuizRepository{}
}

// Multiple choice options are stored in a single text column.
// Words never contain newlines, so a newline separator is safe.
const optionSeparator = "\n"

type quizQuestionRow struct {
	models.QuizQuestion
	OptionsRaw string `db:"options"`
}

// GetByModule returns the stored questions for a module in generation order
func (r *QuizRepository) GetByModule(moduleID int64) ([]models.QuizQuestion, error) {
	var rows []quizQuestionRow
	err := DB.Select(&rows, DB.Rebind("SELECT * FROM quiz_questions WHERE module_id = ? ORDER BY created_at, id"), moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz questions: %w", err)
	}

	questions := make([]models.QuizQuestion, len(rows))
	for i, row := range rows {
		q := row.QuizQuestion
		if row.OptionsRaw != "" {
			q.Options = strings.Split(row.OptionsRaw, optionSeparator)
		}
		questions[i] = q
	}
	return questions, nil
}

// ReplaceForModule discards all previously generated questions for the module
// and stores the new set. Regeneration is a full replace, never a merge.
func (r *QuizRepository) ReplaceForModule(moduleID int64, questions []models.QuizQuestion) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	if _, err := tx.Exec(DB.Rebind("DELETE FROM quiz_questions WHERE module_id = ?"), moduleID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete old quiz questions: %w", err)
	}

	query := DB.Rebind(`
		INSERT INTO quiz_questions (id, module_id, type, prompt, options, correct_answer, completed, correct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	for _, q := range questions {
		_, err := tx.Exec(
			query,
			q.ID,
			q.ModuleID,
			q.Type,
			q.Prompt,
			strings.Join(q.Options, optionSeparator),
			q.CorrectAnswer,
			q.Completed,
			q.Correct,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert quiz question: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RecordAnswer stores the outcome of one answered question so an interrupted
// session can be rebuilt with its partial score.
func (r *QuizRepository) RecordAnswer(id string, correct bool) error {
	result, err := DB.Exec(DB.Rebind("UPDATE quiz_questions SET completed = ?, correct = ? WHERE id = ?"), true, correct, id)
	if err != nil {
		return fmt.Errorf("failed to record quiz answer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetCompletion clears the stored answers for a module's questions,
// used when a session restarts over the same question set.
func (r *QuizRepository) ResetCompletion(moduleID int64) error {
	_, err := DB.Exec(DB.Rebind("UPDATE quiz_questions SET completed = ?, correct = ? WHERE module_id = ?"), false, false, moduleID)
	if err != nil {
		return fmt.Errorf("failed to reset question completion: %w", err)
	}
	return nil
}
