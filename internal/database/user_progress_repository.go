package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/linguabot/pkg/models"
)

// UserProgressRepository handles the single per-installation progress record
type UserProgressRepository struct{}

// NewUserProgressRepository creates a new repository instance
func NewUserProgressRepository() *UserProgressRepository {
	return &UserProgressRepository{}
}

// Get returns the progress record, creating an empty one on first run.
func (r *UserProgressRepository) Get() (*models.UserProgress, error) {
	var progress models.UserProgress
	err := DB.Get(&progress, "SELECT * FROM user_progress ORDER BY id LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		if err := r.create(&progress); err != nil {
			return nil, fmt.Errorf("failed to create user progress: %w", err)
		}
		return &progress, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user progress: %w", err)
	}
	return &progress, nil
}

func (r *UserProgressRepository) create(progress *models.UserProgress) error {
	if DB.DriverName() == "postgres" {
		return DB.QueryRow(`
			INSERT INTO user_progress (total_learned, total_reviewed, total_study_time, streak_days)
			VALUES (0, 0, 0, 0)
			RETURNING id, created_at, updated_at
		`).Scan(&progress.ID, &progress.CreatedAt, &progress.UpdatedAt)
	}

	result, err := DB.Exec(`
		INSERT INTO user_progress (total_learned, total_reviewed, total_study_time, streak_days)
		VALUES (0, 0, 0, 0)
	`)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	progress.ID = int(id)

	return DB.QueryRow("SELECT created_at, updated_at FROM user_progress WHERE id = ?", progress.ID).
		Scan(&progress.CreatedAt, &progress.UpdatedAt)
}

// Update persists the progress record
func (r *UserProgressRepository) Update(progress *models.UserProgress) error {
	query := DB.Rebind(`
		UPDATE user_progress SET
			total_learned = ?,
			total_reviewed = ?,
			last_study_date = ?,
			total_study_time = ?,
			streak_days = ?,
			current_module = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	result, err := DB.Exec(
		query,
		progress.TotalLearned,
		progress.TotalReviewed,
		progress.LastStudyDate,
		progress.TotalStudyTime,
		progress.StreakDays,
		progress.CurrentModule,
		progress.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user progress: %w", err)
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
