package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/linguabot/pkg/models"
)

// VocabularyRepository handles database operations for vocabulary items
type VocabularyRepository struct{}

// NewVocabularyRepository creates a new repository instance
func NewVocabularyRepository() *VocabularyRepository {
	return &VocabularyRepository{}
}

// GetAll returns the full vocabulary snapshot
func (r *VocabularyRepository) GetAll() ([]models.VocabularyItem, error) {
	var items []models.VocabularyItem
	err := DB.Select(&items, "SELECT * FROM vocabulary_items ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary items: %w", err)
	}
	return items, nil
}

// GetByID returns a vocabulary item by ID
func (r *VocabularyRepository) GetByID(id int) (*models.VocabularyItem, error) {
	var item models.VocabularyItem
	err := DB.Get(&item, DB.Rebind("SELECT * FROM vocabulary_items WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary item: %w", err)
	}
	return &item, nil
}

// GetByModule returns all items belonging to a module
func (r *VocabularyRepository) GetByModule(moduleID int64) ([]models.VocabularyItem, error) {
	var items []models.VocabularyItem
	err := DB.Select(&items, DB.Rebind("SELECT * FROM vocabulary_items WHERE module_id = ? ORDER BY id"), moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary items by module: %w", err)
	}
	return items, nil
}

// Create inserts a new vocabulary item
func (r *VocabularyRepository) Create(item *models.VocabularyItem) error {
	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO vocabulary_items (source_text, target_text, module_id, difficulty, examples)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`
		return DB.QueryRow(
			query,
			item.SourceText,
			item.TargetText,
			item.ModuleID,
			item.Difficulty,
			item.Examples,
		).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	}

	result, err := DB.Exec(
		`INSERT INTO vocabulary_items (source_text, target_text, module_id, difficulty, examples)
		 VALUES (?, ?, ?, ?, ?)`,
		item.SourceText,
		item.TargetText,
		item.ModuleID,
		item.Difficulty,
		item.Examples,
	)
	if err != nil {
		return fmt.Errorf("failed to create vocabulary item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	item.ID = int(id)

	return DB.QueryRow("SELECT created_at, updated_at FROM vocabulary_items WHERE id = ?", item.ID).
		Scan(&item.CreatedAt, &item.UpdatedAt)
}

// BulkCreate inserts a batch of items inside a single transaction,
// as produced by the import path.
func (r *VocabularyRepository) BulkCreate(items []*models.VocabularyItem) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	query := DB.Rebind(`
		INSERT INTO vocabulary_items (source_text, target_text, module_id, difficulty, examples)
		VALUES (?, ?, ?, ?, ?)
	`)
	for _, item := range items {
		result, err := tx.Exec(
			query,
			item.SourceText,
			item.TargetText,
			item.ModuleID,
			item.Difficulty,
			item.Examples,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert vocabulary item %q: %w", item.SourceText, err)
		}
		if DB.DriverName() != "postgres" {
			id, err := result.LastInsertId()
			if err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to get last insert ID: %w", err)
			}
			item.ID = int(id)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Update modifies an existing vocabulary item
func (r *VocabularyRepository) Update(item *models.VocabularyItem) error {
	query := DB.Rebind(`
		UPDATE vocabulary_items SET
			source_text = ?,
			target_text = ?,
			module_id = ?,
			learned = ?,
			last_reviewed_at = ?,
			next_review = ?,
			review_count = ?,
			difficulty = ?,
			examples = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	result, err := DB.Exec(
		query,
		item.SourceText,
		item.TargetText,
		item.ModuleID,
		item.Learned,
		item.LastReviewedAt,
		item.NextReview,
		item.ReviewCount,
		item.Difficulty,
		item.Examples,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update vocabulary item: %w", err)
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

// MarkReviewed records a review event for an item: review count increments,
// the review timestamp is stamped, and the learned flag and next review
// date are set to the caller's values.
func (r *VocabularyRepository) MarkReviewed(id int, learned bool, reviewedAt time.Time, nextReview *time.Time) error {
	query := DB.Rebind(`
		UPDATE vocabulary_items SET
			learned = ?,
			last_reviewed_at = ?,
			next_review = ?,
			review_count = review_count + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	result, err := DB.Exec(query, learned, reviewedAt, nextReview, id)
	if err != nil {
		return fmt.Errorf("failed to mark item reviewed: %w", err)
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
