package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/linguabot/pkg/models"
)

// ModuleRepository handles database operations for modules
type ModuleRepository struct{}

// NewModuleRepository creates a new repository instance
func NewModuleRepository() *ModuleRepository {
	return &ModuleRepository{}
}

// GetAll returns all modules in display order
func (r *ModuleRepository) GetAll() ([]models.Module, error) {
	var modules []models.Module
	err := DB.Select(&modules, "SELECT * FROM modules ORDER BY sort_order, title")
	if err != nil {
		return nil, fmt.Errorf("failed to get modules: %w", err)
	}
	return modules, nil
}

// GetByID returns a module by ID
func (r *ModuleRepository) GetByID(id int64) (*models.Module, error) {
	var module models.Module
	err := DB.Get(&module, DB.Rebind("SELECT * FROM modules WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get module: %w", err)
	}
	return &module, nil
}

// GetByTitle returns a module by its unique title
func (r *ModuleRepository) GetByTitle(title string) (*models.Module, error) {
	var module models.Module
	err := DB.Get(&module, DB.Rebind("SELECT * FROM modules WHERE title = ?"), title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get module by title: %w", err)
	}
	return &module, nil
}

// Create inserts a new module
func (r *ModuleRepository) Create(module *models.Module) error {
	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO modules (title, description, level, theme, sort_order)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`
		return DB.QueryRow(
			query,
			module.Title,
			module.Description,
			module.Level,
			module.Theme,
			module.SortOrder,
		).Scan(&module.ID, &module.CreatedAt, &module.UpdatedAt)
	}

	result, err := DB.Exec(
		`INSERT INTO modules (title, description, level, theme, sort_order)
		 VALUES (?, ?, ?, ?, ?)`,
		module.Title,
		module.Description,
		module.Level,
		module.Theme,
		module.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	module.ID = id

	return DB.QueryRow("SELECT created_at, updated_at FROM modules WHERE id = ?", module.ID).
		Scan(&module.CreatedAt, &module.UpdatedAt)
}

// Update modifies an existing module's descriptive fields
func (r *ModuleRepository) Update(module *models.Module) error {
	query := DB.Rebind(`
		UPDATE modules SET
			title = ?,
			description = ?,
			level = ?,
			theme = ?,
			sort_order = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	result, err := DB.Exec(
		query,
		module.Title,
		module.Description,
		module.Level,
		module.Theme,
		module.SortOrder,
		module.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update module: %w", err)
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

// UpdateDerived persists the derived progress fields recomputed by the
// aggregator. All module completion writes go through here.
func (r *ModuleRepository) UpdateDerived(moduleID int64, progress int, completed bool, wordCount int) error {
	query := DB.Rebind(`
		UPDATE modules SET
			progress = ?,
			completed = ?,
			word_count = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	result, err := DB.Exec(query, progress, completed, wordCount, moduleID)
	if err != nil {
		return fmt.Errorf("failed to update module progress: %w", err)
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

// Delete removes a module together with its vocabulary and quiz questions
func (r *ModuleRepository) Delete(id int64) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	if _, err := tx.Exec(DB.Rebind("DELETE FROM quiz_questions WHERE module_id = ?"), id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete quiz questions: %w", err)
	}

	if _, err := tx.Exec(DB.Rebind("DELETE FROM vocabulary_items WHERE module_id = ?"), id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete vocabulary items: %w", err)
	}

	result, err := tx.Exec(DB.Rebind("DELETE FROM modules WHERE id = ?"), id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete module: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
