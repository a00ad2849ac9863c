package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/linguabot/internal/database"
	"github.com/example/linguabot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath         string // Path to the Excel or CSV file
	SourceColumn     string // Column with the word in the studied language
	TargetColumn     string // Column with the translation
	ExamplesColumn   string // Column with example sentences
	ModuleColumn     string // Column with the module title
	LevelColumn      string // Column with the module level tag
	DifficultyColumn string // Column with the difficulty
	SheetName        string // Name of the sheet to import
	StartRow         int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SourceColumn:     "A",
		TargetColumn:     "B",
		ExamplesColumn:   "C",
		ModuleColumn:     "D",
		LevelColumn:      "E",
		DifficultyColumn: "F",
		SheetName:        "Sheet1",
		StartRow:         2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	ModulesCreated int
	Created        int
	Updated        int
	Errors         []string
}

// ImportVocabulary imports vocabulary items from an Excel or CSV file,
// creating modules on the fly when a row names one that doesn't exist yet.
// Derived module progress is not touched here; callers run a reconciliation
// pass after the import batch.
func ImportVocabulary(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(config)
	}
	return importFromExcel(config)
}

// importer carries the repositories and module lookup cache for one run
type importer struct {
	moduleRepo *database.ModuleRepository
	vocabRepo  *database.VocabularyRepository
	moduleMap  map[string]int64
	result     *ImportResult
}

func newImporter() (*importer, error) {
	imp := &importer{
		moduleRepo: database.NewModuleRepository(),
		vocabRepo:  database.NewVocabularyRepository(),
		moduleMap:  make(map[string]int64),
		result:     &ImportResult{Errors: make([]string, 0)},
	}

	existing, err := imp.moduleRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get existing modules: %w", err)
	}
	for _, m := range existing {
		imp.moduleMap[strings.ToLower(m.Title)] = m.ID
	}
	return imp, nil
}

// importFromExcel imports vocabulary from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	imp, err := newImporter()
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		imp.result.TotalProcessed++

		if err := imp.processRow(row, config, i+1); err != nil {
			imp.result.Errors = append(imp.result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return imp.result, nil
}

// importFromCSV imports vocabulary from a CSV file using the same column layout
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	imp, err := newImporter()
	if err != nil {
		return nil, err
	}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}

		imp.result.TotalProcessed++

		if err := imp.processRow(row, config, rowNum); err != nil {
			imp.result.Errors = append(imp.result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return imp.result, nil
}

// processRow extracts the configured columns from a row and stores the item
func (imp *importer) processRow(row []string, config ImportConfig, rowNum int) error {
	cell := func(column string) string {
		if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	source := cell(config.SourceColumn)
	target := cell(config.TargetColumn)
	examples := cell(config.ExamplesColumn)
	moduleTitle := cell(config.ModuleColumn)
	level := cell(config.LevelColumn)
	difficulty := parseIntOrDefault(cell(config.DifficultyColumn), 1, 3, 1)

	if source == "" {
		return fmt.Errorf("source word cannot be empty")
	}
	if target == "" {
		return fmt.Errorf("translation cannot be empty")
	}
	if moduleTitle == "" {
		return fmt.Errorf("module title cannot be empty")
	}

	moduleID, err := imp.getOrCreateModule(moduleTitle, level)
	if err != nil {
		return err
	}

	// Update in place when the word was already imported into this module
	existing, err := imp.vocabRepo.GetByModule(moduleID)
	if err != nil {
		return fmt.Errorf("failed to check existing items: %w", err)
	}
	for _, item := range existing {
		if strings.EqualFold(item.SourceText, source) {
			item.TargetText = target
			item.Difficulty = difficulty
			if examples != "" {
				item.Examples = examples
			}
			if err := imp.vocabRepo.Update(&item); err != nil {
				return fmt.Errorf("failed to update item: %w", err)
			}
			imp.result.Updated++
			return nil
		}
	}

	item := &models.VocabularyItem{
		SourceText: source,
		TargetText: target,
		ModuleID:   moduleID,
		Difficulty: difficulty,
		Examples:   examples,
	}
	if err := imp.vocabRepo.Create(item); err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	imp.result.Created++
	return nil
}

// getOrCreateModule resolves a module title to an id, creating the module
// on first sight
func (imp *importer) getOrCreateModule(title, level string) (int64, error) {
	key := strings.ToLower(title)
	if id, exists := imp.moduleMap[key]; exists {
		return id, nil
	}

	module := &models.Module{
		Title:     title,
		Level:     level,
		Theme:     title,
		SortOrder: len(imp.moduleMap) + 1,
	}
	if err := imp.moduleRepo.Create(module); err != nil {
		return 0, fmt.Errorf("failed to create module: %w", err)
	}

	imp.moduleMap[key] = module.ID
	imp.result.ModulesCreated++
	return module.ID, nil
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}

// Helper function to parse integer within a range with a default
func parseIntOrDefault(s string, min, max, defaultVal int) int {
	var val int
	if _, err := fmt.Sscanf(s, "%d", &val); err != nil {
		return defaultVal
	}
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
