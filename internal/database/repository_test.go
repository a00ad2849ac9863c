package database

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/linguabot/pkg/models"
)

// setupTestDB points the package at a fresh in-memory SQLite database
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	previous := DB
	DB = db
	require.NoError(t, initializeSchema())

	t.Cleanup(func() {
		db.Close()
		DB = previous
	})
}

func createTestModule(t *testing.T, title string) *models.Module {
	t.Helper()
	module := &models.Module{Title: title, Level: "A1", Theme: title}
	require.NoError(t, NewModuleRepository().Create(module))
	return module
}

func TestModuleRepository_CreateAndGet(t *testing.T) {
	setupTestDB(t)
	repo := NewModuleRepository()

	module := createTestModule(t, "Casa e família")
	require.NotZero(t, module.ID)

	got, err := repo.GetByID(module.ID)
	require.NoError(t, err)
	assert.Equal(t, "Casa e família", got.Title)
	assert.Equal(t, 0, got.Progress)
	assert.False(t, got.Completed)

	byTitle, err := repo.GetByTitle("Casa e família")
	require.NoError(t, err)
	assert.Equal(t, module.ID, byTitle.ID)
}

func TestModuleRepository_NotFound(t *testing.T) {
	setupTestDB(t)
	repo := NewModuleRepository()

	_, err := repo.GetByID(42)
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.UpdateDerived(42, 50, false, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestModuleRepository_UpdateDerived(t *testing.T) {
	setupTestDB(t)
	repo := NewModuleRepository()
	module := createTestModule(t, "Viagem")

	require.NoError(t, repo.UpdateDerived(module.ID, 100, true, 12))

	got, err := repo.GetByID(module.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)
	assert.True(t, got.Completed)
	assert.Equal(t, 12, got.WordCount)
}

func TestVocabularyRepository_CreateAndQuery(t *testing.T) {
	setupTestDB(t)
	module := createTestModule(t, "Comida")
	repo := NewVocabularyRepository()

	item := &models.VocabularyItem{
		SourceText: "pao",
		TargetText: "pain",
		ModuleID:   module.ID,
		Difficulty: 1,
	}
	require.NoError(t, repo.Create(item))
	require.NotZero(t, item.ID)

	other := &models.VocabularyItem{SourceText: "sol", TargetText: "soleil", ModuleID: module.ID + 1, Difficulty: 1}
	require.NoError(t, repo.Create(other))

	byModule, err := repo.GetByModule(module.ID)
	require.NoError(t, err)
	require.Len(t, byModule, 1)
	assert.Equal(t, "pao", byModule[0].SourceText)
	assert.False(t, byModule[0].Learned)
	assert.Nil(t, byModule[0].LastReviewedAt)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestVocabularyRepository_BulkCreate(t *testing.T) {
	setupTestDB(t)
	module := createTestModule(t, "Animais")
	repo := NewVocabularyRepository()

	items := []*models.VocabularyItem{
		{SourceText: "gato", TargetText: "chat", ModuleID: module.ID, Difficulty: 1},
		{SourceText: "cao", TargetText: "chien", ModuleID: module.ID, Difficulty: 2},
	}
	require.NoError(t, repo.BulkCreate(items))
	assert.NotZero(t, items[0].ID)
	assert.NotZero(t, items[1].ID)

	byModule, err := repo.GetByModule(module.ID)
	require.NoError(t, err)
	assert.Len(t, byModule, 2)
}

func TestVocabularyRepository_MarkReviewed(t *testing.T) {
	setupTestDB(t)
	module := createTestModule(t, "Tempo")
	repo := NewVocabularyRepository()

	item := &models.VocabularyItem{SourceText: "chuva", TargetText: "pluie", ModuleID: module.ID, Difficulty: 1}
	require.NoError(t, repo.Create(item))

	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	next := now.AddDate(0, 0, 3)
	require.NoError(t, repo.MarkReviewed(item.ID, true, now, &next))

	got, err := repo.GetByID(item.ID)
	require.NoError(t, err)
	assert.True(t, got.Learned)
	assert.Equal(t, 1, got.ReviewCount)
	require.NotNil(t, got.LastReviewedAt)
	require.NotNil(t, got.NextReview)

	// Second review increments the counter again
	require.NoError(t, repo.MarkReviewed(item.ID, true, now.AddDate(0, 0, 3), nil))
	got, err = repo.GetByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ReviewCount)
}

func TestUserProgressRepository_LazyCreate(t *testing.T) {
	setupTestDB(t)
	repo := NewUserProgressRepository()

	progress, err := repo.Get()
	require.NoError(t, err)
	require.NotZero(t, progress.ID)
	assert.Equal(t, 0, progress.TotalLearned)
	assert.Equal(t, 0, progress.StreakDays)
	assert.Nil(t, progress.LastStudyDate)

	// Second read returns the same singleton, not another row
	again, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, progress.ID, again.ID)
}

func TestUserProgressRepository_Update(t *testing.T) {
	setupTestDB(t)
	repo := NewUserProgressRepository()

	progress, err := repo.Get()
	require.NoError(t, err)

	studyDate := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	progress.TotalLearned = 12
	progress.TotalReviewed = 40
	progress.StreakDays = 3
	progress.TotalStudyTime = 95
	progress.LastStudyDate = &studyDate
	require.NoError(t, repo.Update(progress))

	got, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, 12, got.TotalLearned)
	assert.Equal(t, 40, got.TotalReviewed)
	assert.Equal(t, 3, got.StreakDays)
	assert.Equal(t, 95, got.TotalStudyTime)
	require.NotNil(t, got.LastStudyDate)
}

func TestQuizRepository_ReplaceForModule(t *testing.T) {
	setupTestDB(t)
	module := createTestModule(t, "Cores")
	repo := NewQuizRepository()

	first := []models.QuizQuestion{
		{ID: "a1", ModuleID: module.ID, Type: models.MultipleChoice, Prompt: "Translate: azul",
			Options: []string{"bleu", "vert", "rouge", "noir"}, CorrectAnswer: "bleu"},
		{ID: "a2", ModuleID: module.ID, Type: models.FillBlank, Prompt: "Write the word", CorrectAnswer: "verde"},
	}
	require.NoError(t, repo.ReplaceForModule(module.ID, first))

	second := []models.QuizQuestion{
		{ID: "b1", ModuleID: module.ID, Type: models.AudioRecognition, Prompt: "Listen", CorrectAnswer: "azul"},
	}
	require.NoError(t, repo.ReplaceForModule(module.ID, second))

	got, err := repo.GetByModule(module.ID)
	require.NoError(t, err)
	require.Len(t, got, 1, "regeneration fully replaces the previous set")
	assert.Equal(t, "b1", got[0].ID)
}

func TestQuizRepository_OptionsRoundTrip(t *testing.T) {
	setupTestDB(t)
	module := createTestModule(t, "Numeros")
	repo := NewQuizRepository()

	questions := []models.QuizQuestion{
		{ID: "q1", ModuleID: module.ID, Type: models.MultipleChoice, Prompt: "Translate: um",
			Options: []string{"un", "deux", "trois", "quatre"}, CorrectAnswer: "un"},
		{ID: "q2", ModuleID: module.ID, Type: models.FillBlank, Prompt: "Write", CorrectAnswer: "dois"},
	}
	require.NoError(t, repo.ReplaceForModule(module.ID, questions))

	got, err := repo.GetByModule(module.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"un", "deux", "trois", "quatre"}, got[0].Options)
	assert.Nil(t, got[1].Options, "fill in the blank has no options")
}

func TestQuizRepository_RecordAnswer(t *testing.T) {
	setupTestDB(t)
	module := createTestModule(t, "Verbos")
	repo := NewQuizRepository()

	questions := []models.QuizQuestion{
		{ID: "q1", ModuleID: module.ID, Type: models.FillBlank, Prompt: "Write", CorrectAnswer: "ser"},
		{ID: "q2", ModuleID: module.ID, Type: models.FillBlank, Prompt: "Write", CorrectAnswer: "estar"},
		{ID: "q3", ModuleID: module.ID, Type: models.FillBlank, Prompt: "Write", CorrectAnswer: "ter"},
	}
	require.NoError(t, repo.ReplaceForModule(module.ID, questions))

	require.NoError(t, repo.RecordAnswer("q1", true))
	require.NoError(t, repo.RecordAnswer("q2", false))
	assert.ErrorIs(t, repo.RecordAnswer("missing", true), ErrNotFound)

	got, err := repo.GetByModule(module.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Completed)
	assert.True(t, got[0].Correct)
	assert.True(t, got[1].Completed)
	assert.False(t, got[1].Correct)
	assert.False(t, got[2].Completed)

	require.NoError(t, repo.ResetCompletion(module.ID))
	got, err = repo.GetByModule(module.ID)
	require.NoError(t, err)
	for _, q := range got {
		assert.False(t, q.Completed)
		assert.False(t, q.Correct)
	}
}
