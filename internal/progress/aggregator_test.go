package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/linguabot/pkg/models"
)

func item(id int, moduleID int64, learned bool) models.VocabularyItem {
	return models.VocabularyItem{ID: id, ModuleID: moduleID, Learned: learned}
}

func TestComputeModuleProgress(t *testing.T) {
	tests := []struct {
		name          string
		items         []models.VocabularyItem
		wantProgress  int
		wantCompleted bool
	}{
		{
			name:          "empty module degrades to zero",
			items:         nil,
			wantProgress:  0,
			wantCompleted: false,
		},
		{
			name: "half learned",
			items: []models.VocabularyItem{
				item(1, 1, true),
				item(2, 1, false),
			},
			wantProgress:  50,
			wantCompleted: false,
		},
		{
			name: "one of three rounds to 33",
			items: []models.VocabularyItem{
				item(1, 1, true),
				item(2, 1, false),
				item(3, 1, false),
			},
			wantProgress:  33,
			wantCompleted: false,
		},
		{
			name: "two of three rounds to 67",
			items: []models.VocabularyItem{
				item(1, 1, true),
				item(2, 1, true),
				item(3, 1, false),
			},
			wantProgress:  67,
			wantCompleted: false,
		},
		{
			name: "all learned completes the module",
			items: []models.VocabularyItem{
				item(1, 1, true),
				item(2, 1, true),
			},
			wantProgress:  100,
			wantCompleted: true,
		},
		{
			name: "other modules do not count",
			items: []models.VocabularyItem{
				item(1, 1, true),
				item(2, 2, false),
				item(3, 2, false),
			},
			wantProgress:  100,
			wantCompleted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress, completed := ComputeModuleProgress(1, tt.items)
			assert.Equal(t, tt.wantProgress, progress)
			assert.Equal(t, tt.wantCompleted, completed)
			assert.Equal(t, progress == 100, completed, "completed must mirror progress == 100")
		})
	}
}

func TestComputeUserTotals(t *testing.T) {
	items := []models.VocabularyItem{
		{ID: 1, ModuleID: 1, Learned: true, ReviewCount: 3},
		{ID: 2, ModuleID: 1, Learned: false, ReviewCount: 1},
		{ID: 3, ModuleID: 2, Learned: true, ReviewCount: 0},
	}

	learned, reviewed := ComputeUserTotals(items)
	assert.Equal(t, 2, learned)
	assert.Equal(t, 4, reviewed)
}

func TestReconcile_ReturnsOnlyDriftedModules(t *testing.T) {
	modules := []models.Module{
		{ID: 1, Progress: 50, Completed: false, WordCount: 2}, // up to date
		{ID: 2, Progress: 0, Completed: false, WordCount: 0},  // stale
	}
	items := []models.VocabularyItem{
		item(1, 1, true),
		item(2, 1, false),
		item(3, 2, true),
	}

	updates, learned, reviewed := Reconcile(modules, items)
	require.Len(t, updates, 1)
	assert.Equal(t, int64(2), updates[0].ModuleID)
	assert.Equal(t, 100, updates[0].Progress)
	assert.True(t, updates[0].Completed)
	assert.Equal(t, 1, updates[0].WordCount)
	assert.Equal(t, 2, learned)
	assert.Equal(t, 0, reviewed)
}

// A four word module goes from 0% to completed once every word is learned.
func TestModuleProgress_EndToEnd(t *testing.T) {
	pool := []models.VocabularyItem{
		{ID: 1, ModuleID: 7, SourceText: "casa", TargetText: "maison"},
		{ID: 2, ModuleID: 7, SourceText: "carro", TargetText: "voiture"},
		{ID: 3, ModuleID: 7, SourceText: "livro", TargetText: "livre"},
		{ID: 4, ModuleID: 7, SourceText: "agua", TargetText: "eau"},
	}

	progress, completed := ComputeModuleProgress(7, pool)
	require.Equal(t, 0, progress)
	require.False(t, completed)

	for i := range pool {
		pool[i].Learned = true
	}

	progress, completed = ComputeModuleProgress(7, pool)
	assert.Equal(t, 100, progress)
	assert.True(t, completed)
}
