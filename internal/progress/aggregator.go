package progress

import (
	"math"

	"github.com/example/linguabot/pkg/models"
)

// ComputeModuleProgress derives a module's completion percentage from the
// vocabulary snapshot. It returns 0 for a module with no items and never fails.
func ComputeModuleProgress(moduleID int64, items []models.VocabularyItem) (int, bool) {
	total := 0
	learned := 0

	for _, item := range items {
		if item.ModuleID != moduleID {
			continue
		}
		total++
		if item.Learned {
			learned++
		}
	}

	if total == 0 {
		return 0, false
	}

	pct := int(math.Round(float64(learned) / float64(total) * 100))
	return pct, pct == 100
}

// ComputeUserTotals sums learning state across all modules. The result is the
// source of truth written back to the user progress record.
func ComputeUserTotals(items []models.VocabularyItem) (learned, reviewed int) {
	for _, item := range items {
		if item.Learned {
			learned++
		}
		reviewed += item.ReviewCount
	}
	return learned, reviewed
}

// ModuleUpdate is the set of derived values to persist for a single module.
type ModuleUpdate struct {
	ModuleID  int64
	Progress  int
	Completed bool
	WordCount int
}

// Reconcile recomputes derived fields for every module plus the user totals
// from a full snapshot. It returns only the modules whose stored values have
// drifted, so callers can persist the minimum set of updates. Reconcile does
// not write anything itself.
func Reconcile(modules []models.Module, items []models.VocabularyItem) (updates []ModuleUpdate, learned, reviewed int) {
	for _, m := range modules {
		pct, completed := ComputeModuleProgress(m.ID, items)

		count := 0
		for _, item := range items {
			if item.ModuleID == m.ID {
				count++
			}
		}

		if pct != m.Progress || completed != m.Completed || count != m.WordCount {
			updates = append(updates, ModuleUpdate{
				ModuleID:  m.ID,
				Progress:  pct,
				Completed: completed,
				WordCount: count,
			})
		}
	}

	learned, reviewed = ComputeUserTotals(items)
	return updates, learned, reviewed
}
