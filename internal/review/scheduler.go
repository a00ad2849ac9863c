package review

import (
	"math/rand"
	"sort"
	"time"

	"github.com/example/linguabot/pkg/models"
)

// DefaultLimit is the number of items shown in the dashboard review widget.
const DefaultLimit = 10

// DueForReview selects learned items for repeated practice, ordered by how
// long ago they were last reviewed. Items that have never been reviewed sort
// to the front. A limit of 0 returns the full queue. Items not yet learned
// are excluded here; they belong to the learning flow, not the review flow.
func DueForReview(items []models.VocabularyItem, limit int) []models.VocabularyItem {
	queue := make([]models.VocabularyItem, 0, len(items))
	for _, item := range items {
		if item.Learned {
			queue = append(queue, item)
		}
	}

	sort.SliceStable(queue, func(i, j int) bool {
		a := queue[i].LastReviewedAt
		b := queue[j].LastReviewedAt
		if a == nil {
			return b != nil
		}
		if b == nil {
			return false
		}
		return a.Before(*b)
	})

	if limit > 0 && len(queue) > limit {
		queue = queue[:limit]
	}

	return queue
}

// FlashcardDeck selects items for a flashcard practice session: everything
// not yet learned plus learned items whose next review is due. The deck is
// shuffled rather than recency-ordered so sessions do not repeat the same
// sequence; this intentionally diverges from the DueForReview ordering.
func FlashcardDeck(items []models.VocabularyItem, now time.Time, rnd *rand.Rand) []models.VocabularyItem {
	deck := make([]models.VocabularyItem, 0, len(items))
	for _, item := range items {
		if !item.Learned || item.NextReview == nil || !item.NextReview.After(now) {
			deck = append(deck, item)
		}
	}
	return shuffled(deck, rnd)
}

// shuffled returns a Fisher-Yates shuffled copy, leaving the input untouched.
func shuffled(items []models.VocabularyItem, rnd *rand.Rand) []models.VocabularyItem {
	out := make([]models.VocabularyItem, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
