package progress

import (
	"time"

	"github.com/example/linguabot/pkg/models"
)

// AdvanceStreak records a study event for the given calendar day and returns
// the updated record. The streak only grows when the previous study day was
// exactly yesterday:
//
//   - no previous study day: the date is stamped, the streak stays as is
//   - previous day was yesterday: the streak increments by one
//   - same day, or a gap of two days or more: only the date is stamped
//
// A gap does not reset the streak to zero. The counter simply stops growing
// until the learner studies on consecutive days again.
func AdvanceStreak(p models.UserProgress, today time.Time) models.UserProgress {
	day := atMidnight(today)

	if p.LastStudyDate == nil {
		p.LastStudyDate = &day
		return p
	}

	if sameCalendarDay(*p.LastStudyDate, day.AddDate(0, 0, -1)) {
		p.StreakDays++
	}

	p.LastStudyDate = &day
	return p
}

// sameCalendarDay reports whether two timestamps fall on the same
// year/month/day regardless of time of day.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func atMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
