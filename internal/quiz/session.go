package quiz

import (
	"errors"

	"github.com/example/linguabot/pkg/models"
)

const (
	// PointsPerQuestion is awarded for every correct answer.
	PointsPerQuestion = 10
	// PassPercent is the minimum percentage of correct answers that marks
	// the owning module as completed.
	PassPercent = 70
)

var (
	// ErrAlreadyAnswered is returned when the current question receives a
	// second answer before the session advances.
	ErrAlreadyAnswered = errors.New("current question has already been answered")
	// ErrSessionCompleted is returned when answering a finished session.
	ErrSessionCompleted = errors.New("quiz session is already completed")
)

// Session tracks question progression and scoring for one quiz attempt.
// It holds no storage references; the caller persists partial results after
// every answer so an interrupted session keeps its progress.
type Session struct {
	Questions      []models.QuizQuestion
	Current        int
	Score          int
	CorrectCount   int
	IncorrectCount int
	Completed      bool

	answered bool
}

// NewSession starts an attempt over an already generated question set.
func NewSession(questions []models.QuizQuestion) *Session {
	return &Session{Questions: questions}
}

// ResumeSession rebuilds an attempt from stored questions whose outcome was
// persisted after every answer. Score and counters are replayed from the
// stored flags and the attempt continues at the first unanswered question;
// a set answered in full comes back completed.
func ResumeSession(questions []models.QuizQuestion) *Session {
	s := NewSession(questions)
	for _, q := range questions {
		if !q.Completed {
			break
		}
		if q.Correct {
			s.CorrectCount++
			s.Score += PointsPerQuestion
		} else {
			s.IncorrectCount++
		}
		s.Current++
	}
	if len(questions) > 0 && s.Current >= len(questions) {
		s.Current = len(questions) - 1
		s.Completed = true
	}
	return s
}

// Question returns the question currently awaiting an answer, or nil when
// the session is completed or empty.
func (s *Session) Question() *models.QuizQuestion {
	if s.Completed || s.Current >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.Current]
}

// Answer scores the current question. Comparison against the correct answer
// is an exact, case sensitive match. Only one answer per question is
// accepted: a second call before Advance returns ErrAlreadyAnswered and
// changes nothing.
func (s *Session) Answer(selected string) (bool, error) {
	if s.Completed || s.Current >= len(s.Questions) {
		return false, ErrSessionCompleted
	}
	if s.answered {
		return false, ErrAlreadyAnswered
	}

	s.answered = true
	q := &s.Questions[s.Current]
	q.Completed = true

	correct := selected == q.CorrectAnswer
	q.Correct = correct
	if correct {
		s.CorrectCount++
		s.Score += PointsPerQuestion
	} else {
		s.IncorrectCount++
	}

	return correct, nil
}

// Advance moves to the next question, or completes the session when the
// current question was the last one. It reports whether the session is now
// completed.
func (s *Session) Advance() bool {
	if s.Completed {
		return true
	}
	if s.Current < len(s.Questions)-1 {
		s.Current++
		s.answered = false
		return false
	}
	s.Completed = true
	return true
}

// Percentage returns the share of correctly answered questions, 0-100.
func (s *Session) Percentage() int {
	if len(s.Questions) == 0 {
		return 0
	}
	return s.CorrectCount * 100 / len(s.Questions)
}

// Passed reports whether the attempt reached the completion threshold.
// A passing attempt is the only path by which a quiz outcome feeds back
// into module completion.
func (s *Session) Passed() bool {
	return s.Percentage() >= PassPercent
}

// Restart resets the attempt over the same question set without
// regenerating questions.
func (s *Session) Restart() {
	s.Current = 0
	s.Score = 0
	s.CorrectCount = 0
	s.IncorrectCount = 0
	s.Completed = false
	s.answered = false
	for i := range s.Questions {
		s.Questions[i].Completed = false
		s.Questions[i].Correct = false
	}
}
