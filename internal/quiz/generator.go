package quiz

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/example/linguabot/pkg/models"
)

// ErrInsufficientData is returned when a module's vocabulary pool is too
// small to build a quiz. A multiple choice question needs one correct answer
// plus three distractors, so four items is the floor.
var ErrInsufficientData = errors.New("not enough vocabulary items to generate a quiz")

const (
	optionCount = 4

	maxChoiceQuestions = 5
	maxFillQuestions   = 3
	maxAudioQuestions  = 2

	fillOffset  = 5
	audioOffset = 8
)

// Generate synthesizes a full quiz for a module from its vocabulary pool:
// up to five multiple choice questions from the leading items, up to three
// fill-in-the-blank questions from the next window, and up to two audio
// recognition questions after that. Window indexes wrap around to the start
// of the pool when it is smaller than the offset, which on small pools can
// test the same item under more than one question type; that is a known
// limitation, not deduplicated on purpose.
//
// Distractor sampling and option ordering draw from rnd so callers can pass
// a seeded source in tests.
func Generate(moduleID int64, pool []models.VocabularyItem, rnd *rand.Rand) ([]models.QuizQuestion, error) {
	if len(pool) < optionCount {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientData, len(pool), optionCount)
	}

	questions := make([]models.QuizQuestion, 0, maxChoiceQuestions+maxFillQuestions+maxAudioQuestions)

	// Each multiple choice question consumes the correct item plus three
	// distinct distractors, so the question count is capped by how many
	// items the pool can spare.
	count := len(pool) - (optionCount - 1)
	if count > maxChoiceQuestions {
		count = maxChoiceQuestions
	}
	for i := 0; i < count; i++ {
		item := pool[i]
		questions = append(questions, models.QuizQuestion{
			ID:            uuid.NewString(),
			ModuleID:      moduleID,
			Type:          models.MultipleChoice,
			Prompt:        fmt.Sprintf("Translate: %s", item.SourceText),
			Options:       buildOptions(item, pool, rnd),
			CorrectAnswer: item.TargetText,
		})
	}

	count = maxFillQuestions
	if len(pool) < count {
		count = len(pool)
	}
	for i := 0; i < count; i++ {
		item := pool[(fillOffset+i)%len(pool)]
		questions = append(questions, models.QuizQuestion{
			ID:            uuid.NewString(),
			ModuleID:      moduleID,
			Type:          models.FillBlank,
			Prompt:        fmt.Sprintf("Write the word that means \"%s\"", item.TargetText),
			CorrectAnswer: item.SourceText,
		})
	}

	count = maxAudioQuestions
	if len(pool) < count {
		count = len(pool)
	}
	for i := 0; i < count; i++ {
		item := pool[(audioOffset+i)%len(pool)]
		questions = append(questions, models.QuizQuestion{
			ID:            uuid.NewString(),
			ModuleID:      moduleID,
			Type:          models.AudioRecognition,
			Prompt:        fmt.Sprintf("Listen to the pronunciation of \"%s\" and type the word", item.SourceText),
			CorrectAnswer: item.SourceText,
		})
	}

	return questions, nil
}

// buildOptions returns the four answer options for a multiple choice question:
// the correct translation plus three distractors sampled uniformly without
// replacement from the rest of the pool, shuffled together.
func buildOptions(correct models.VocabularyItem, pool []models.VocabularyItem, rnd *rand.Rand) []string {
	others := make([]models.VocabularyItem, 0, len(pool)-1)
	for _, item := range pool {
		if item.ID != correct.ID {
			others = append(others, item)
		}
	}

	options := make([]string, 0, optionCount)
	options = append(options, correct.TargetText)
	for _, idx := range rnd.Perm(len(others))[:optionCount-1] {
		options = append(options, others[idx].TargetText)
	}

	rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return options
}
