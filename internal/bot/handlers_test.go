package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/linguabot/internal/quiz"
	"github.com/example/linguabot/pkg/models"
)

func TestAwaitingQuizAnswer(t *testing.T) {
	questions := []models.QuizQuestion{
		{ID: "q1", ModuleID: 1, Type: models.FillBlank, Prompt: "Write", CorrectAnswer: "casa"},
	}
	st := &quizState{moduleID: 1, session: quiz.NewSession(questions)}
	assert.True(t, awaitingQuizAnswer(st))

	// A failed attempt stays around so /restart can replay it, but plain
	// text must get a reply instead of being scored against nothing
	_, err := st.session.Answer("wrong")
	require.NoError(t, err)
	st.session.Advance()
	assert.True(t, st.session.Completed)
	assert.False(t, awaitingQuizAnswer(st))

	st.session.Restart()
	assert.True(t, awaitingQuizAnswer(st))

	assert.False(t, awaitingQuizAnswer(nil))
}
