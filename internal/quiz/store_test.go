package quiz

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChoiceIDsSurviveQuizEdits(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	q := Quiz{
		ID:        "quiz-1",
		TeacherID: "t-1",
		Title:     "History",
		Questions: []Question{
			{ID: "q1", Text: "Pick", Type: MultipleChoice, Choices: []Choice{
				{Text: "Wrong"},
				{Text: "Right", IsCorrect: true},
			}},
		},
	}
	require.NoError(t, store.PutQuiz(ctx, q))

	// A student answers with the correct choice's ID.
	stored, err := store.GetQuiz(ctx, "quiz-1", true)
	require.NoError(t, err)
	right := stored.Questions[0].correctChoice()
	require.NotNil(t, right)
	pickedID := right.ID

	svc := NewService(store, nil)
	attempt, _, _, err := svc.SubmitAttempt(ctx, "quiz-1", "s-1", map[string]string{
		"q1": strconv.FormatInt(pickedID, 10),
	})
	require.NoError(t, err)
	require.Equal(t, 1, attempt.Score)

	// The teacher edits the quiz, prepending a new choice. Existing
	// choices keep their IDs; only the new one gets a fresh ID.
	stored.Questions[0].Choices = append([]Choice{{Text: "Also wrong"}}, stored.Questions[0].Choices...)
	require.NoError(t, store.PutQuiz(ctx, stored))

	edited, err := store.GetQuiz(ctx, "quiz-1", true)
	require.NoError(t, err)
	require.Len(t, edited.Questions[0].Choices, 3)

	// The persisted answer row still resolves to the choice the student
	// picked.
	answers, err := store.ListAnswers(ctx, attempt.ID)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, pickedID, answers[0].ChoiceID)

	picked := edited.Questions[0].choiceByID(answers[0].ChoiceID)
	require.NotNil(t, picked)
	assert.Equal(t, "Right", picked.Text)
	assert.True(t, answers[0].IsCorrect)

	// The new choice did not collide with any existing ID.
	seen := map[int64]bool{}
	for _, c := range edited.Questions[0].Choices {
		assert.NotZero(t, c.ID)
		assert.False(t, seen[c.ID], "duplicate choice id %d", c.ID)
		seen[c.ID] = true
	}
}
