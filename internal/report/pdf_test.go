package report

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnflow-ai/learnflow/internal/quiz"
)

func TestBuildAttemptReport(t *testing.T) {
	q := quiz.Quiz{
		ID:    "quiz-1",
		Title: "Geography",
		Questions: []quiz.Question{
			{ID: "q1", Text: "Capital of Kenya?", Type: quiz.MultipleChoice, Choices: []quiz.Choice{
				{ID: 1, Text: "Mombasa"},
				{ID: 2, Text: "Nairobi", IsCorrect: true},
			}},
			{ID: "q2", Text: "Capital of France?", Type: quiz.SingleAnswer, CorrectAnswer: "Paris"},
		},
	}
	attempt := quiz.Attempt{ID: "a-1", QuizID: "quiz-1", StudentID: "s-1", Score: 1, Total: 2, SubmittedAt: 1700000000}
	answers := []quiz.StudentAnswer{
		{AttemptID: "a-1", QuestionID: "q1", ChoiceID: 2, IsCorrect: true},
		{AttemptID: "a-1", QuestionID: "q2", TextAnswer: "London", IsCorrect: false},
	}

	pdf, err := BuildAttemptReport(q, attempt, answers)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	got := truncate("éééééééééé", 8)
	assert.Equal(t, "ééééé...", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "abc...", truncate("abcdefghij", 6))
}

func TestBuildAttemptReportNoAnswers(t *testing.T) {
	q := quiz.Quiz{ID: "quiz-1", Title: "Empty", Questions: []quiz.Question{
		{ID: "q1", Text: "Anything?", Type: quiz.SingleAnswer, CorrectAnswer: "yes"},
	}}
	attempt := quiz.Attempt{ID: "a-2", QuizID: "quiz-1", StudentID: "s-1", Total: 1}

	pdf, err := BuildAttemptReport(q, attempt, nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
