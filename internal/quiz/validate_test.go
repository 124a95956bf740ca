package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validQuiz() Quiz {
	return Quiz{
		Title: "Algebra",
		Questions: []Question{
			{Text: "2+2?", Type: MultipleChoice, Choices: []Choice{
				{Text: "3"}, {Text: "4", IsCorrect: true},
			}},
			{Text: "x in x+1=2?", Type: SingleAnswer, CorrectAnswer: "1"},
		},
	}
}

func TestValidateQuizOK(t *testing.T) {
	q := validQuiz()
	assert.NoError(t, ValidateQuiz(&q))
}

func TestValidateQuizRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Quiz)
	}{
		{"missing title", func(q *Quiz) { q.Title = "  " }},
		{"no questions", func(q *Quiz) { q.Questions = nil }},
		{"blank question text", func(q *Quiz) { q.Questions[0].Text = "" }},
		{"one choice", func(q *Quiz) { q.Questions[0].Choices = q.Questions[0].Choices[1:] }},
		{"no correct choice", func(q *Quiz) { q.Questions[0].Choices[1].IsCorrect = false }},
		{"two correct choices", func(q *Quiz) { q.Questions[0].Choices[0].IsCorrect = true }},
		{"blank expected answer", func(q *Quiz) { q.Questions[1].CorrectAnswer = "" }},
		{"unknown type", func(q *Quiz) { q.Questions[1].Type = "essay" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := validQuiz()
			tc.mutate(&q)
			assert.Error(t, ValidateQuiz(&q))
		})
	}
}
