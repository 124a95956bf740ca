package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateQuiz enforces authoring invariants at write time: a title, at
// least one question, question text, and for multiple-choice questions
// exactly one choice flagged correct.
func ValidateQuiz(q *Quiz) error {
	if strings.TrimSpace(q.Title) == "" {
		return errors.New("quiz title is required")
	}
	if len(q.Questions) == 0 {
		return errors.New("quiz needs at least one question")
	}
	for i := range q.Questions {
		qu := &q.Questions[i]
		if strings.TrimSpace(qu.Text) == "" {
			return fmt.Errorf("question %d: text is required", i+1)
		}
		switch qu.Type {
		case MultipleChoice:
			if len(qu.Choices) < 2 {
				return fmt.Errorf("question %d: needs at least two choices", i+1)
			}
			correct := 0
			for _, c := range qu.Choices {
				if strings.TrimSpace(c.Text) == "" {
					return fmt.Errorf("question %d: choice text is required", i+1)
				}
				if c.IsCorrect {
					correct++
				}
			}
			if correct != 1 {
				return fmt.Errorf("question %d: exactly one choice must be correct, got %d", i+1, correct)
			}
		case SingleAnswer:
			if strings.TrimSpace(qu.CorrectAnswer) == "" {
				return fmt.Errorf("question %d: correct answer is required", i+1)
			}
		default:
			return fmt.Errorf("question %d: unknown type %q", i+1, qu.Type)
		}
	}
	return nil
}
