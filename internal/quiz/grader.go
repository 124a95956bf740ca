package quiz

import (
	"fmt"
	"strconv"
	"strings"
)

// AnswerResult is the graded outcome for a single question.
type AnswerResult struct {
	QuestionID    string `json:"question_id"`
	IsCorrect     bool   `json:"is_correct"`
	UserAnswer    string `json:"user_answer"`    // normalized; "" when unanswered
	CorrectAnswer string `json:"correct_answer"` // normalized
	ChoiceID      int64  `json:"choice_id,omitempty"`
	TextAnswer    string `json:"text_answer,omitempty"`
	// Skipped marks a malformed multiple-choice submission (unparseable
	// or unknown choice ref). No answer row is written for it.
	Skipped bool `json:"-"`
}

type GradeOutcome struct {
	Score    int            `json:"score"`
	Total    int            `json:"total"`
	Results  []AnswerResult `json:"results"`
	Warnings []string       `json:"warnings,omitempty"`
}

// Grade scores submitted answers against questions. Submitted values are
// keyed by question ID; multiple-choice values are choice IDs in decimal
// form (never positions), single-answer values are free text.
//
// Grade is pure: it never touches storage and never fails. Malformed
// submissions downgrade to incorrect results with a warning, a missing
// submission counts as incorrect with empty recorded values.
func Grade(questions []Question, submitted map[string]string) GradeOutcome {
	out := GradeOutcome{
		Total:   len(questions),
		Results: make([]AnswerResult, 0, len(questions)),
	}
	for _, q := range questions {
		res := AnswerResult{QuestionID: q.ID}
		raw, answered := submitted[q.ID]

		switch q.Type {
		case MultipleChoice:
			if correct := q.correctChoice(); correct != nil {
				res.CorrectAnswer = normalize(correct.Text)
			}
			// A blank submission counts as unanswered, not malformed:
			// incorrect with empty recorded values, no warning, row
			// still persisted.
			if !answered || strings.TrimSpace(raw) == "" {
				break
			}
			id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				res.Skipped = true
				out.Warnings = append(out.Warnings,
					fmt.Sprintf("question %s: invalid choice ref %q", q.ID, raw))
				break
			}
			ch := q.choiceByID(id)
			if ch == nil {
				res.Skipped = true
				out.Warnings = append(out.Warnings,
					fmt.Sprintf("question %s: unknown choice %d", q.ID, id))
				break
			}
			res.ChoiceID = id
			res.UserAnswer = normalize(ch.Text)
			res.IsCorrect = ch.IsCorrect

		case SingleAnswer:
			res.CorrectAnswer = normalize(q.CorrectAnswer)
			if !answered {
				break
			}
			res.TextAnswer = raw
			res.UserAnswer = normalize(raw)
			res.IsCorrect = res.UserAnswer == res.CorrectAnswer

		default:
			res.Skipped = true
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("question %s: unknown type %q", q.ID, q.Type))
		}

		if res.IsCorrect {
			out.Score++
		}
		out.Results = append(out.Results, res)
	}
	return out
}

// normalize trims surrounding whitespace and lowercases. Comparison is
// exact equality after this; no fuzzy matching, no partial credit.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
