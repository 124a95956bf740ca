package quiz

type QuestionType string

const (
	MultipleChoice QuestionType = "MC"
	SingleAnswer   QuestionType = "SA"
)

type Choice struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct,omitempty"`
}

type Question struct {
	ID   string       `json:"id"`
	Text string       `json:"text"`
	Type QuestionType `json:"type"`
	// Expected answer for single-answer questions; hidden from students.
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Choices       []Choice `json:"choices,omitempty"`
}

type Quiz struct {
	ID          string     `json:"id"`
	TeacherID   string     `json:"teacher_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions,omitempty"`
	CreatedAt   int64      `json:"created_at,omitempty"`
	UpdatedAt   int64      `json:"updated_at,omitempty"`
}

// Attempt is one student's submission pass over a quiz. Attempts and
// their answers are append-only: created once, never mutated.
type Attempt struct {
	ID          string `json:"id"`
	QuizID      string `json:"quiz_id"`
	StudentID   string `json:"student_id"`
	Score       int    `json:"score"`
	Total       int    `json:"total"`
	SubmittedAt int64  `json:"submitted_at"`
}

type StudentAnswer struct {
	ID         string `json:"id"`
	AttemptID  string `json:"attempt_id"`
	QuestionID string `json:"question_id"`
	StudentID  string `json:"student_id"`
	ChoiceID   int64  `json:"choice_id,omitempty"` // multiple-choice only
	TextAnswer string `json:"text_answer,omitempty"`
	IsCorrect  bool   `json:"is_correct"`
	AnsweredAt int64  `json:"answered_at"`
}

func (q *Question) choiceByID(id int64) *Choice {
	for i := range q.Choices {
		if q.Choices[i].ID == id {
			return &q.Choices[i]
		}
	}
	return nil
}

// correctChoice returns the first choice flagged correct. Write-time
// validation enforces exactly one flag; legacy rows with several flags
// resolve to the first.
func (q *Question) correctChoice() *Choice {
	for i := range q.Choices {
		if q.Choices[i].IsCorrect {
			return &q.Choices[i]
		}
	}
	return nil
}
