package quiz

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	syncx "github.com/learnflow-ai/learnflow/internal/sync"
)

// PersistFailure reports one answer row that could not be written.
// Failures are isolated per question; grading and the remaining writes
// continue regardless.
type PersistFailure struct {
	QuestionID string `json:"question_id"`
	Err        string `json:"error"`
}

type Service struct {
	store  Store
	events *syncx.EventRepo // optional
	now    func() time.Time
}

func NewService(store Store, events *syncx.EventRepo) *Service {
	return &Service{store: store, events: events, now: time.Now}
}

// SubmitAttempt grades a submission against the quiz and persists the
// attempt plus one answer row per question with a usable submission.
// The returned outcome is always complete even when some rows failed to
// write; those are reported in the failures slice.
func (s *Service) SubmitAttempt(ctx context.Context, quizID, studentID string, submitted map[string]string) (Attempt, GradeOutcome, []PersistFailure, error) {
	q, err := s.store.GetQuiz(ctx, quizID, true)
	if err != nil {
		return Attempt{}, GradeOutcome{}, nil, err
	}

	outcome := Grade(q.Questions, submitted)
	now := s.now().Unix()

	attempt := Attempt{
		ID:          uuid.NewString(),
		QuizID:      quizID,
		StudentID:   studentID,
		Score:       outcome.Score,
		Total:       outcome.Total,
		SubmittedAt: now,
	}
	if err := s.store.PutAttempt(ctx, attempt); err != nil {
		return Attempt{}, GradeOutcome{}, nil, err
	}

	var failures []PersistFailure
	for _, res := range outcome.Results {
		if res.Skipped {
			continue
		}
		ans := StudentAnswer{
			ID:         uuid.NewString(),
			AttemptID:  attempt.ID,
			QuestionID: res.QuestionID,
			StudentID:  studentID,
			ChoiceID:   res.ChoiceID,
			TextAnswer: res.TextAnswer,
			IsCorrect:  res.IsCorrect,
			AnsweredAt: now,
		}
		if err := s.store.PutStudentAnswer(ctx, ans); err != nil {
			log.Printf("answer write failed attempt=%s question=%s: %v", attempt.ID, res.QuestionID, err)
			failures = append(failures, PersistFailure{QuestionID: res.QuestionID, Err: err.Error()})
		}
	}

	if s.events != nil {
		data, _ := json.Marshal(map[string]interface{}{
			"quiz_id": quizID, "student_id": studentID,
			"score": outcome.Score, "total": outcome.Total,
		})
		if err := s.events.Append(ctx, syncx.Event{
			Type: syncx.EventAttemptSubmitted, Key: attempt.ID, DataJSON: string(data),
		}); err != nil {
			log.Printf("event append failed attempt=%s: %v", attempt.ID, err)
		}
	}

	return attempt, outcome, failures, nil
}
