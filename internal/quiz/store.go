package quiz

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrAttemptNotFound = errors.New("attempt not found")
)

type AttemptListOpts struct {
	QuizID    string
	StudentID string
	Limit     int
	Offset    int
}

type Store interface {
	PutQuiz(ctx context.Context, q Quiz) error
	// GetQuiz with withKeys=false strips correctness flags and expected
	// answers, for serving to students.
	GetQuiz(ctx context.Context, id string, withKeys bool) (Quiz, error)
	ListQuizzes(ctx context.Context) ([]Quiz, error) // newest first, no questions
	DeleteQuiz(ctx context.Context, id string) error

	PutAttempt(ctx context.Context, a Attempt) error
	GetAttempt(ctx context.Context, id string) (Attempt, error)
	ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error)

	PutStudentAnswer(ctx context.Context, ans StudentAnswer) error
	ListAnswers(ctx context.Context, attemptID string) ([]StudentAnswer, error)
}

type memoryStore struct {
	mu       sync.RWMutex
	quizzes  map[string]Quiz
	attempts map[string]Attempt
	answers  map[string][]StudentAnswer // attemptID -> answers
}

func NewInMemoryStore() Store {
	return &memoryStore{
		quizzes:  map[string]Quiz{},
		attempts: map[string]Attempt{},
		answers:  map[string][]StudentAnswer{},
	}
}

func (m *memoryStore) PutQuiz(_ context.Context, q Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignChoiceIDs(&q)
	m.quizzes[q.ID] = q
	return nil
}

func (m *memoryStore) GetQuiz(_ context.Context, id string, withKeys bool) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, ErrQuizNotFound
	}
	qq := q
	qq.Questions = make([]Question, len(q.Questions))
	copy(qq.Questions, q.Questions)
	// Choices share backing arrays with the stored quiz; copy before any
	// stripping can touch them.
	for i := range qq.Questions {
		qq.Questions[i].Choices = append([]Choice(nil), qq.Questions[i].Choices...)
	}
	if !withKeys {
		stripKeys(&qq)
	}
	return qq, nil
}

func (m *memoryStore) ListQuizzes(_ context.Context) ([]Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Quiz, 0, len(m.quizzes))
	for _, q := range m.quizzes {
		q.Questions = nil
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (m *memoryStore) DeleteQuiz(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[id]; !ok {
		return ErrQuizNotFound
	}
	delete(m.quizzes, id)
	return nil
}

func (m *memoryStore) PutAttempt(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[a.ID] = a
	return nil
}

func (m *memoryStore) GetAttempt(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	return a, nil
}

func (m *memoryStore) ListAttempts(_ context.Context, opts AttemptListOpts) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Attempt{}
	for _, a := range m.attempts {
		if opts.QuizID != "" && a.QuizID != opts.QuizID {
			continue
		}
		if opts.StudentID != "" && a.StudentID != opts.StudentID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt > out[j].SubmittedAt })
	return out, nil
}

func (m *memoryStore) PutStudentAnswer(_ context.Context, ans StudentAnswer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers[ans.AttemptID] = append(m.answers[ans.AttemptID], ans)
	return nil
}

func (m *memoryStore) ListAnswers(_ context.Context, attemptID string) ([]StudentAnswer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]StudentAnswer(nil), m.answers[attemptID]...), nil
}

// assignChoiceIDs gives quiz-unique IDs to choices that do not have one
// yet. Existing IDs are never renumbered: persisted answer rows
// reference choices by ID and must keep resolving to the same choice
// after the quiz is edited.
func assignChoiceIDs(q *Quiz) {
	var max int64
	for i := range q.Questions {
		for j := range q.Questions[i].Choices {
			if id := q.Questions[i].Choices[j].ID; id > max {
				max = id
			}
		}
	}
	next := max + 1
	for i := range q.Questions {
		for j := range q.Questions[i].Choices {
			if q.Questions[i].Choices[j].ID == 0 {
				q.Questions[i].Choices[j].ID = next
				next++
			}
		}
	}
}

func stripKeys(q *Quiz) {
	for i := range q.Questions {
		q.Questions[i].CorrectAnswer = ""
		for j := range q.Questions[i].Choices {
			q.Questions[i].Choices[j].IsCorrect = false
		}
	}
}
