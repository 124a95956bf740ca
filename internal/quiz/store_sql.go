package quiz

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// PutQuiz writes the quiz with its questions and choices in one
// transaction, replacing any previous question set. Choices keep their
// IDs across edits; only new choices get fresh ones, so persisted
// answer rows keep resolving to the choice the student picked.
func (s *SQLStore) PutQuiz(ctx context.Context, q Quiz) error {
	assignChoiceIDs(&q)
	now := time.Now().Unix()
	if q.CreatedAt == 0 {
		q.CreatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `INSERT INTO quizzes (id,teacher_id,title,description,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, description=EXCLUDED.description, updated_at=EXCLUDED.updated_at`,
		q.ID, q.TeacherID, q.Title, q.Description, q.CreatedAt, now)
	if err != nil {
		return err
	}
	// Explicit choice delete: sqlite only cascades when foreign_keys is
	// on for the connection, which the pool does not guarantee.
	if _, err = tx.ExecContext(ctx, `DELETE FROM choices WHERE quiz_id=$1`, q.ID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM questions WHERE quiz_id=$1`, q.ID); err != nil {
		return err
	}
	for pos, qu := range q.Questions {
		if qu.ID == "" {
			qu.ID = uuid.NewString()
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO questions (id,quiz_id,position,text,qtype,correct_answer)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			qu.ID, q.ID, pos, qu.Text, string(qu.Type), qu.CorrectAnswer)
		if err != nil {
			return err
		}
		for _, c := range qu.Choices {
			_, err = tx.ExecContext(ctx, `INSERT INTO choices (quiz_id,question_id,id,text,is_correct)
				VALUES ($1,$2,$3,$4,$5)`,
				q.ID, qu.ID, c.ID, c.Text, c.IsCorrect)
			if err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string, withKeys bool) (Quiz, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,teacher_id,title,description,created_at,updated_at FROM quizzes WHERE id=$1`, id)
	var q Quiz
	if err := row.Scan(&q.ID, &q.TeacherID, &q.Title, &q.Description, &q.CreatedAt, &q.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id,text,qtype,correct_answer FROM questions WHERE quiz_id=$1 ORDER BY position`, id)
	if err != nil {
		return Quiz{}, err
	}
	defer rows.Close()
	byID := map[string]int{}
	for rows.Next() {
		var qu Question
		var typ string
		if err := rows.Scan(&qu.ID, &qu.Text, &typ, &qu.CorrectAnswer); err != nil {
			return Quiz{}, err
		}
		qu.Type = QuestionType(typ)
		byID[qu.ID] = len(q.Questions)
		q.Questions = append(q.Questions, qu)
	}
	if err := rows.Err(); err != nil {
		return Quiz{}, err
	}

	crows, err := s.db.QueryContext(ctx,
		`SELECT question_id,id,text,is_correct FROM choices WHERE quiz_id=$1 ORDER BY id`, id)
	if err != nil {
		return Quiz{}, err
	}
	defer crows.Close()
	for crows.Next() {
		var qid string
		var c Choice
		if err := crows.Scan(&qid, &c.ID, &c.Text, &c.IsCorrect); err != nil {
			return Quiz{}, err
		}
		if i, ok := byID[qid]; ok {
			q.Questions[i].Choices = append(q.Questions[i].Choices, c)
		}
	}
	if err := crows.Err(); err != nil {
		return Quiz{}, err
	}

	if !withKeys {
		stripKeys(&q)
	}
	return q, nil
}

func (s *SQLStore) ListQuizzes(ctx context.Context) ([]Quiz, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,teacher_id,title,description,created_at,updated_at FROM quizzes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Quiz{}
	for rows.Next() {
		var q Quiz
		if err := rows.Scan(&q.ID, &q.TeacherID, &q.Title, &q.Description, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteQuiz(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrQuizNotFound
	}
	return nil
}

func (s *SQLStore) PutAttempt(ctx context.Context, a Attempt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (id,quiz_id,student_id,score,total,submitted_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.QuizID, a.StudentID, a.Score, a.Total, a.SubmittedAt)
	return err
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,quiz_id,student_id,score,total,submitted_at FROM attempts WHERE id=$1`, id)
	var a Attempt
	if err := row.Scan(&a.ID, &a.QuizID, &a.StudentID, &a.Score, &a.Total, &a.SubmittedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrAttemptNotFound
		}
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error) {
	query := `SELECT id,quiz_id,student_id,score,total,submitted_at FROM attempts WHERE 1=1`
	args := []interface{}{}
	n := 0
	if opts.QuizID != "" {
		n++
		query += fmt.Sprintf(" AND quiz_id=$%d", n)
		args = append(args, opts.QuizID)
	}
	if opts.StudentID != "" {
		n++
		query += fmt.Sprintf(" AND student_id=$%d", n)
		args = append(args, opts.StudentID)
	}
	query += " ORDER BY submitted_at DESC"
	if opts.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, opts.Offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Attempt{}
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.QuizID, &a.StudentID, &a.Score, &a.Total, &a.SubmittedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutStudentAnswer(ctx context.Context, ans StudentAnswer) error {
	var choiceID interface{}
	if ans.ChoiceID != 0 {
		choiceID = ans.ChoiceID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO student_answers (id,attempt_id,question_id,student_id,choice_id,text_answer,is_correct,answered_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		ans.ID, ans.AttemptID, ans.QuestionID, ans.StudentID, choiceID, ans.TextAnswer, ans.IsCorrect, ans.AnsweredAt)
	return err
}

func (s *SQLStore) ListAnswers(ctx context.Context, attemptID string) ([]StudentAnswer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,attempt_id,question_id,student_id,choice_id,text_answer,is_correct,answered_at
		FROM student_answers WHERE attempt_id=$1 ORDER BY answered_at`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []StudentAnswer{}
	for rows.Next() {
		var a StudentAnswer
		var choiceID sql.NullInt64
		var text sql.NullString
		if err := rows.Scan(&a.ID, &a.AttemptID, &a.QuestionID, &a.StudentID, &choiceID, &text, &a.IsCorrect, &a.AnsweredAt); err != nil {
			return nil, err
		}
		a.ChoiceID = choiceID.Int64
		a.TextAnswer = text.String
		out = append(out, a)
	}
	return out, rows.Err()
}
