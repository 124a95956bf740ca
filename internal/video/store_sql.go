package video

import (
	"context"
	"database/sql"
	"errors"
)

var ErrNotFound = errors.New("video not found")

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// Put writes the video and replaces its quiz links in one transaction.
func (s *SQLStore) Put(ctx context.Context, v Video) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `INSERT INTO videos (id,teacher_id,title,description,url,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, description=EXCLUDED.description, url=EXCLUDED.url`,
		v.ID, v.TeacherID, v.Title, v.Description, v.URL, v.CreatedAt)
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM video_quizzes WHERE video_id=$1`, v.ID); err != nil {
		return err
	}
	for _, qid := range v.QuizIDs {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO video_quizzes (video_id,quiz_id) VALUES ($1,$2)`, v.ID, qid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) Get(ctx context.Context, id string) (Video, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,teacher_id,title,description,url,created_at FROM videos WHERE id=$1`, id)
	var v Video
	if err := row.Scan(&v.ID, &v.TeacherID, &v.Title, &v.Description, &v.URL, &v.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Video{}, ErrNotFound
		}
		return Video{}, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT quiz_id FROM video_quizzes WHERE video_id=$1`, id)
	if err != nil {
		return Video{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var qid string
		if err := rows.Scan(&qid); err != nil {
			return Video{}, err
		}
		v.QuizIDs = append(v.QuizIDs, qid)
	}
	return v, rows.Err()
}

// List returns videos newest first; teacherID narrows to one teacher's
// uploads (the dashboard view).
func (s *SQLStore) List(ctx context.Context, teacherID string) ([]Video, error) {
	query := `SELECT id,teacher_id,title,description,url,created_at FROM videos`
	args := []interface{}{}
	if teacherID != "" {
		query += ` WHERE teacher_id=$1`
		args = append(args, teacherID)
	}
	query += ` ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Video{}
	for rows.Next() {
		var v Video
		if err := rows.Scan(&v.ID, &v.TeacherID, &v.Title, &v.Description, &v.URL, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
