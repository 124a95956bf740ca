package book

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("book not found")

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Put(ctx context.Context, b Book) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO books (id,teacher_id,title,description,cover_image_url,book_file_url,price,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, description=EXCLUDED.description,
			cover_image_url=EXCLUDED.cover_image_url, book_file_url=EXCLUDED.book_file_url, price=EXCLUDED.price`,
		b.ID, b.TeacherID, b.Title, b.Description, b.CoverImageURL, b.BookFileURL, b.Price.String(), b.CreatedAt)
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,teacher_id,title,description,cover_image_url,book_file_url,price,created_at FROM books WHERE id=$1`, id)
	return scanBook(row)
}

func (s *SQLStore) List(ctx context.Context, teacherID string) ([]Book, error) {
	query := `SELECT id,teacher_id,title,description,cover_image_url,book_file_url,price,created_at FROM books`
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
	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBook(row scanner) (Book, error) {
	var b Book
	var price string
	err := row.Scan(&b.ID, &b.TeacherID, &b.Title, &b.Description, &b.CoverImageURL, &b.BookFileURL, &price, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	if err != nil {
		return Book{}, err
	}
	b.Price, err = decimal.NewFromString(price)
	if err != nil {
		b.Price = decimal.Zero
	}
	return b, nil
}
