package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrTxNotFound   = errors.New("transaction not found")
	ErrCodeNotFound = errors.New("access code not found")
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutTransaction(ctx context.Context, t Transaction) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO transactions (id,book_id,student_id,amount,method,status,created_at,confirmed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET status=EXCLUDED.status, confirmed_at=EXCLUDED.confirmed_at`,
		t.ID, t.BookID, t.StudentID, t.Amount.String(), t.Method, t.Status, t.CreatedAt, nullInt(t.ConfirmedAt))
	return err
}

func (s *SQLStore) GetTransaction(ctx context.Context, id string) (Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,book_id,student_id,amount,method,status,created_at,confirmed_at FROM transactions WHERE id=$1`, id)
	var t Transaction
	var amount string
	var confirmed sql.NullInt64
	err := row.Scan(&t.ID, &t.BookID, &t.StudentID, &amount, &t.Method, &t.Status, &t.CreatedAt, &confirmed)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, ErrTxNotFound
	}
	if err != nil {
		return Transaction{}, err
	}
	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		t.Amount = decimal.Zero
	}
	t.ConfirmedAt = confirmed.Int64
	return t, nil
}

func (s *SQLStore) ListTransactions(ctx context.Context, studentID string) ([]Transaction, error) {
	query := `SELECT id,book_id,student_id,amount,method,status,created_at,confirmed_at FROM transactions`
	args := []interface{}{}
	if studentID != "" {
		query += ` WHERE student_id=$1`
		args = append(args, studentID)
	}
	query += ` ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Transaction{}
	for rows.Next() {
		var t Transaction
		var amount string
		var confirmed sql.NullInt64
		if err := rows.Scan(&t.ID, &t.BookID, &t.StudentID, &amount, &t.Method, &t.Status, &t.CreatedAt, &confirmed); err != nil {
			return nil, err
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			t.Amount = decimal.Zero
		}
		t.ConfirmedAt = confirmed.Int64
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutAccessCode(ctx context.Context, c AccessCode) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO access_codes (code,transaction_id,book_id,student_id,issued_at)
		VALUES ($1,$2,$3,$4,$5)`,
		c.Code, c.TransactionID, c.BookID, c.StudentID, c.IssuedAt)
	return err
}

func (s *SQLStore) AccessCodeForTransaction(ctx context.Context, txID string) (AccessCode, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT code,transaction_id,book_id,student_id,issued_at FROM access_codes WHERE transaction_id=$1`, txID)
	var c AccessCode
	err := row.Scan(&c.Code, &c.TransactionID, &c.BookID, &c.StudentID, &c.IssuedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return AccessCode{}, ErrCodeNotFound
	}
	if err != nil {
		return AccessCode{}, err
	}
	return c, nil
}

func nullInt(v int64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}

// HasAccess reports whether a confirmed purchase exists for the pair.
func (s *SQLStore) HasAccess(ctx context.Context, studentID, bookID string) (bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM access_codes WHERE student_id=$1 AND book_id=$2`, studentID, bookID)
	var n int
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
