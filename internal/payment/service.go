package payment

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/learnflow-ai/learnflow/internal/book"
	syncx "github.com/learnflow-ai/learnflow/internal/sync"
)

var ErrBadMethod = errors.New("unsupported payment method")

// Store is the persistence surface the service needs. *SQLStore
// satisfies it; tests substitute an in-memory fake.
type Store interface {
	PutTransaction(ctx context.Context, t Transaction) error
	GetTransaction(ctx context.Context, id string) (Transaction, error)
	ListTransactions(ctx context.Context, studentID string) ([]Transaction, error)
	PutAccessCode(ctx context.Context, c AccessCode) error
	AccessCodeForTransaction(ctx context.Context, txID string) (AccessCode, error)
	HasAccess(ctx context.Context, studentID, bookID string) (bool, error)
}

// BookLookup resolves the purchase amount at initiation time.
type BookLookup interface {
	Get(ctx context.Context, id string) (book.Book, error)
}

type Service struct {
	store  Store
	books  BookLookup
	events *syncx.EventRepo // optional
	now    func() time.Time
}

func NewService(store Store, books BookLookup, events *syncx.EventRepo) *Service {
	return &Service{store: store, books: books, events: events, now: time.Now}
}

// Initiate opens a pending transaction for a book purchase. The amount
// is read from the book record, never from the client.
func (s *Service) Initiate(ctx context.Context, bookID, studentID, method string) (Transaction, error) {
	if !ValidMethod(method) {
		return Transaction{}, ErrBadMethod
	}
	b, err := s.books.Get(ctx, bookID)
	if err != nil {
		return Transaction{}, err
	}
	t := Transaction{
		ID:        uuid.NewString(),
		BookID:    b.ID,
		StudentID: studentID,
		Amount:    b.Price,
		Method:    method,
		Status:    StatusPending,
		CreatedAt: s.now().Unix(),
	}
	if err := s.store.PutTransaction(ctx, t); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// Confirm marks the transaction confirmed and issues its access code.
// Confirming an already confirmed transaction returns the code that was
// issued the first time.
func (s *Service) Confirm(ctx context.Context, txID string) (Transaction, AccessCode, error) {
	t, err := s.store.GetTransaction(ctx, txID)
	if err != nil {
		return Transaction{}, AccessCode{}, err
	}
	if t.Status == StatusConfirmed {
		code, err := s.store.AccessCodeForTransaction(ctx, txID)
		if err != nil {
			return Transaction{}, AccessCode{}, err
		}
		return t, code, nil
	}

	t.Status = StatusConfirmed
	t.ConfirmedAt = s.now().Unix()
	if err := s.store.PutTransaction(ctx, t); err != nil {
		return Transaction{}, AccessCode{}, err
	}
	code := AccessCode{
		Code:          uuid.NewString(),
		TransactionID: t.ID,
		BookID:        t.BookID,
		StudentID:     t.StudentID,
		IssuedAt:      s.now().Unix(),
	}
	if err := s.store.PutAccessCode(ctx, code); err != nil {
		// A concurrent confirm may have won the insert; the unique
		// transaction_id constraint rejects the second code. Return the
		// one that landed.
		if existing, rerr := s.store.AccessCodeForTransaction(ctx, t.ID); rerr == nil {
			return t, existing, nil
		}
		return Transaction{}, AccessCode{}, err
	}

	if s.events != nil {
		data, _ := json.Marshal(map[string]interface{}{
			"book_id": t.BookID, "student_id": t.StudentID, "amount": t.Amount.String(),
		})
		if err := s.events.Append(ctx, syncx.Event{
			Type: syncx.EventPaymentConfirmed, Key: t.ID, DataJSON: string(data),
		}); err != nil {
			log.Printf("event append failed transaction=%s: %v", t.ID, err)
		}
	}

	return t, code, nil
}

// HasAccess reports whether the student holds an access code for the book.
func (s *Service) HasAccess(ctx context.Context, studentID, bookID string) (bool, error) {
	return s.store.HasAccess(ctx, studentID, bookID)
}
