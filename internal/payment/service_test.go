package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnflow-ai/learnflow/internal/book"
)

type memStore struct {
	txs   map[string]Transaction
	codes map[string]AccessCode // by transaction ID
}

func newMemStore() *memStore {
	return &memStore{txs: map[string]Transaction{}, codes: map[string]AccessCode{}}
}

func (m *memStore) PutTransaction(_ context.Context, t Transaction) error {
	m.txs[t.ID] = t
	return nil
}

func (m *memStore) GetTransaction(_ context.Context, id string) (Transaction, error) {
	t, ok := m.txs[id]
	if !ok {
		return Transaction{}, ErrTxNotFound
	}
	return t, nil
}

func (m *memStore) ListTransactions(_ context.Context, studentID string) ([]Transaction, error) {
	out := []Transaction{}
	for _, t := range m.txs {
		if studentID == "" || t.StudentID == studentID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) PutAccessCode(_ context.Context, c AccessCode) error {
	m.codes[c.TransactionID] = c
	return nil
}

func (m *memStore) AccessCodeForTransaction(_ context.Context, txID string) (AccessCode, error) {
	c, ok := m.codes[txID]
	if !ok {
		return AccessCode{}, ErrCodeNotFound
	}
	return c, nil
}

func (m *memStore) HasAccess(_ context.Context, studentID, bookID string) (bool, error) {
	for _, c := range m.codes {
		if c.StudentID == studentID && c.BookID == bookID {
			return true, nil
		}
	}
	return false, nil
}

type oneBook struct{ b book.Book }

func (o oneBook) Get(_ context.Context, id string) (book.Book, error) {
	if id != o.b.ID {
		return book.Book{}, book.ErrNotFound
	}
	return o.b, nil
}

func testService() (*Service, *memStore) {
	store := newMemStore()
	books := oneBook{b: book.Book{
		ID:    "b-1",
		Title: "Physics Notes",
		Price: decimal.RequireFromString("19.99"),
	}}
	return NewService(store, books, nil), store
}

func TestInitiateReadsPriceFromBook(t *testing.T) {
	svc, _ := testService()

	tx, err := svc.Initiate(context.Background(), "b-1", "s-1", MethodCard)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, tx.Status)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, "s-1", tx.StudentID)
	assert.NotEmpty(t, tx.ID)
}

func TestInitiateRejectsBadMethod(t *testing.T) {
	svc, _ := testService()
	_, err := svc.Initiate(context.Background(), "b-1", "s-1", "crypto")
	assert.ErrorIs(t, err, ErrBadMethod)
}

func TestInitiateUnknownBook(t *testing.T) {
	svc, _ := testService()
	_, err := svc.Initiate(context.Background(), "nope", "s-1", MethodManual)
	assert.ErrorIs(t, err, book.ErrNotFound)
}

func TestConfirmIssuesCodeOnce(t *testing.T) {
	svc, _ := testService()
	tx, err := svc.Initiate(context.Background(), "b-1", "s-1", MethodQR)
	require.NoError(t, err)

	confirmed, code, err := svc.Confirm(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	assert.NotEmpty(t, code.Code)
	assert.Equal(t, tx.ID, code.TransactionID)

	// Second confirm is idempotent: same code, no new issuance.
	again, code2, err := svc.Confirm(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, again.Status)
	assert.Equal(t, code.Code, code2.Code)
}

// failingCodeStore simulates losing a concurrent confirm: the code
// insert hits the unique transaction_id constraint, but the winner's
// code is already readable.
type failingCodeStore struct {
	*memStore
	winner AccessCode
}

func (f *failingCodeStore) PutAccessCode(_ context.Context, _ AccessCode) error {
	return errors.New("UNIQUE constraint failed: access_codes.transaction_id")
}

func (f *failingCodeStore) AccessCodeForTransaction(_ context.Context, txID string) (AccessCode, error) {
	if txID == f.winner.TransactionID {
		return f.winner, nil
	}
	return AccessCode{}, ErrCodeNotFound
}

func TestConfirmReturnsWinnerCodeOnInsertConflict(t *testing.T) {
	base := newMemStore()
	books := oneBook{b: book.Book{ID: "b-1", Title: "Physics Notes", Price: decimal.RequireFromString("19.99")}}
	svc := NewService(base, books, nil)

	tx, err := svc.Initiate(context.Background(), "b-1", "s-1", MethodCard)
	require.NoError(t, err)

	winner := AccessCode{Code: "code-from-winner", TransactionID: tx.ID, BookID: "b-1", StudentID: "s-1"}
	svc.store = &failingCodeStore{memStore: base, winner: winner}

	confirmed, code, err := svc.Confirm(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	assert.Equal(t, "code-from-winner", code.Code)
}

func TestConfirmUnknownTransaction(t *testing.T) {
	svc, _ := testService()
	_, _, err := svc.Confirm(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTxNotFound)
}

func TestHasAccessAfterConfirm(t *testing.T) {
	svc, _ := testService()
	tx, err := svc.Initiate(context.Background(), "b-1", "s-1", MethodManual)
	require.NoError(t, err)

	ok, err := svc.HasAccess(context.Background(), "s-1", "b-1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = svc.Confirm(context.Background(), tx.ID)
	require.NoError(t, err)

	ok, err = svc.HasAccess(context.Background(), "s-1", "b-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasAccess(context.Background(), "s-2", "b-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
