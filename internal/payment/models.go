package payment

import "github.com/shopspring/decimal"

// Methods accepted at checkout.
const (
	MethodManual = "manual"
	MethodCard   = "card"
	MethodQR     = "qr"
)

// Transaction lifecycle.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
)

type Transaction struct {
	ID          string          `json:"id"`
	BookID      string          `json:"book_id"`
	StudentID   string          `json:"student_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Status      string          `json:"status"`
	CreatedAt   int64           `json:"created_at"`
	ConfirmedAt int64           `json:"confirmed_at,omitempty"`
}

// AccessCode unlocks one book for one student. Issued exactly once per
// confirmed transaction.
type AccessCode struct {
	Code          string `json:"code"`
	TransactionID string `json:"transaction_id"`
	BookID        string `json:"book_id"`
	StudentID     string `json:"student_id"`
	IssuedAt      int64  `json:"issued_at"`
}

func ValidMethod(m string) bool {
	switch m {
	case MethodManual, MethodCard, MethodQR:
		return true
	}
	return false
}
