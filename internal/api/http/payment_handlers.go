package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/learnflow-ai/learnflow/internal/payment"
	"github.com/learnflow-ai/learnflow/internal/rbac"
)

type initiatePaymentReq struct {
	BookID string `json:"book_id"`
	Method string `json:"method"`
}

func InitiatePaymentHandler(svc *payment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req initiatePaymentReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.BookID == "" {
			http.Error(w, "book_id required", http.StatusBadRequest)
			return
		}
		t, err := svc.Initiate(r.Context(), req.BookID, rbac.SubjectFromContext(r.Context()), req.Method)
		if err != nil {
			paymentError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

// ConfirmPaymentHandler confirms a pending transaction and returns the
// access code. Students may only confirm their own transactions.
func ConfirmPaymentHandler(svc *payment.Service, store payment.Store, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txID := chi.URLParam(r, "transactionID")
		t, err := store.GetTransaction(r.Context(), txID)
		if err != nil {
			paymentError(w, err)
			return
		}
		role := rbac.RoleFromContext(r.Context())
		if !checker.Has(role, "payment:view-all") && t.StudentID != rbac.SubjectFromContext(r.Context()) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		t, code, err := svc.Confirm(r.Context(), txID)
		if err != nil {
			paymentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"transaction": t, "access_code": code})
	}
}

func ListPaymentsHandler(store payment.Store, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := rbac.SubjectFromContext(r.Context())
		if checker.Has(rbac.RoleFromContext(r.Context()), "payment:view-all") {
			studentID = r.URL.Query().Get("student_id")
		}
		ts, err := store.ListTransactions(r.Context(), studentID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, ts)
	}
}

func paymentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, payment.ErrTxNotFound), errors.Is(err, payment.ErrCodeNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, payment.ErrBadMethod):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
