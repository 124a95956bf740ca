package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnflow-ai/learnflow/internal/book"
	"github.com/learnflow-ai/learnflow/internal/payment"
	"github.com/learnflow-ai/learnflow/internal/rbac"
)

func CreateBookHandler(store *book.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var b book.Book
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if b.Title == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		if b.Price.IsNegative() {
			http.Error(w, "price must not be negative", http.StatusBadRequest)
			return
		}
		b.ID = uuid.NewString()
		b.TeacherID = rbac.SubjectFromContext(r.Context())
		b.CreatedAt = time.Now().Unix()
		if err := store.Put(r.Context(), b); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": b.ID})
	}
}

func UpdateBookHandler(store *book.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "bookID")
		existing, err := store.Get(r.Context(), id)
		if err != nil {
			bookError(w, err)
			return
		}
		if !ownsOrAdmin(r, existing.TeacherID) {
			http.Error(w, "not the book owner", http.StatusForbidden)
			return
		}
		var b book.Book
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if b.Price.IsNegative() {
			http.Error(w, "price must not be negative", http.StatusBadRequest)
			return
		}
		b.ID = id
		b.TeacherID = existing.TeacherID
		b.CreatedAt = existing.CreatedAt
		if err := store.Put(r.Context(), b); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id})
	}
}

// GetBookHandler hides the downloadable file URL until the caller owns
// the book or holds an access code for it.
func GetBookHandler(store *book.SQLStore, payments *payment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := store.Get(r.Context(), chi.URLParam(r, "bookID"))
		if err != nil {
			bookError(w, err)
			return
		}
		if !ownsOrAdmin(r, b.TeacherID) {
			ok, err := payments.HasAccess(r.Context(), rbac.SubjectFromContext(r.Context()), b.ID)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if !ok {
				b.BookFileURL = ""
			}
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func ListBooksHandler(store *book.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs, err := store.List(r.Context(), r.URL.Query().Get("teacher_id"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		// Listings are public to authenticated users; never leak file URLs.
		for i := range bs {
			bs[i].BookFileURL = ""
		}
		writeJSON(w, http.StatusOK, bs)
	}
}

func DeleteBookHandler(store *book.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "bookID")
		existing, err := store.Get(r.Context(), id)
		if err != nil {
			bookError(w, err)
			return
		}
		if !ownsOrAdmin(r, existing.TeacherID) {
			http.Error(w, "not the book owner", http.StatusForbidden)
			return
		}
		if err := store.Delete(r.Context(), id); err != nil {
			bookError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func bookError(w http.ResponseWriter, err error) {
	if errors.Is(err, book.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
