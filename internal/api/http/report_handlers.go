package http

import (
	"bytes"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/learnflow-ai/learnflow/internal/quiz"
	"github.com/learnflow-ai/learnflow/internal/rbac"
	"github.com/learnflow-ai/learnflow/internal/report"
	"github.com/learnflow-ai/learnflow/internal/storage"
)

// AttemptReportHandler renders the attempt as a PDF, caches it in the
// blob store and streams it back.
func AttemptReportHandler(store quiz.Store, checker *rbac.Checker, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.GetAttempt(r.Context(), chi.URLParam(r, "attemptID"))
		if err != nil {
			quizError(w, err)
			return
		}
		if !canSeeAttempt(r, checker, a) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		q, err := store.GetQuiz(r.Context(), a.QuizID, true)
		if err != nil {
			quizError(w, err)
			return
		}
		answers, err := store.ListAnswers(r.Context(), a.ID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		pdf, err := report.BuildAttemptReport(q, a, answers)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		key := "reports/" + a.ID + ".pdf"
		if _, err := bs.Put(key, bytes.NewReader(pdf)); err != nil {
			log.Printf("report cache write failed key=%s: %v", key, err)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="attempt-`+a.ID+`.pdf"`)
		_, _ = io.Copy(w, bytes.NewReader(pdf))
	}
}
