package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnflow-ai/learnflow/internal/quiz"
	"github.com/learnflow-ai/learnflow/internal/rbac"
)

func CreateQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q quiz.Quiz
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		q.ID = uuid.NewString()
		q.TeacherID = rbac.SubjectFromContext(r.Context())
		now := time.Now().Unix()
		q.CreatedAt, q.UpdatedAt = now, now
		for i := range q.Questions {
			if q.Questions[i].ID == "" {
				q.Questions[i].ID = uuid.NewString()
			}
		}
		if err := quiz.ValidateQuiz(&q); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.PutQuiz(r.Context(), q); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": q.ID})
	}
}

func UpdateQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "quizID")
		existing, err := store.GetQuiz(r.Context(), id, true)
		if err != nil {
			quizError(w, err)
			return
		}
		if !ownsOrAdmin(r, existing.TeacherID) {
			http.Error(w, "not the quiz owner", http.StatusForbidden)
			return
		}
		var q quiz.Quiz
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		q.ID = id
		q.TeacherID = existing.TeacherID
		q.CreatedAt = existing.CreatedAt
		q.UpdatedAt = time.Now().Unix()
		for i := range q.Questions {
			if q.Questions[i].ID == "" {
				q.Questions[i].ID = uuid.NewString()
			}
		}
		if err := quiz.ValidateQuiz(&q); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.PutQuiz(r.Context(), q); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": q.ID})
	}
}

// GetQuizHandler serves the quiz with answer keys only to callers who
// may author quizzes; students receive the stripped form.
func GetQuizHandler(store quiz.Store, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withKeys := checker.Has(rbac.RoleFromContext(r.Context()), "quiz:create")
		q, err := store.GetQuiz(r.Context(), chi.URLParam(r, "quizID"), withKeys)
		if err != nil {
			quizError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func ListQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, err := store.ListQuizzes(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

func DeleteQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "quizID")
		existing, err := store.GetQuiz(r.Context(), id, true)
		if err != nil {
			quizError(w, err)
			return
		}
		if !ownsOrAdmin(r, existing.TeacherID) {
			http.Error(w, "not the quiz owner", http.StatusForbidden)
			return
		}
		if err := store.DeleteQuiz(r.Context(), id); err != nil {
			quizError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type submitAttemptReq struct {
	Answers map[string]string `json:"answers"`
}

type submitAttemptResp struct {
	Attempt  quiz.Attempt          `json:"attempt"`
	Results  []quiz.AnswerResult   `json:"results"`
	Warnings []string              `json:"warnings,omitempty"`
	Failures []quiz.PersistFailure `json:"persist_failures,omitempty"`
}

func SubmitAttemptHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitAttemptReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		quizID := chi.URLParam(r, "quizID")
		studentID := rbac.SubjectFromContext(r.Context())
		attempt, outcome, failures, err := svc.SubmitAttempt(r.Context(), quizID, studentID, req.Answers)
		if err != nil {
			quizError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, submitAttemptResp{
			Attempt:  attempt,
			Results:  outcome.Results,
			Warnings: outcome.Warnings,
			Failures: failures,
		})
	}
}

// GetAttemptHandler serves one attempt with its answer rows. Students
// see only their own attempts; attempt:view-all holders see any.
func GetAttemptHandler(store quiz.Store, checker *rbac.Checker) http.HandlerFunc {
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
		answers, err := store.ListAnswers(r.Context(), a.ID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"attempt": a, "answers": answers})
	}
}

func ListAttemptsHandler(store quiz.Store, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := quiz.AttemptListOpts{
			QuizID:    r.URL.Query().Get("quiz_id"),
			StudentID: r.URL.Query().Get("student_id"),
		}
		role := rbac.RoleFromContext(r.Context())
		if !checker.Has(role, "attempt:view-all") {
			opts.StudentID = rbac.SubjectFromContext(r.Context())
		}
		as, err := store.ListAttempts(r.Context(), opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, as)
	}
}

func canSeeAttempt(r *http.Request, checker *rbac.Checker, a quiz.Attempt) bool {
	if checker.Has(rbac.RoleFromContext(r.Context()), "attempt:view-all") {
		return true
	}
	return a.StudentID == rbac.SubjectFromContext(r.Context())
}

func ownsOrAdmin(r *http.Request, ownerID string) bool {
	if rbac.RoleFromContext(r.Context()) == "admin" {
		return true
	}
	return ownerID != "" && ownerID == rbac.SubjectFromContext(r.Context())
}

func quizError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrQuizNotFound), errors.Is(err, quiz.ErrAttemptNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
