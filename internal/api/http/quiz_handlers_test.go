package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnflow-ai/learnflow/internal/quiz"
	"github.com/learnflow-ai/learnflow/internal/rbac"
)

func asUser(r *http.Request, sub, role string) *http.Request {
	ctx := rbac.WithSubject(r.Context(), sub)
	ctx = rbac.WithRole(ctx, role)
	return r.WithContext(ctx)
}

func newRouter(store quiz.Store) chi.Router {
	checker := rbac.NewChecker(nil)
	svc := quiz.NewService(store, nil)
	r := chi.NewRouter()
	r.Post("/quizzes", CreateQuizHandler(store))
	r.Get("/quizzes/{quizID}", GetQuizHandler(store, checker))
	r.Post("/quizzes/{quizID}/attempts", SubmitAttemptHandler(svc))
	r.Get("/attempts/{attemptID}", GetAttemptHandler(store, checker))
	return r
}

func createQuiz(t *testing.T, router chi.Router) string {
	t.Helper()
	body := `{
		"title": "Geography",
		"questions": [
			{"text":"Capital of Kenya?","type":"MC","choices":[
				{"text":"Mombasa"},{"text":"Nairobi","is_correct":true}]},
			{"text":"Capital of France?","type":"SA","correct_answer":"Paris"}
		]
	}`
	req := asUser(httptest.NewRequest("POST", "/quizzes", bytes.NewBufferString(body)), "t-1", "teacher")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["id"])
	return resp["id"]
}

func TestCreateQuizRejectsBadShapes(t *testing.T) {
	router := newRouter(quiz.NewInMemoryStore())

	// Two correct choices must be rejected at write time.
	body := `{"title":"Bad","questions":[{"text":"?","type":"MC","choices":[
		{"text":"a","is_correct":true},{"text":"b","is_correct":true}]}]}`
	req := asUser(httptest.NewRequest("POST", "/quizzes", bytes.NewBufferString(body)), "t-1", "teacher")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudentViewHidesAnswerKeys(t *testing.T) {
	store := quiz.NewInMemoryStore()
	router := newRouter(store)
	id := createQuiz(t, router)

	req := asUser(httptest.NewRequest("GET", "/quizzes/"+id, nil), "s-1", "student")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got quiz.Quiz
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Questions, 2)
	assert.Empty(t, got.Questions[1].CorrectAnswer)
	for _, c := range got.Questions[0].Choices {
		assert.False(t, c.IsCorrect)
	}

	// Teachers get the keys back.
	req = asUser(httptest.NewRequest("GET", "/quizzes/"+id, nil), "t-1", "teacher")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Paris", got.Questions[1].CorrectAnswer)
}

func TestSubmitAndReadAttempt(t *testing.T) {
	store := quiz.NewInMemoryStore()
	router := newRouter(store)
	id := createQuiz(t, router)

	q, err := store.GetQuiz(context.Background(), id, true)
	require.NoError(t, err)
	var correctID int64
	for _, c := range q.Questions[0].Choices {
		if c.IsCorrect {
			correctID = c.ID
		}
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"answers": map[string]string{
			q.Questions[0].ID: strconv.FormatInt(correctID, 10),
			q.Questions[1].ID: "paris",
		},
	})
	req := asUser(httptest.NewRequest("POST", "/quizzes/"+id+"/attempts", bytes.NewReader(payload)), "s-1", "student")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp submitAttemptResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Attempt.Score)
	assert.Equal(t, 2, resp.Attempt.Total)
	assert.Empty(t, resp.Failures)

	// The submitting student can read the attempt back by ID.
	req = asUser(httptest.NewRequest("GET", "/attempts/"+resp.Attempt.ID, nil), "s-1", "student")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A different student cannot.
	req = asUser(httptest.NewRequest("GET", "/attempts/"+resp.Attempt.ID, nil), "s-2", "student")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The teacher can.
	req = asUser(httptest.NewRequest("GET", "/attempts/"+resp.Attempt.ID, nil), "t-1", "teacher")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
