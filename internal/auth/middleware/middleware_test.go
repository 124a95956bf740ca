package auth

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnflow-ai/learnflow/internal/db"
	"github.com/learnflow-ai/learnflow/internal/rbac"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "auth_test.db")
	h, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestRegisterLoginRoundtrip(t *testing.T) {
	dbh := openTestDB(t)
	svc := NewAuthService("test-secret")

	// Register a teacher.
	body, _ := json.Marshal(map[string]string{
		"username": "amina",
		"password": "hunter22",
		"role":     "teacher",
	})
	rec := httptest.NewRecorder()
	RegisterHandler(svc, dbh)(rec, httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var reg map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	assert.NotEmpty(t, reg["access_token"])
	assert.Equal(t, "teacher", reg["role"])

	// The registration transaction also created the profile row.
	var n int
	require.NoError(t, dbh.QueryRow(
		`SELECT COUNT(1) FROM profiles WHERE user_id=$1`, reg["user_id"]).Scan(&n))
	assert.Equal(t, 1, n)

	// Login with the same credentials.
	body, _ = json.Marshal(map[string]string{"username": "amina", "password": "hunter22"})
	rec = httptest.NewRecorder()
	LoginHandler(svc, dbh)(rec, httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	token := login["access_token"]
	require.NotEmpty(t, token)

	// Token carries subject and role into the request context.
	var gotSub, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = rbac.SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	})
	req := httptest.NewRequest("GET", "/quizzes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	JWTMiddleware(svc)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, login["user_id"], gotSub)
	assert.Equal(t, "teacher", gotRole)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	dbh := openTestDB(t)
	svc := NewAuthService("test-secret")

	body, _ := json.Marshal(map[string]string{"username": "bob", "password": "pw123456"})
	rec := httptest.NewRecorder()
	RegisterHandler(svc, dbh)(rec, httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	body, _ = json.Marshal(map[string]string{"username": "bob", "password": "wrong"})
	rec = httptest.NewRecorder()
	LoginHandler(svc, dbh)(rec, httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareRejectsGarbage(t *testing.T) {
	svc := NewAuthService("test-secret")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("must not reach handler")
	})

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	JWTMiddleware(svc)(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec = httptest.NewRecorder()
	JWTMiddleware(svc)(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
