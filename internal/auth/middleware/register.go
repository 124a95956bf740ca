package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// POST /auth/register  { "username": "...", "password": "...", "role": "student|teacher" }
//
// Creates the user row and its profile row in one transaction. Profile
// creation is an explicit step, not a side effect of the user insert.
func RegisterHandler(a *AuthService, db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			http.Error(w, "username and password required", http.StatusBadRequest)
			return
		}
		if req.Role == "" {
			req.Role = "student"
		}
		if req.Role != "student" && req.Role != "teacher" {
			http.Error(w, "invalid role: "+req.Role, http.StatusBadRequest)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		id := uuid.NewString()
		now := time.Now().Unix()

		tx, err := db.BeginTx(r.Context(), nil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err = tx.ExecContext(r.Context(),
			`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1,$2,$3,$4,$5)`,
			id, req.Username, string(hash), req.Role, now); err != nil {
			_ = tx.Rollback()
			http.Error(w, "username taken", http.StatusConflict)
			return
		}
		if _, err = tx.ExecContext(r.Context(),
			`INSERT INTO profiles (user_id, role, created_at) VALUES ($1,$2,$3)`,
			id, req.Role, now); err != nil {
			_ = tx.Rollback()
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err = tx.Commit(); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		tok, err := a.IssueJWT(id, req.Role)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok, "user_id": id, "role": req.Role})
	}
}
