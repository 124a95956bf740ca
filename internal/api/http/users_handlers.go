package http

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/learnflow-ai/learnflow/internal/rbac"
)

func ListUsersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := r.URL.Query().Get("role")
		var rows *sql.Rows
		var err error
		if role == "" {
			rows, err = db.QueryContext(r.Context(), `SELECT id,username,role FROM users ORDER BY username`)
		} else {
			rows, err = db.QueryContext(r.Context(), `SELECT id,username,role FROM users WHERE role=$1 ORDER BY username`, role)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()
		out := []map[string]string{}
		for rows.Next() {
			var id, u, role string
			if err := rows.Scan(&id, &u, &role); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			out = append(out, map[string]string{"id": id, "username": u, "role": role})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// MeHandler returns the caller's account joined with the profile row
// created at registration.
func MeHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := rbac.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		row := db.QueryRowContext(r.Context(),
			`SELECT u.id, u.username, u.role, p.created_at
			 FROM users u JOIN profiles p ON p.user_id = u.id
			 WHERE u.id=$1`, userID)
		var id, username, role string
		var profileCreated int64
		if err := row.Scan(&id, &username, &role, &profileCreated); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id": id, "username": username, "role": role,
			"profile_created_at": profileCreated,
		})
	}
}
