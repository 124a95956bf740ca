package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	BlobBasePath string

	AuthSecret string

	// Fall back to the JWT role claim when the user row is missing.
	// Keep off in production; the database stays authoritative.
	AuthClaimFallback bool

	// AI collaborator (chat / quiz generation) base URL.
	AIBaseURL string

	// Transcript retrieval.
	TranscriptLangs    []string // preference order, most-preferred first
	TranscriptAttempts int

	CORSOrigins []string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:           addr,
		PublicURL:          os.Getenv("PUBLIC_URL"),
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		BlobBasePath:       envOr("BLOB_BASE_PATH", "./data"),
		AuthSecret:         envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AuthClaimFallback:  envBool("AUTH_ROLE_CLAIM_FALLBACK", true),
		AIBaseURL:          envOr("AI_BASE_URL", "http://localhost:8000"),
		TranscriptLangs:    csvOr("TRANSCRIPT_LANGS", "en,en-US,en-GB"),
		TranscriptAttempts: envInt("TRANSCRIPT_ATTEMPTS", 3),
		CORSOrigins:        csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

// envInt parses k as a positive integer. Unset, unparseable, and
// non-positive values all yield def.
func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
