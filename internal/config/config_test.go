package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvInt(t *testing.T) {
	t.Setenv("N", "")
	assert.Equal(t, 3, envInt("N", 3))

	t.Setenv("N", "7")
	assert.Equal(t, 7, envInt("N", 3))

	t.Setenv("N", "banana")
	assert.Equal(t, 3, envInt("N", 3))

	// Zero and negatives are out of range for every envInt caller.
	t.Setenv("N", "0")
	assert.Equal(t, 3, envInt("N", 3))
	t.Setenv("N", "-2")
	assert.Equal(t, 3, envInt("N", 3))
}

func TestEnvBool(t *testing.T) {
	t.Setenv("B", "")
	assert.True(t, envBool("B", true))
	assert.False(t, envBool("B", false))

	t.Setenv("B", "false")
	assert.False(t, envBool("B", true))
	t.Setenv("B", "1")
	assert.True(t, envBool("B", false))
	t.Setenv("B", "nope")
	assert.True(t, envBool("B", true))
}

func TestCsvOrTrimsAndDropsEmpty(t *testing.T) {
	t.Setenv("LANGS", " en, en-US ,,de ")
	assert.Equal(t, []string{"en", "en-US", "de"}, csvOr("LANGS", "x"))

	t.Setenv("LANGS", "")
	assert.Equal(t, []string{"a", "b"}, csvOr("LANGS", "a,b"))
}

func TestFromEnvAuthClaimFallback(t *testing.T) {
	t.Setenv("AUTH_ROLE_CLAIM_FALLBACK", "")
	assert.True(t, FromEnv().AuthClaimFallback)

	t.Setenv("AUTH_ROLE_CLAIM_FALLBACK", "false")
	assert.False(t, FromEnv().AuthClaimFallback)
}
