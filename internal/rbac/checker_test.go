package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckerRoles(t *testing.T) {
	c := NewChecker(nil)

	assert.True(t, c.Has("student", "attempt:create"))
	assert.True(t, c.Has("student", "payment:initiate"))
	assert.False(t, c.Has("student", "quiz:create"))
	assert.False(t, c.Has("student", "attempt:view-all"))

	assert.True(t, c.Has("teacher", "quiz:create"))
	assert.True(t, c.Has("teacher", "attempt:view-all"))
	assert.True(t, c.Has("teacher", "ai:quizgen"))
	assert.True(t, c.Has("teacher", "payment:view-all"))
	assert.False(t, c.Has("teacher", "payment:initiate"))
	assert.False(t, c.Has("student", "payment:view-all"))

	// Admin wildcard.
	assert.True(t, c.Has("admin", "quiz:delete-own"))
	assert.True(t, c.Has("admin", "anything:at-all"))

	assert.False(t, c.Has("ghost", "quiz:view"))
}

func TestCheckerAnyAll(t *testing.T) {
	c := NewChecker(nil)

	assert.True(t, c.Any("student", "quiz:create", "attempt:create"))
	assert.False(t, c.Any("student", "quiz:create", "quiz:delete-own"))
	assert.True(t, c.All("teacher", "quiz:create", "quiz:view"))
	assert.False(t, c.All("teacher", "quiz:create", "payment:initiate"))
}

func TestMatchPermWildcardPrefix(t *testing.T) {
	c := NewChecker(map[string][]string{"ops": {"video:*"}})
	assert.True(t, c.Has("ops", "video:create"))
	assert.True(t, c.Has("ops", "video:delete-own"))
	assert.False(t, c.Has("ops", "quiz:view"))
}
