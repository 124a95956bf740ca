package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnswerer struct {
	answer string
	err    error

	gotContext  string
	gotQuestion string
	calls       int
}

func (s *stubAnswerer) Answer(_ context.Context, contextText, question string) (string, error) {
	s.calls++
	s.gotContext = contextText
	s.gotQuestion = question
	return s.answer, s.err
}

func TestChatCannedIntents(t *testing.T) {
	stub := &stubAnswerer{}
	svc := NewChatService(stub)

	ans, err := svc.Chat(context.Background(), "How do I UPLOAD a video?")
	require.NoError(t, err)
	assert.Contains(t, ans, "Add Resource")

	ans, err = svc.Chat(context.Background(), "how to verify my account")
	require.NoError(t, err)
	assert.Contains(t, ans, "profile settings")

	// Canned intents never hit the model.
	assert.Zero(t, stub.calls)
}

func TestChatDelegatesToAnswerer(t *testing.T) {
	stub := &stubAnswerer{answer: "LearnFlow AI"}
	svc := NewChatService(stub)

	ans, err := svc.Chat(context.Background(), "  What is this platform?  ")
	require.NoError(t, err)
	assert.Equal(t, "LearnFlow AI", ans)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "what is this platform?", stub.gotQuestion)
	assert.Contains(t, stub.gotContext, "LearnFlow AI")
}

func TestChatPropagatesModelError(t *testing.T) {
	stub := &stubAnswerer{err: errors.New("model down")}
	svc := NewChatService(stub)

	_, err := svc.Chat(context.Background(), "anything else")
	assert.Error(t, err)
}

func TestFeedbackLog(t *testing.T) {
	svc := NewChatService(&stubAnswerer{})

	svc.RecordFeedback("great quizzes")
	svc.RecordFeedback("")
	svc.RecordFeedback("needs dark mode")

	assert.Equal(t, []string{"great quizzes", "needs dark mode"}, svc.Feedback())
}
