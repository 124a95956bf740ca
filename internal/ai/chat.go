package ai

import (
	"context"
	"log"
	"strings"
	"sync"
)

const platformContext = `LearnFlow AI is a platform designed to empower educators and learners across Africa.
It supports joyful onboarding, secure resource sharing, and culturally resonant feedback.`

// ChatService routes assistant queries. Common how-to intents are
// answered without a model round trip; everything else goes to the
// Answerer grounded in the platform context.
type ChatService struct {
	answerer Answerer

	mu       sync.Mutex
	feedback []string
}

func NewChatService(answerer Answerer) *ChatService {
	return &ChatService{answerer: answerer}
}

func (s *ChatService) Chat(ctx context.Context, query string) (string, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	switch {
	case strings.Contains(q, "upload"):
		return "To upload content, visit your dashboard and click 'Add Resource'.", nil
	case strings.Contains(q, "verify"):
		return "Teacher verification is handled securely. Check your profile settings.", nil
	}
	return s.answerer.Answer(ctx, platformContext, q)
}

// RecordFeedback appends free-form feedback text. Empty input is a no-op.
func (s *ChatService) RecordFeedback(text string) {
	if text == "" {
		return
	}
	s.mu.Lock()
	s.feedback = append(s.feedback, text)
	s.mu.Unlock()
	log.Printf("feedback received: %s", text)
}

// Feedback returns a copy of everything recorded so far.
func (s *ChatService) Feedback() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.feedback))
	copy(out, s.feedback)
	return out
}
