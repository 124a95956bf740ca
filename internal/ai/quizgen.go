package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/learnflow-ai/learnflow/internal/quiz"
	"github.com/learnflow-ai/learnflow/internal/transcript"
)

// FallbackNote marks a draft built without transcript text.
const FallbackNote = "Transcript unavailable. Draft questions could not be generated from the video; edit this quiz manually."

// QuizGenerator turns a fetched transcript into an unsaved quiz draft.
// The draft carries no ID; the caller saves it through the quiz store
// after teacher review.
type QuizGenerator struct {
	answerer Answerer
}

func NewQuizGenerator(answerer Answerer) *QuizGenerator {
	return &QuizGenerator{answerer: answerer}
}

type draftQuestion struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Answer   int      `json:"answer"`
}

// Generate asks the model for n multiple-choice questions grounded in
// the transcript. An unavailable transcript yields a one-question
// placeholder draft carrying the fallback note.
func (g *QuizGenerator) Generate(ctx context.Context, title string, res transcript.Result, n int) (quiz.Quiz, error) {
	if n <= 0 {
		n = 5
	}
	draft := quiz.Quiz{Title: title}

	if res.Status == transcript.StatusUnavailable {
		draft.Description = FallbackNote
		return draft, nil
	}

	prompt := fmt.Sprintf(
		"Write %d multiple-choice questions about the following transcript. "+
			"Respond with a JSON array of objects with fields question, choices (4 strings) and answer (0-based index of the correct choice).", n)
	raw, err := g.answerer.Answer(ctx, res.Text, prompt)
	if err != nil {
		return quiz.Quiz{}, err
	}

	var parsed []draftQuestion
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return quiz.Quiz{}, fmt.Errorf("quizgen: unparseable model output: %w", err)
	}
	for _, dq := range parsed {
		q := quiz.Question{Text: dq.Question, Type: quiz.MultipleChoice}
		for i, c := range dq.Choices {
			q.Choices = append(q.Choices, quiz.Choice{Text: c, IsCorrect: i == dq.Answer})
		}
		draft.Questions = append(draft.Questions, q)
	}
	if len(draft.Questions) == 0 {
		return quiz.Quiz{}, fmt.Errorf("quizgen: model returned no questions")
	}
	return draft, nil
}

// extractJSON trims any prose the model wraps around the array.
func extractJSON(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
