package http

import (
	"encoding/json"
	"net/http"

	"github.com/learnflow-ai/learnflow/internal/ai"
	"github.com/learnflow-ai/learnflow/internal/transcript"
	"github.com/learnflow-ai/learnflow/internal/video"
)

func ChatHandler(svc *ai.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		answer, err := svc.Chat(r.Context(), req.Query)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
	}
}

func FeedbackHandler(svc *ai.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Feedback string `json:"feedback"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		svc.RecordFeedback(req.Feedback)
		writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
	}
}

type quizGenReq struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	NumQuestions int    `json:"num_questions"`
}

// GenerateQuizHandler drafts a quiz from a video's transcript. The
// draft is returned unsaved for teacher review.
func GenerateQuizHandler(videos *video.SQLStore, fetcher *transcript.Fetcher, gen *ai.QuizGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quizGenReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		v, err := videos.Get(r.Context(), req.VideoID)
		if err != nil {
			videoError(w, err)
			return
		}
		title := req.Title
		if title == "" {
			title = v.Title + " Quiz"
		}
		res := fetcher.Fetch(r.Context(), video.VideoID(v.URL))
		draft, err := gen.Generate(r.Context(), title, res, req.NumQuestions)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"draft":             draft,
			"transcript_status": res.Status,
		})
	}
}
