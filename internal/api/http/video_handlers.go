package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnflow-ai/learnflow/internal/rbac"
	"github.com/learnflow-ai/learnflow/internal/transcript"
	"github.com/learnflow-ai/learnflow/internal/video"
)

type videoResp struct {
	video.Video
	EmbedURL string `json:"embed_url,omitempty"`
}

func CreateVideoHandler(store *video.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var v video.Video
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if v.Title == "" || v.URL == "" {
			http.Error(w, "title and url required", http.StatusBadRequest)
			return
		}
		if video.EmbedURL(v.URL) == "" {
			http.Error(w, "unrecognized video url", http.StatusBadRequest)
			return
		}
		v.ID = uuid.NewString()
		v.TeacherID = rbac.SubjectFromContext(r.Context())
		v.CreatedAt = time.Now().Unix()
		if err := store.Put(r.Context(), v); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": v.ID})
	}
}

func UpdateVideoHandler(store *video.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "videoID")
		existing, err := store.Get(r.Context(), id)
		if err != nil {
			videoError(w, err)
			return
		}
		if !ownsOrAdmin(r, existing.TeacherID) {
			http.Error(w, "not the video owner", http.StatusForbidden)
			return
		}
		var v video.Video
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		v.ID = id
		v.TeacherID = existing.TeacherID
		v.CreatedAt = existing.CreatedAt
		if err := store.Put(r.Context(), v); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id})
	}
}

func GetVideoHandler(store *video.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := store.Get(r.Context(), chi.URLParam(r, "videoID"))
		if err != nil {
			videoError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, videoResp{Video: v, EmbedURL: video.EmbedURL(v.URL)})
	}
}

func ListVideosHandler(store *video.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vs, err := store.List(r.Context(), r.URL.Query().Get("teacher_id"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out := make([]videoResp, 0, len(vs))
		for _, v := range vs {
			out = append(out, videoResp{Video: v, EmbedURL: video.EmbedURL(v.URL)})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func DeleteVideoHandler(store *video.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "videoID")
		existing, err := store.Get(r.Context(), id)
		if err != nil {
			videoError(w, err)
			return
		}
		if !ownsOrAdmin(r, existing.TeacherID) {
			http.Error(w, "not the video owner", http.StatusForbidden)
			return
		}
		if err := store.Delete(r.Context(), id); err != nil {
			videoError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// VideoTranscriptHandler fetches the transcript for a stored video. The
// response always carries a status; retrieval failures surface as
// status "unavailable", never as an HTTP error.
func VideoTranscriptHandler(store *video.SQLStore, fetcher *transcript.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := store.Get(r.Context(), chi.URLParam(r, "videoID"))
		if err != nil {
			videoError(w, err)
			return
		}
		res := fetcher.Fetch(r.Context(), video.VideoID(v.URL))
		writeJSON(w, http.StatusOK, res)
	}
}

func videoError(w http.ResponseWriter, err error) {
	if errors.Is(err, video.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
