package video

type Video struct {
	ID          string   `json:"id"`
	TeacherID   string   `json:"teacher_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url"`
	QuizIDs     []string `json:"quiz_ids,omitempty"`
	CreatedAt   int64    `json:"created_at,omitempty"`
}
