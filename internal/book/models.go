package book

import "github.com/shopspring/decimal"

type Book struct {
	ID            string          `json:"id"`
	TeacherID     string          `json:"teacher_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	CoverImageURL string          `json:"cover_image_url,omitempty"`
	BookFileURL   string          `json:"book_file_url"`
	Price         decimal.Decimal `json:"price"`
	CreatedAt     int64           `json:"created_at,omitempty"`
}
