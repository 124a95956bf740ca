// Package report renders attempt results as downloadable PDF documents.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/learnflow-ai/learnflow/internal/quiz"
)

// BuildAttemptReport renders one student attempt: title page with the
// score summary, then a per-question results table. Every page carries
// the platform watermark and a page number.
func BuildAttemptReport(q quiz.Quiz, attempt quiz.Attempt, answers []quiz.StudentAnswer) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("LearnFlow Attempt Report", false)

	pdf.SetHeaderFunc(func() { watermark(pdf) })
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 14, "Quiz Attempt Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "Quiz: "+q.Title, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Student: "+attempt.StudentID, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Submitted: "+time.Unix(attempt.SubmittedAt, 0).UTC().Format(time.RFC1123), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Score: %d / %d", attempt.Score, attempt.Total), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	byQuestion := make(map[string]quiz.StudentAnswer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(80, 8, "Question", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Your Answer", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Correct Answer", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Result", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, question := range q.Questions {
		ans, answered := byQuestion[question.ID]
		verdict := "Wrong"
		if answered && ans.IsCorrect {
			verdict = "Correct"
		}
		pdf.CellFormat(80, 8, truncate(question.Text, 50), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, truncate(studentAnswerText(question, ans, answered), 24), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, truncate(correctAnswerText(question), 24), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, verdict, "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	return buf.Bytes(), nil
}

// watermark draws the platform name diagonally across the page.
func watermark(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 60)
	pdf.SetTextColor(225, 225, 225)
	w, h := pdf.GetPageSize()
	pdf.TransformBegin()
	pdf.TransformRotate(45, w/2, h/2)
	pdf.Text(w/2-45, h/2, "LearnFlow")
	pdf.TransformEnd()
	pdf.SetTextColor(0, 0, 0)
}

func studentAnswerText(q quiz.Question, ans quiz.StudentAnswer, answered bool) string {
	if !answered {
		return "-"
	}
	if q.Type == quiz.MultipleChoice {
		for _, c := range q.Choices {
			if c.ID == ans.ChoiceID {
				return c.Text
			}
		}
		return "-"
	}
	if ans.TextAnswer == "" {
		return "-"
	}
	return ans.TextAnswer
}

func correctAnswerText(q quiz.Question) string {
	if q.Type == quiz.MultipleChoice {
		for _, c := range q.Choices {
			if c.IsCorrect {
				return c.Text
			}
		}
		return "-"
	}
	return q.CorrectAnswer
}

// truncate shortens s to at most n runes. Counting runes rather than
// bytes keeps multi-byte text from being cut mid-character.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
