package report

import (
	"fmt"
	"io"
	"strings"

	"aurora/internal/models"

	"github.com/go-pdf/fpdf"
)

const pageMargin = 15.0

// AttemptReport bundles everything the PDF needs. Questions may be missing
// entries when the underlying question was deleted after submission.
type AttemptReport struct {
	Attempt     models.Attempt
	StudentName string
	QuizTitle   string
	Questions   map[string]models.Question
}

// WriteAttemptPDF renders a finalized attempt as an A4 PDF.
func WriteAttemptPDF(w io.Writer, rep AttemptReport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(156, 163, 175)
		pdf.CellFormat(0, 5, "Generated by Aurora Quiz System", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	// Header
	pdf.SetFillColor(79, 70, 229)
	pdf.Rect(0, 0, 210, 2, "F")
	pdf.SetTextColor(79, 70, 229)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, "AURORA", "", 1, "L", false, 0, "")
	pdf.SetTextColor(156, 163, 175)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "INTERACTIVE LEARNING", "", 1, "L", false, 0, "")

	pdf.SetTextColor(17, 24, 39)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Attempt Report", "", 1, "R", false, 0, "")
	pdf.SetTextColor(156, 163, 175)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "#"+shortID(rep.Attempt.ID), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	// Summary box
	total := len(rep.Attempt.Responses)
	percentage := 0
	if total > 0 {
		percentage = int(float64(rep.Attempt.Score)/float64(total)*100 + 0.5)
	}
	submitted := "-"
	if rep.Attempt.SubmittedAt != nil {
		submitted = rep.Attempt.SubmittedAt.Format("2 Jan 2006, 15:04")
	}

	boxY := pdf.GetY()
	pdf.SetFillColor(249, 250, 251)
	pdf.SetDrawColor(229, 231, 235)
	pdf.Rect(pageMargin, boxY, 180, 30, "FD")
	pdf.SetXY(pageMargin+6, boxY+5)
	pdf.SetTextColor(17, 24, 39)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 6, rep.StudentName, "", 2, "L", false, 0, "")
	pdf.SetTextColor(55, 65, 81)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(120, 6, rep.QuizTitle, "", 2, "L", false, 0, "")
	pdf.SetTextColor(156, 163, 175)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(120, 6, submitted, "", 0, "L", false, 0, "")

	if percentage >= 50 {
		pdf.SetTextColor(5, 150, 105)
	} else {
		pdf.SetTextColor(220, 38, 38)
	}
	pdf.SetXY(pageMargin+140, boxY+8)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(34, 8, fmt.Sprintf("%d%%", percentage), "", 2, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(55, 65, 81)
	pdf.CellFormat(34, 6, fmt.Sprintf("%d / %d", rep.Attempt.Score, total), "", 0, "C", false, 0, "")

	pdf.SetY(boxY + 38)

	// Per-question breakdown
	pdf.SetTextColor(17, 24, 39)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Detailed Responses", "", 1, "L", false, 0, "")
	pdf.SetDrawColor(229, 231, 235)
	pdf.Line(pageMargin, pdf.GetY(), 210-pageMargin, pdf.GetY())
	pdf.Ln(4)

	for i, resp := range rep.Attempt.Responses {
		prompt := "Question content no longer available"
		if q, ok := rep.Questions[resp.QuestionID]; ok {
			prompt = q.Prompt
		}
		selected := resp.Selected
		if strings.TrimSpace(selected) == "" {
			selected = "(no answer)"
		}

		rowY := pdf.GetY()
		if resp.Correct {
			pdf.SetFillColor(5, 150, 105)
		} else {
			pdf.SetFillColor(220, 38, 38)
		}
		pdf.Rect(pageMargin, rowY, 1.5, 16, "F")

		pdf.SetXY(pageMargin+5, rowY)
		pdf.SetTextColor(156, 163, 175)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(10, 6, fmt.Sprintf("%02d", i+1), "", 0, "L", false, 0, "")

		pdf.SetTextColor(17, 24, 39)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(135, 6, prompt, "", "L", false)

		pdf.SetX(pageMargin + 15)
		pdf.SetTextColor(55, 65, 81)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(28, 6, "You selected:", "", 0, "L", false, 0, "")
		if resp.Correct {
			pdf.SetTextColor(5, 150, 105)
		} else {
			pdf.SetTextColor(220, 38, 38)
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(105, 6, selected, "", 0, "L", false, 0, "")

		badge := "WRONG"
		if resp.Correct {
			badge = "CORRECT"
		}
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(25, 6, badge, "", 1, "R", false, 0, "")
		pdf.Ln(4)
	}

	return pdf.Output(w)
}

func shortID(id string) string {
	upper := strings.ToUpper(id)
	if len(upper) <= 8 {
		return upper
	}
	return upper[len(upper)-8:]
}

// Filename is the suggested download name for an attempt PDF.
func Filename(attempt models.Attempt) string {
	return fmt.Sprintf("attempt-%s.pdf", attempt.ID)
}
