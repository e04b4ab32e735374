package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/models"
)

// Report is a rendered document ready to be sent as an attachment.
type Report struct {
	Filename string
	Content  []byte
}

type rgb struct{ r, g, b int }

var statusColors = map[string]rgb{
	models.StatusAccepted: {22, 163, 74},
	models.StatusRejected: {220, 38, 38},
	models.StatusPending:  {217, 119, 6},
}

type ReportService struct {
	store database.Store
	now   func() time.Time
}

func NewReportService(store database.Store) *ReportService {
	return &ReportService{store: store, now: time.Now}
}

// UserReport renders the user's applications as a PDF. Everything is loaded
// before rendering starts so failures surface as ordinary errors.
func (s *ReportService) UserReport(ctx context.Context, userID uint) (*Report, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound(msgUserNotFound)
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	apps, err := s.store.ListApplicationsByApplicant(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to load applications", err)
	}

	content, err := renderReport(user, apps, s.now())
	if err != nil {
		return nil, apperr.Internal("failed to render report", err)
	}
	return &Report{
		Filename: fmt.Sprintf("application-report-%d.pdf", user.ID),
		Content:  content,
	}, nil
}

func renderReport(user *models.User, apps []models.Application, generated time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Application Report", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Application Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(user.Fullname), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr(user.Email), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Generated "+generated.Format("02 Jan 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	widths := []float64{65, 55, 30, 40}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(229, 231, 235)
	for i, h := range []string{"Job Title", "Company", "Status", "Applied On"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(apps) == 0 {
		pdf.CellFormat(sum(widths), 8, "No applications yet.", "1", 1, "C", false, 0, "")
	}
	for _, a := range apps {
		title, company := "-", "-"
		if a.Job != nil {
			title = a.Job.Title
			if a.Job.Company != nil {
				company = a.Job.Company.Name
			}
		}
		pdf.CellFormat(widths[0], 8, tr(truncate(title, 38)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 8, tr(truncate(company, 32)), "1", 0, "L", false, 0, "")

		c, ok := statusColors[a.Status]
		if !ok {
			c = rgb{0, 0, 0}
		}
		pdf.SetTextColor(c.r, c.g, c.b)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(widths[2], 8, strings.ToUpper(a.Status), "1", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 10)

		pdf.CellFormat(widths[3], 8, a.CreatedAt.Format("02 Jan 2006"), "1", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total applications: %d", len(apps)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sum(xs []float64) float64 {
	var t float64
	for _, x := range xs {
		t += x
	}
	return t
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
