package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/educare-ngo/educare-api/internal/models"
	appErrors "github.com/educare-ngo/educare-api/pkg/errors"
	"github.com/educare-ngo/educare-api/pkg/export"
)

type statsRepository interface {
	CountsByCourseInRange(ctx context.Context, start, end time.Time) ([]models.CourseEnrollmentCount, error)
}

// Export formats accepted by the stats export endpoint.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// StatsExport is a rendered report ready for download.
type StatsExport struct {
	Content     []byte
	ContentType string
	Filename    string
}

// StatsService produces the enrollments-per-course report.
type StatsService struct {
	repo   statsRepository
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewStatsService constructs the stats service.
func NewStatsService(repo statsRepository, csv *export.CSVExporter, pdf *export.PDFExporter, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{repo: repo, csv: csv, pdf: pdf, logger: logger}
}

// EnrollmentCounts returns enrollment counts per course within the inclusive
// date range, busiest course first. The result is recomputed on every call.
func (s *StatsService) EnrollmentCounts(ctx context.Context, startRaw, endRaw string) ([]models.CourseEnrollmentCount, error) {
	start, end, err := parseRange(startRaw, endRaw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start and end dates are required in YYYY-MM-DD format")
	}
	counts, err := s.repo.CountsByCourseInRange(ctx, start, end)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute enrollment stats")
	}
	return counts, nil
}

// Export renders the enrollment report as CSV or PDF.
func (s *StatsService) Export(ctx context.Context, startRaw, endRaw, format string) (*StatsExport, error) {
	counts, err := s.EnrollmentCounts(ctx, startRaw, endRaw)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Course", "Enrollments"},
		Rows:    make([]map[string]string, 0, len(counts)),
	}
	for _, count := range counts {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Course":      count.CourseName,
			"Enrollments": strconv.Itoa(count.EnrollmentCount),
		})
	}

	title := fmt.Sprintf("Enrollments by course %s to %s", startRaw, endRaw)
	switch format {
	case ExportFormatCSV, "":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &StatsExport{Content: content, ContentType: "text/csv", Filename: "enrollments-by-course.csv"}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &StatsExport{Content: content, ContentType: "application/pdf", Filename: "enrollments-by-course.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func parseRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := parseRequiredDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseRequiredDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date precedes start date")
	}
	return start, end, nil
}
