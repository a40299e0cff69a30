package service

import (
	"context"
	"fmt"
	"time"

	"github.com/teamcal/teamcal-api/internal/dto"
	"github.com/teamcal/teamcal-api/internal/models"
	appErrors "github.com/teamcal/teamcal-api/pkg/errors"
	"github.com/teamcal/teamcal-api/pkg/export"
)

type calendarProjector interface {
	Calendar(ctx context.Context, requester *models.JWTClaims) (*dto.CalendarResponse, bool, error)
}

// ExportFormat selects the export rendering.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportResult carries rendered bytes with response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the requesting user's visible calendar as a
// downloadable document. Visibility rules are the calendar service's;
// this only reshapes the projection into tabular form.
type ExportService struct {
	calendar calendarProjector
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	maxRows  int
}

// NewExportService constructs the service.
func NewExportService(calendar calendarProjector, maxRows int) *ExportService {
	return &ExportService{
		calendar: calendar,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		maxRows:  maxRows,
	}
}

var exportHeaders = []string{"Title", "Type", "Start", "End", "Status", "Scope", "Creator", "Team"}

// Export renders the visible calendar in the requested format.
func (s *ExportService) Export(ctx context.Context, requester *models.JWTClaims, format ExportFormat) (*ExportResult, error) {
	resp, _, err := s.calendar.Calendar(ctx, requester)
	if err != nil {
		return nil, err
	}

	events := resp.Events
	if s.maxRows > 0 && len(events) > s.maxRows {
		events = events[:s.maxRows]
	}

	data := export.Dataset{Headers: exportHeaders, Rows: make([]map[string]string, 0, len(events))}
	for _, e := range events {
		data.Rows = append(data.Rows, map[string]string{
			"Title":   e.Title,
			"Type":    e.Type,
			"Start":   e.Start,
			"End":     e.End,
			"Status":  e.Status,
			"Scope":   e.Scope,
			"Creator": e.CreatorUsername,
			"Team":    e.TeamName,
		})
	}

	stamp := time.Now().UTC().Format("20060102")
	switch format {
	case ExportCSV:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("calendar-%s.csv", stamp),
		}, nil
	case ExportPDF:
		content, err := s.pdf.Render(data, "Team Calendar")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("calendar-%s.pdf", stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
