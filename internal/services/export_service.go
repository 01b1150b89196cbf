package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"coursepick/internal/export"
	"coursepick/pkg/metrics"
	"coursepick/pkg/utils"
)

type ExportedFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type ExportServiceInterface interface {
	ExportSchedule(ctx context.Context, sessionID string, format string) (*ExportedFile, error)
}

type ExportService struct {
	recommend RecommendationServiceInterface
	metrics   *metrics.Metrics
}

func NewExportService(recommend RecommendationServiceInterface, m *metrics.Metrics) ExportServiceInterface {
	return &ExportService{recommend: recommend, metrics: m}
}

// ExportSchedule renders the session's last successful schedule. An error outcome or a
// session that never submitted has nothing to export.
func (e *ExportService) ExportSchedule(ctx context.Context, sessionID string, format string) (*ExportedFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	contentType, ok := export.ContentType(format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", utils.ErrUnsupportedFormat, format)
	}

	outcome, err := e.recommend.LastOutcome(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if outcome == nil || !outcome.HasSchedule() {
		return nil, utils.ErrNoSchedule
	}

	var buf bytes.Buffer
	switch format {
	case export.FormatCSV:
		err = export.WriteScheduleCSV(&buf, outcome.Semesters)
	case export.FormatXLSX:
		err = export.WriteScheduleXLSX(&buf, outcome.Semesters)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}

	e.metrics.ObserveExport(format)
	return &ExportedFile{
		Filename:    "schedule." + format,
		ContentType: contentType,
		Body:        buf.Bytes(),
	}, nil
}
