package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"paper-trail/models"
)

// Renderer setzt einen Report-Baum in ein Dokument um.
type Renderer interface {
	Render(ctx context.Context, doc *models.ReportDocument, style string) ([]byte, error)
}

// ExportService erzeugt das PDF-Dossier eines Projekts.
type ExportService struct {
	Aggregator   *ReportAggregator
	Renderer     Renderer
	Logger       *zap.Logger
	DefaultStyle string
}

func NewExportService(aggregator *ReportAggregator, renderer Renderer, logger *zap.Logger, defaultStyle string) *ExportService {
	return &ExportService{
		Aggregator:   aggregator,
		Renderer:     renderer,
		Logger:       logger.With(zap.String("service", "export")),
		DefaultStyle: defaultStyle,
	}
}

// Export baut den Report und rendert ihn. Leerer Stil = DefaultStyle.
func (s *ExportService) Export(ctx context.Context, projectID uint, style string) ([]byte, error) {
	style = strings.TrimSpace(style)
	if style == "" {
		style = s.DefaultStyle
	}

	doc, err := s.Aggregator.Assemble(ctx, projectID)
	if err != nil {
		return nil, err
	}

	pdf, err := s.Renderer.Render(ctx, doc, style)
	if err != nil {
		if errors.Is(err, ErrInvalid) {
			return nil, err
		}
		s.Logger.Error("Failed to render dossier",
			zap.Uint("project_id", projectID),
			zap.String("style", style),
			zap.Error(err))
		return nil, storageFailure("report", err)
	}

	reportsRenderedCounter.WithLabelValues(style).Inc()
	s.Logger.Info("Dossier rendered",
		zap.Uint("project_id", projectID),
		zap.String("style", style),
		zap.Int("bytes", len(pdf)))
	return pdf, nil
}
