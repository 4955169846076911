package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"paper-trail/models"
)

// CaptureRequest beschreibt eine neue Textstelle.
type CaptureRequest struct {
	SourceID uint
	Type     models.ExtractType
	Text     string
	Context  string
	Location string
}

// ExtractStore erfasst rohe Textstellen. Extracts sind append-only und einzeln löschbar.
type ExtractStore struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewExtractStore(db *gorm.DB, logger *zap.Logger) *ExtractStore {
	return &ExtractStore{DB: db, Logger: logger.With(zap.String("service", "extract_store"))}
}

// Capture legt ein Extract an. Alle Felder sind Pflicht.
func (s *ExtractStore) Capture(ctx context.Context, req CaptureRequest) (uint, error) {
	typ := string(req.Type)
	if err := requireFields("extract",
		[]string{"extract_type", "extract_text", "context_text", "location_ref"},
		&typ, &req.Text, &req.Context, &req.Location); err != nil {
		return 0, err
	}
	if !models.ExtractType(typ).Valid() {
		return 0, invalidf("extract", "invalid extract type %q, must be quote or passage", typ)
	}
	if err := ensureExists(ctx, s.DB, &models.Source{}, req.SourceID, "source"); err != nil {
		return 0, err
	}

	extract := models.Extract{
		SourceID:    req.SourceID,
		ExtractType: models.ExtractType(typ),
		ExtractText: req.Text,
		ContextText: req.Context,
		LocationRef: req.Location,
	}
	if err := s.DB.WithContext(ctx).Create(&extract).Error; err != nil {
		s.Logger.Error("Failed to capture extract", zap.Uint("source_id", req.SourceID), zap.Error(err))
		return 0, classify("source", err)
	}
	s.Logger.Info("Extract captured", zap.Uint("source_id", req.SourceID), zap.Uint("extract_id", extract.ID))
	return extract.ID, nil
}

// Get liefert ein Extract per ID.
func (s *ExtractStore) Get(ctx context.Context, id uint) (*models.Extract, error) {
	var extract models.Extract
	if err := s.DB.WithContext(ctx).Where("id = ?", id).Take(&extract).Error; err != nil {
		return nil, classify("extract", err)
	}
	return &extract, nil
}

// ListForSource liefert die Extracts einer Quelle in Erfassungsreihenfolge.
func (s *ExtractStore) ListForSource(ctx context.Context, sourceID uint) ([]models.Extract, error) {
	if err := ensureExists(ctx, s.DB, &models.Source{}, sourceID, "source"); err != nil {
		return nil, err
	}
	return s.listForSource(ctx, sourceID)
}

func (s *ExtractStore) listForSource(ctx context.Context, sourceID uint) ([]models.Extract, error) {
	extracts := []models.Extract{}
	if err := s.DB.WithContext(ctx).
		Where("source_id = ?", sourceID).
		Order("created_at ASC, id ASC").
		Find(&extracts).Error; err != nil {
		return nil, classify("extracts", err)
	}
	return extracts, nil
}
