package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"paper-trail/models"
)

// RecordRequest beschreibt einen neuen Beleg. ExtractID ist optional und verweist auf
// das Extract, aus dem der Beleg hervorgeht.
type RecordRequest struct {
	SourceID    uint
	Type        models.EvidenceType
	Text        string
	Context     string
	Location    string
	WhyRelevant string
	ExtractID   *uint
}

// EvidenceStore erfasst begründete Belege. why_relevant unterscheidet einen Beleg
// strukturell von einem bloßen Extract.
type EvidenceStore struct {
	DB       *gorm.DB
	Logger   *zap.Logger
	Extracts *ExtractStore
}

func NewEvidenceStore(db *gorm.DB, logger *zap.Logger, extracts *ExtractStore) *EvidenceStore {
	return &EvidenceStore{DB: db, Logger: logger.With(zap.String("service", "evidence_store")), Extracts: extracts}
}

// Record legt einen Beleg an. Die Felder werden kopiert; das Extract bleibt davon unabhängig.
func (s *EvidenceStore) Record(ctx context.Context, req RecordRequest) (uint, error) {
	typ := string(req.Type)
	if err := requireFields("evidence",
		[]string{"evidence_type", "evidence_text", "context_text", "location_ref", "why_relevant"},
		&typ, &req.Text, &req.Context, &req.Location, &req.WhyRelevant); err != nil {
		return 0, err
	}
	if !models.EvidenceType(typ).Valid() {
		return 0, invalidf("evidence", "invalid evidence type %q", typ)
	}
	if err := ensureExists(ctx, s.DB, &models.Source{}, req.SourceID, "source"); err != nil {
		return 0, err
	}
	if req.ExtractID != nil {
		extract, err := s.Extracts.Get(ctx, *req.ExtractID)
		if errors.Is(err, ErrNotFound) {
			return 0, invalidf("evidence", "extract_id %d does not reference an existing extract", *req.ExtractID)
		}
		if err != nil {
			return 0, err
		}
		if extract.SourceID != req.SourceID {
			return 0, invalidf("evidence", "extract %d does not belong to source %d", extract.ID, req.SourceID)
		}
	}

	evidence := models.Evidence{
		SourceID:     req.SourceID,
		ExtractID:    req.ExtractID,
		EvidenceType: models.EvidenceType(typ),
		EvidenceText: req.Text,
		ContextText:  req.Context,
		LocationRef:  req.Location,
		WhyRelevant:  req.WhyRelevant,
	}
	if err := s.DB.WithContext(ctx).Create(&evidence).Error; err != nil {
		s.Logger.Error("Failed to record evidence", zap.Uint("source_id", req.SourceID), zap.Error(err))
		return 0, classify("source", err)
	}
	s.Logger.Info("Evidence recorded", zap.Uint("source_id", req.SourceID), zap.Uint("evidence_id", evidence.ID))
	return evidence.ID, nil
}

// Get liefert einen Beleg per ID.
func (s *EvidenceStore) Get(ctx context.Context, id uint) (*models.Evidence, error) {
	var evidence models.Evidence
	if err := s.DB.WithContext(ctx).Where("id = ?", id).Take(&evidence).Error; err != nil {
		return nil, classify("evidence", err)
	}
	return &evidence, nil
}

// ListForSource liefert die Belege einer Quelle in Erfassungsreihenfolge.
func (s *EvidenceStore) ListForSource(ctx context.Context, sourceID uint) ([]models.Evidence, error) {
	if err := ensureExists(ctx, s.DB, &models.Source{}, sourceID, "source"); err != nil {
		return nil, err
	}
	return s.listForSource(ctx, sourceID)
}

func (s *EvidenceStore) listForSource(ctx context.Context, sourceID uint) ([]models.Evidence, error) {
	evidence := []models.Evidence{}
	if err := s.DB.WithContext(ctx).
		Where("source_id = ?", sourceID).
		Order("created_at ASC, id ASC").
		Find(&evidence).Error; err != nil {
		return nil, classify("evidence", err)
	}
	return evidence, nil
}

// ListForProject liefert alle Belege eines Projekts über seine Quellen hinweg.
func (s *EvidenceStore) ListForProject(ctx context.Context, projectID uint) ([]models.Evidence, error) {
	if err := ensureExists(ctx, s.DB, &models.Project{}, projectID, "project"); err != nil {
		return nil, err
	}
	evidence := []models.Evidence{}
	if err := s.DB.WithContext(ctx).
		Model(&models.Evidence{}).
		Select("evidence.*").
		Joins("JOIN sources ON sources.id = evidence.source_id").
		Where("sources.project_id = ?", projectID).
		Order("evidence.created_at ASC, evidence.id ASC").
		Find(&evidence).Error; err != nil {
		return nil, classify("evidence", err)
	}
	return evidence, nil
}
