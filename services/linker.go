package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paper-trail/models"
)

// RoundSourceLinker verwaltet die Verknüpfungstabelle zwischen Runden und Quellen.
type RoundSourceLinker struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewRoundSourceLinker erstellt einen neuen Linker.
func NewRoundSourceLinker(db *gorm.DB, logger *zap.Logger) *RoundSourceLinker {
	return &RoundSourceLinker{DB: db, Logger: logger.With(zap.String("service", "linker"))}
}

// Link verknüpft Runde und Quelle. Mehrfaches Verknüpfen ist ein No-op.
// Runde und Quelle müssen existieren und zum selben Projekt gehören.
func (l *RoundSourceLinker) Link(ctx context.Context, roundID, sourceID uint) (Outcome, error) {
	var round models.SearchRound
	if err := l.DB.WithContext(ctx).Where("id = ?", roundID).Take(&round).Error; err != nil {
		return "", classify("round", err)
	}
	var source models.Source
	if err := l.DB.WithContext(ctx).Where("id = ?", sourceID).Take(&source).Error; err != nil {
		return "", classify("source", err)
	}
	if round.ProjectID != source.ProjectID {
		return "", invalidf("link", "source %d does not belong to the project of round %d", sourceID, roundID)
	}
	if err := l.upsert(ctx, roundID, sourceID); err != nil {
		return "", err
	}
	return OutcomeLinked, nil
}

// upsert schreibt die Verknüpfung idempotent (ON CONFLICT DO NOTHING auf dem Composite-Key).
func (l *RoundSourceLinker) upsert(ctx context.Context, roundID, sourceID uint) error {
	link := models.RoundSource{RoundID: roundID, SourceID: sourceID}
	err := l.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "round_id"}, {Name: "source_id"}},
		DoNothing: true,
	}).Create(&link).Error
	if err != nil {
		l.Logger.Error("Failed to upsert round source link",
			zap.Uint("round_id", roundID), zap.Uint("source_id", sourceID), zap.Error(err))
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return notFound("round", err)
		}
		return classify("link", err)
	}
	return nil
}

// Unlink entfernt die Verknüpfung, falls vorhanden. Fehlen ist kein Fehler.
func (l *RoundSourceLinker) Unlink(ctx context.Context, roundID, sourceID uint) (Outcome, error) {
	err := l.DB.WithContext(ctx).
		Where("round_id = ? AND source_id = ?", roundID, sourceID).
		Delete(&models.RoundSource{}).Error
	if err != nil {
		return "", classify("link", err)
	}
	return OutcomeUnlinked, nil
}

// ListForRound liefert die verknüpften Quellen in Verknüpfungsreihenfolge.
func (l *RoundSourceLinker) ListForRound(ctx context.Context, roundID uint, includeArchived bool) ([]models.Source, error) {
	if err := ensureExists(ctx, l.DB, &models.SearchRound{}, roundID, "round"); err != nil {
		return nil, err
	}
	query := l.DB.WithContext(ctx).
		Model(&models.Source{}).
		Select("sources.*").
		Joins("JOIN round_sources ON round_sources.source_id = sources.id").
		Where("round_sources.round_id = ?", roundID)
	if !includeArchived {
		query = query.Where("sources.is_archived = ?", false)
	}
	sources := []models.Source{}
	if err := query.Order("round_sources.created_at ASC, sources.id ASC").Find(&sources).Error; err != nil {
		return nil, classify("round sources", err)
	}
	return sources, nil
}

// SourceIDsForRound liefert nur die IDs, archivierte eingeschlossen, in Verknüpfungsreihenfolge.
func (l *RoundSourceLinker) SourceIDsForRound(ctx context.Context, roundID uint) ([]uint, error) {
	ids := []uint{}
	err := l.DB.WithContext(ctx).
		Model(&models.RoundSource{}).
		Where("round_id = ?", roundID).
		Order("created_at ASC, source_id ASC").
		Pluck("source_id", &ids).Error
	if err != nil {
		return nil, classify("round sources", err)
	}
	return ids, nil
}
