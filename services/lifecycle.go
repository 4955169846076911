package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"paper-trail/models"
)

// LifecycleManager setzt die Löschpolitik jeder Entität durch (siehe models.LifecyclePolicy):
// Projekte und Quellen werden archiviert, Runden kaskadierend gelöscht, Extracts und
// Belege einzeln gelöscht.
type LifecycleManager struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewLifecycleManager(db *gorm.DB, logger *zap.Logger) *LifecycleManager {
	return &LifecycleManager{DB: db, Logger: logger.With(zap.String("service", "lifecycle"))}
}

// DeleteRound entfernt erst die Queries, dann die Verknüpfungen, dann die Runde.
// Quellen, Extracts und Belege bleiben unberührt. Die Schritte laufen nicht in einer
// Transaktion; ein Abbruch wird gemeldet und kann durch Wiederholen abgeschlossen werden.
func (m *LifecycleManager) DeleteRound(ctx context.Context, roundID uint) (Outcome, error) {
	log := m.Logger.With(zap.Uint("round_id", roundID))
	db := m.DB.WithContext(ctx)

	queries := db.Where("round_id = ?", roundID).Delete(&models.SearchQuery{})
	if queries.Error != nil {
		log.Error("Failed to delete round queries", zap.Error(queries.Error))
		return "", classify("round", queries.Error)
	}
	links := db.Where("round_id = ?", roundID).Delete(&models.RoundSource{})
	if links.Error != nil {
		log.Error("Failed to delete round links", zap.Error(links.Error))
		return "", classify("round", links.Error)
	}
	round := db.Where("id = ?", roundID).Delete(&models.SearchRound{})
	if round.Error != nil {
		log.Error("Failed to delete round", zap.Error(round.Error))
		return "", classify("round", round.Error)
	}
	if round.RowsAffected == 0 {
		return OutcomeNotFound, notFound("round", nil)
	}
	log.Info("Round deleted",
		zap.Int64("queries_deleted", queries.RowsAffected),
		zap.Int64("links_deleted", links.RowsAffected))
	return OutcomeDeleted, nil
}

// ArchiveSource blendet eine Quelle aus Standardlisten aus. Idempotent.
// Archivierte Quellen bleiben per ID abrufbar und als Belegziel zulässig.
func (m *LifecycleManager) ArchiveSource(ctx context.Context, sourceID uint) (Outcome, error) {
	if err := ensureExists(ctx, m.DB, &models.Source{}, sourceID, "source"); err != nil {
		return "", err
	}
	if err := m.DB.WithContext(ctx).
		Model(&models.Source{}).
		Where("id = ?", sourceID).
		Update("is_archived", true).Error; err != nil {
		return "", classify("source", err)
	}
	m.Logger.Info("Source archived", zap.Uint("source_id", sourceID))
	return OutcomeArchived, nil
}

// ArchiveProject setzt den Projektstatus auf archived. Idempotent.
func (m *LifecycleManager) ArchiveProject(ctx context.Context, projectID uint) (Outcome, error) {
	if err := ensureExists(ctx, m.DB, &models.Project{}, projectID, "project"); err != nil {
		return "", err
	}
	if err := m.DB.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("status", models.ProjectArchived).Error; err != nil {
		return "", classify("project", err)
	}
	m.Logger.Info("Project archived", zap.Uint("project_id", projectID))
	return OutcomeArchived, nil
}

// DeleteExtract löscht ein Extract. Belege, die daraus hervorgingen, bleiben bestehen.
func (m *LifecycleManager) DeleteExtract(ctx context.Context, extractID uint) (Outcome, error) {
	return m.deleteOne(ctx, &models.Extract{}, extractID, "extract")
}

// DeleteEvidence löscht einen Beleg.
func (m *LifecycleManager) DeleteEvidence(ctx context.Context, evidenceID uint) (Outcome, error) {
	return m.deleteOne(ctx, &models.Evidence{}, evidenceID, "evidence")
}

func (m *LifecycleManager) deleteOne(ctx context.Context, model any, id uint, entity string) (Outcome, error) {
	res := m.DB.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		m.Logger.Error("Failed to delete "+entity, zap.Uint("id", id), zap.Error(res.Error))
		return "", classify(entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return OutcomeNotFound, notFound(entity, nil)
	}
	m.Logger.Info("Deleted "+entity, zap.Uint("id", id))
	return OutcomeDeleted, nil
}
