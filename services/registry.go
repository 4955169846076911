package services

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"paper-trail/models"
)

// SourceMetadata sind die beschreibenden Felder einer Quelle. Sie werden nur beim
// ersten Erwerb gespeichert; spätere Erwerbe derselben URL überschreiben nichts.
type SourceMetadata struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Publisher   string `json:"publisher"`
	PublishedAt string `json:"published_at"`
	Summary     string `json:"summary"`
	Notes       string `json:"notes"`
}

// AcquireRequest beschreibt das Erfassen einer URL in einer Runde.
type AcquireRequest struct {
	ProjectID uint
	RoundID   uint
	URL       string
	Type      models.SourceType
	Metadata  SourceMetadata
}

// AcquireResult meldet die (ggf. wiederverwendete) Quelle.
type AcquireResult struct {
	SourceID uint    `json:"id"`
	Created  bool    `json:"created"`
	Outcome  Outcome `json:"outcome"`
}

// SourceRegistry dedupliziert Quellen pro Projekt über die kanonische URL.
//
// Suche und Anlage sind nicht atomar: zwei gleichzeitige Erwerbe derselben URL
// können zwei Quellen erzeugen. Es wird ein einzelner Schreiber angenommen.
type SourceRegistry struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Linker *RoundSourceLinker

	// projectID|normalized -> sourceID; Quellen werden nie gelöscht und ihre
	// kanonische URL ändert sich nicht, daher veralten Einträge nicht.
	lookups *lru.Cache[string, uint]
}

// NewSourceRegistry erstellt eine neue Registry. cacheSize <= 0 deaktiviert den Lookup-Cache.
func NewSourceRegistry(db *gorm.DB, logger *zap.Logger, linker *RoundSourceLinker, cacheSize int) (*SourceRegistry, error) {
	r := &SourceRegistry{
		DB:     db,
		Logger: logger.With(zap.String("service", "source_registry")),
		Linker: linker,
	}
	if cacheSize > 0 {
		cache, err := lru.New[string, uint](cacheSize)
		if err != nil {
			return nil, err
		}
		r.lookups = cache
	}
	return r, nil
}

func lookupKey(projectID uint, normalized string) string {
	return fmt.Sprintf("%d|%s", projectID, normalized)
}

// Acquire erfasst eine URL in einer Runde: vorhandene Quelle wiederverwenden oder
// neu anlegen, dann die Runde idempotent verknüpfen.
func (r *SourceRegistry) Acquire(ctx context.Context, req AcquireRequest) (*AcquireResult, error) {
	if err := validateURL(req.URL); err != nil {
		return nil, err
	}
	if req.Type == "" {
		return nil, invalidf("source", "source type is required")
	}
	if !req.Type.Valid() {
		return nil, invalidf("source", "invalid source type %q", req.Type)
	}
	if req.RoundID == 0 {
		return nil, invalidf("source", "round id is required")
	}
	publishedAt, err := optionalDate("source", "published_at", req.Metadata.PublishedAt)
	if err != nil {
		return nil, err
	}

	var round models.SearchRound
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND project_id = ?", req.RoundID, req.ProjectID).
		Take(&round).Error; err != nil {
		return nil, classify("round", err)
	}

	normalized := Canonicalize(req.URL)
	log := r.Logger.With(zap.Uint("project_id", req.ProjectID), zap.String("normalized_url", normalized))

	sourceID, found, err := r.lookup(ctx, req.ProjectID, normalized)
	if err != nil {
		return nil, err
	}

	result := &AcquireResult{SourceID: sourceID, Outcome: OutcomeReused}
	if !found {
		source := models.Source{
			ProjectID:     req.ProjectID,
			URL:           trimmed(req.URL),
			NormalizedURL: normalized,
			SourceType:    req.Type,
			Title:         nullIfEmpty(req.Metadata.Title),
			Author:        nullIfEmpty(req.Metadata.Author),
			Publisher:     nullIfEmpty(req.Metadata.Publisher),
			PublishedAt:   publishedAt,
			Summary:       nullIfEmpty(req.Metadata.Summary),
			Notes:         nullIfEmpty(req.Metadata.Notes),
		}
		if err := r.DB.WithContext(ctx).Create(&source).Error; err != nil {
			log.Error("Failed to create source", zap.Error(err))
			return nil, classify("project", err)
		}
		r.remember(req.ProjectID, normalized, source.ID)
		result = &AcquireResult{SourceID: source.ID, Created: true, Outcome: OutcomeCreated}
	}

	// Eine neu angelegte Quelle bleibt bestehen, auch wenn das Verknüpfen scheitert;
	// ein erneuter Aufruf findet sie dann als "reused".
	if err := r.Linker.upsert(ctx, req.RoundID, result.SourceID); err != nil {
		return nil, err
	}

	sourcesAcquiredCounter.WithLabelValues(string(result.Outcome)).Inc()
	log.Info("Source acquired",
		zap.Uint("round_id", req.RoundID),
		zap.Uint("source_id", result.SourceID),
		zap.String("outcome", string(result.Outcome)))
	return result, nil
}

func (r *SourceRegistry) lookup(ctx context.Context, projectID uint, normalized string) (uint, bool, error) {
	if r.lookups != nil {
		if id, ok := r.lookups.Get(lookupKey(projectID, normalized)); ok {
			return id, true, nil
		}
	}
	var existing []models.Source
	err := r.DB.WithContext(ctx).
		Select("id").
		Where("project_id = ? AND normalized_url = ?", projectID, normalized).
		Order("id ASC").
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return 0, false, classify("source", err)
	}
	if len(existing) == 0 {
		return 0, false, nil
	}
	r.remember(projectID, normalized, existing[0].ID)
	return existing[0].ID, true, nil
}

func (r *SourceRegistry) remember(projectID uint, normalized string, id uint) {
	if r.lookups != nil {
		r.lookups.Add(lookupKey(projectID, normalized), id)
	}
}

// Get liefert eine Quelle per ID, auch wenn sie archiviert ist.
func (r *SourceRegistry) Get(ctx context.Context, id uint) (*models.Source, error) {
	var source models.Source
	if err := r.DB.WithContext(ctx).Where("id = ?", id).Take(&source).Error; err != nil {
		return nil, classify("source", err)
	}
	return &source, nil
}

// ListForProject liefert die Quellen eines Projekts, neueste zuerst.
// Archivierte Quellen nur mit includeArchived.
func (r *SourceRegistry) ListForProject(ctx context.Context, projectID uint, includeArchived bool) ([]models.Source, error) {
	if err := ensureExists(ctx, r.DB, &models.Project{}, projectID, "project"); err != nil {
		return nil, err
	}
	query := r.DB.WithContext(ctx).Where("project_id = ?", projectID)
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}
	sources := []models.Source{}
	if err := query.Order("created_at DESC, id DESC").Find(&sources).Error; err != nil {
		return nil, classify("sources", err)
	}
	return sources, nil
}

// listAllForProject liefert alle Quellen inklusive archivierter, älteste zuerst.
func (r *SourceRegistry) listAllForProject(ctx context.Context, projectID uint) ([]models.Source, error) {
	sources := []models.Source{}
	if err := r.DB.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&sources).Error; err != nil {
		return nil, classify("sources", err)
	}
	return sources, nil
}
