package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"paper-trail/models"
)

// CreateRoundRequest beschreibt eine neue Suchrunde.
type CreateRoundRequest struct {
	ProjectID uint
	Label     string
	Objective string
}

// LogQueryRequest beschreibt eine ausgeführte Suchanfrage.
type LogQueryRequest struct {
	RoundID    uint
	QueryText  string
	ExecutedAt string
	Notes      string
}

// RoundService verwaltet Suchrunden und deren Query-Log.
type RoundService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewRoundService(db *gorm.DB, logger *zap.Logger) *RoundService {
	return &RoundService{DB: db, Logger: logger.With(zap.String("service", "rounds"))}
}

// Create legt eine Runde unter einem Projekt an.
func (s *RoundService) Create(ctx context.Context, req CreateRoundRequest) (uint, error) {
	if err := requireFields("round", []string{"label", "objective"}, &req.Label, &req.Objective); err != nil {
		return 0, err
	}
	if err := ensureExists(ctx, s.DB, &models.Project{}, req.ProjectID, "project"); err != nil {
		return 0, err
	}
	round := models.SearchRound{ProjectID: req.ProjectID, Label: req.Label, Objective: req.Objective}
	if err := s.DB.WithContext(ctx).Create(&round).Error; err != nil {
		s.Logger.Error("Failed to create round", zap.Uint("project_id", req.ProjectID), zap.Error(err))
		return 0, classify("project", err)
	}
	s.Logger.Info("Search round created", zap.Uint("project_id", req.ProjectID), zap.Uint("round_id", round.ID))
	return round.ID, nil
}

// Get liefert eine Runde per ID.
func (s *RoundService) Get(ctx context.Context, id uint) (*models.SearchRound, error) {
	var round models.SearchRound
	if err := s.DB.WithContext(ctx).Where("id = ?", id).Take(&round).Error; err != nil {
		return nil, classify("round", err)
	}
	return &round, nil
}

// ListForProject liefert die Runden eines Projekts in Anlagereihenfolge.
func (s *RoundService) ListForProject(ctx context.Context, projectID uint) ([]models.SearchRound, error) {
	if err := ensureExists(ctx, s.DB, &models.Project{}, projectID, "project"); err != nil {
		return nil, err
	}
	return s.listForProject(ctx, projectID)
}

func (s *RoundService) listForProject(ctx context.Context, projectID uint) ([]models.SearchRound, error) {
	rounds := []models.SearchRound{}
	if err := s.DB.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&rounds).Error; err != nil {
		return nil, classify("rounds", err)
	}
	return rounds, nil
}

// LogQuery protokolliert eine Suchanfrage. Queries werden nie geändert.
func (s *RoundService) LogQuery(ctx context.Context, req LogQueryRequest) (uint, error) {
	if err := requireFields("query", []string{"query_text", "executed_at"}, &req.QueryText, &req.ExecutedAt); err != nil {
		return 0, err
	}
	executedAt, err := ParseDate(req.ExecutedAt)
	if err != nil {
		return 0, invalidf("query", "executed_at must be a date (YYYY-MM-DD or RFC3339)")
	}
	if err := ensureExists(ctx, s.DB, &models.SearchRound{}, req.RoundID, "round"); err != nil {
		return 0, err
	}
	query := models.SearchQuery{
		RoundID:    req.RoundID,
		QueryText:  req.QueryText,
		ExecutedAt: executedAt.UTC(),
		Notes:      nullIfEmpty(req.Notes),
	}
	if err := s.DB.WithContext(ctx).Create(&query).Error; err != nil {
		s.Logger.Error("Failed to log query", zap.Uint("round_id", req.RoundID), zap.Error(err))
		return 0, classify("round", err)
	}
	return query.ID, nil
}

// ListQueries liefert das Query-Log einer Runde: nach Ausführungsdatum, dann Anlage.
func (s *RoundService) ListQueries(ctx context.Context, roundID uint) ([]models.SearchQuery, error) {
	if err := ensureExists(ctx, s.DB, &models.SearchRound{}, roundID, "round"); err != nil {
		return nil, err
	}
	return s.listQueries(ctx, roundID)
}

func (s *RoundService) listQueries(ctx context.Context, roundID uint) ([]models.SearchQuery, error) {
	queries := []models.SearchQuery{}
	if err := s.DB.WithContext(ctx).
		Where("round_id = ?", roundID).
		Order("executed_at ASC, created_at ASC, id ASC").
		Find(&queries).Error; err != nil {
		return nil, classify("queries", err)
	}
	return queries, nil
}
