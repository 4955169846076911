package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"paper-trail/models"
)

// CreateProjectRequest beschreibt ein neues Recherche-Projekt.
type CreateProjectRequest struct {
	Title            string `json:"title"`
	ResearchQuestion string `json:"research_question"`
	Hypothesis       string `json:"hypothesis"`
	TimespanStart    string `json:"timespan_start"`
	TimespanEnd      string `json:"timespan_end"`
}

// ProjectService verwaltet Projekte.
type ProjectService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewProjectService(db *gorm.DB, logger *zap.Logger) *ProjectService {
	return &ProjectService{DB: db, Logger: logger.With(zap.String("service", "projects"))}
}

// Create legt ein aktives Projekt an.
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (uint, error) {
	if err := requireFields("project", []string{"title", "research_question"}, &req.Title, &req.ResearchQuestion); err != nil {
		return 0, err
	}
	start, err := optionalDate("project", "timespan_start", req.TimespanStart)
	if err != nil {
		return 0, err
	}
	end, err := optionalDate("project", "timespan_end", req.TimespanEnd)
	if err != nil {
		return 0, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return 0, invalidf("project", "timespan_end must not be before timespan_start")
	}

	project := models.Project{
		Title:            req.Title,
		ResearchQuestion: req.ResearchQuestion,
		Hypothesis:       nullIfEmpty(req.Hypothesis),
		TimespanStart:    start,
		TimespanEnd:      end,
		Status:           models.ProjectActive,
	}
	if err := s.DB.WithContext(ctx).Create(&project).Error; err != nil {
		s.Logger.Error("Failed to create project", zap.Error(err))
		return 0, classify("project", err)
	}
	s.Logger.Info("Project created", zap.Uint("project_id", project.ID))
	return project.ID, nil
}

// List liefert Projekte, neueste zuerst. Archivierte nur mit includeArchived.
func (s *ProjectService) List(ctx context.Context, includeArchived bool) ([]models.Project, error) {
	query := s.DB.WithContext(ctx)
	if !includeArchived {
		query = query.Where("status = ?", models.ProjectActive)
	}
	projects := []models.Project{}
	if err := query.Order("created_at DESC, id DESC").Find(&projects).Error; err != nil {
		return nil, classify("projects", err)
	}
	return projects, nil
}

// Get liefert ein Projekt per ID.
func (s *ProjectService) Get(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := s.DB.WithContext(ctx).Where("id = ?", id).Take(&project).Error; err != nil {
		return nil, classify("project", err)
	}
	return &project, nil
}
