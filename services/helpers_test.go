package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"paper-trail/database"
	"paper-trail/models"
)

// fixture verdrahtet alle Services auf einer frischen In-Memory-Datenbank.
type fixture struct {
	db        *gorm.DB
	projects  *ProjectService
	rounds    *RoundService
	linker    *RoundSourceLinker
	sources   *SourceRegistry
	extracts  *ExtractStore
	evidence  *EvidenceStore
	lifecycle *LifecycleManager
	reports   *ReportAggregator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	log := zap.NewNop()
	linker := NewRoundSourceLinker(db, log)
	sources, err := NewSourceRegistry(db, log, linker, 128)
	require.NoError(t, err)
	projects := NewProjectService(db, log)
	rounds := NewRoundService(db, log)
	extracts := NewExtractStore(db, log)
	evidence := NewEvidenceStore(db, log, extracts)

	return &fixture{
		db:        db,
		projects:  projects,
		rounds:    rounds,
		linker:    linker,
		sources:   sources,
		extracts:  extracts,
		evidence:  evidence,
		lifecycle: NewLifecycleManager(db, log),
		reports:   NewReportAggregator(projects, rounds, sources, linker, extracts, evidence, log, 4),
	}
}

func (f *fixture) project(t *testing.T, title string) uint {
	t.Helper()
	id, err := f.projects.Create(context.Background(), CreateProjectRequest{
		Title:            title,
		ResearchQuestion: "What changed?",
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) round(t *testing.T, projectID uint, label string) uint {
	t.Helper()
	id, err := f.rounds.Create(context.Background(), CreateRoundRequest{
		ProjectID: projectID,
		Label:     label,
		Objective: "scope",
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) acquire(t *testing.T, projectID, roundID uint, url string) *AcquireResult {
	t.Helper()
	res, err := f.sources.Acquire(context.Background(), AcquireRequest{
		ProjectID: projectID,
		RoundID:   roundID,
		URL:       url,
		Type:      models.SourceArticle,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) capture(t *testing.T, sourceID uint, text string) uint {
	t.Helper()
	id, err := f.extracts.Capture(context.Background(), CaptureRequest{
		SourceID: sourceID,
		Type:     models.ExtractQuote,
		Text:     text,
		Context:  "surrounding paragraph",
		Location: "p. 1",
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) countRows(t *testing.T, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}
