package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"paper-trail/storage"
)

// SnapshotService legt für jedes aktive Projekt ein PDF-Dossier im Object Storage ab
// und behält pro Projekt nur die neuesten Keep Stück.
type SnapshotService struct {
	Projects *ProjectService
	Exporter *ExportService
	Store    storage.ObjectStore
	Keep     int
	Logger   *zap.Logger
	now      func() time.Time
}

func NewSnapshotService(projects *ProjectService, exporter *ExportService, store storage.ObjectStore, keep int, logger *zap.Logger) *SnapshotService {
	if keep < 1 {
		keep = 1
	}
	return &SnapshotService{
		Projects: projects,
		Exporter: exporter,
		Store:    store,
		Keep:     keep,
		Logger:   logger.With(zap.String("service", "snapshots")),
		now:      time.Now,
	}
}

// SnapshotPrefix ist der Key-Präfix aller Snapshots eines Projekts.
func SnapshotPrefix(projectID uint) string {
	return fmt.Sprintf("snapshots/%d/", projectID)
}

// RunAll sichert alle aktiven Projekte. Ein fehlgeschlagenes Projekt bricht den Lauf
// nicht ab; zurück kommt die Zahl der geschriebenen Snapshots und der erste Fehler.
func (s *SnapshotService) RunAll(ctx context.Context) (int, error) {
	projects, err := s.Projects.List(ctx, false)
	if err != nil {
		return 0, err
	}

	stored := 0
	var firstErr error
	for _, p := range projects {
		if ctx.Err() != nil {
			return stored, ctx.Err()
		}
		if err := s.RunProject(ctx, p.ID); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		stored++
	}

	s.Logger.Info("Snapshot run finished", zap.Int("projects", len(projects)), zap.Int("stored", stored))
	return stored, firstErr
}

// RunProject schreibt einen Snapshot für ein Projekt und rotiert alte.
func (s *SnapshotService) RunProject(ctx context.Context, projectID uint) error {
	pdf, err := s.Exporter.Export(ctx, projectID, "")
	if err != nil {
		s.Logger.Warn("Snapshot export failed", zap.Uint("project_id", projectID), zap.Error(err))
		return err
	}

	prefix := SnapshotPrefix(projectID)
	key := fmt.Sprintf("%s%s-%s.pdf", prefix, s.now().UTC().Format("20060102T150405Z"), uuid.NewString())
	link, err := s.Store.Put(ctx, key, pdf, "application/pdf")
	if err != nil {
		s.Logger.Error("Snapshot upload failed", zap.String("key", key), zap.Error(err))
		return storageFailure("snapshot", err)
	}
	snapshotsStoredCounter.Inc()

	deleted, err := storage.Rotate(ctx, s.Store, prefix, s.Keep)
	if err != nil {
		s.Logger.Warn("Snapshot rotation failed", zap.String("prefix", prefix), zap.Error(err))
	}

	s.Logger.Info("Snapshot stored",
		zap.Uint("project_id", projectID),
		zap.String("link", link),
		zap.Int("rotated", len(deleted)))
	return nil
}
