package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paper-trail/models"
	"paper-trail/storage"
)

// fakeRenderer schreibt eine kurze Textdarstellung statt eines PDFs.
type fakeRenderer struct {
	mu     sync.Mutex
	styles []string
	fail   error
}

func (r *fakeRenderer) Render(_ context.Context, doc *models.ReportDocument, style string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	if style != "dossier" && style != "compact" {
		return nil, fmt.Errorf("%w: unknown report style %q", ErrInvalid, style)
	}
	r.styles = append(r.styles, style)
	return []byte(fmt.Sprintf("%%PDF %s %d", doc.Project.Title, len(doc.Sources))), nil
}

func TestExportUsesDefaultStyle(t *testing.T) {
	f := newFixture(t)
	render := &fakeRenderer{}
	exporter := NewExportService(f.reports, render, zap.NewNop(), "dossier")
	p := f.project(t, "Exported")
	f.acquire(t, p, f.round(t, p, "A"), "https://example.com/a")

	out, err := exporter.Export(context.Background(), p, " ")
	require.NoError(t, err)
	assert.Equal(t, "%PDF Exported 1", string(out))

	_, err = exporter.Export(context.Background(), p, "compact")
	require.NoError(t, err)
	assert.Equal(t, []string{"dossier", "compact"}, render.styles)
}

func TestExportErrors(t *testing.T) {
	f := newFixture(t)
	render := &fakeRenderer{}
	exporter := NewExportService(f.reports, render, zap.NewNop(), "dossier")
	p := f.project(t, "P")

	_, err := exporter.Export(context.Background(), p, "glossy")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = exporter.Export(context.Background(), 999, "")
	assert.ErrorIs(t, err, ErrNotFound)

	render.fail = errors.New("font cache corrupt")
	_, err = exporter.Export(context.Background(), p, "")
	assert.ErrorIs(t, err, ErrStorage)
}

func TestSnapshotsStoreAndRotate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store := storage.NewMemoryStore()
	exporter := NewExportService(f.reports, &fakeRenderer{}, zap.NewNop(), "dossier")
	snapshots := NewSnapshotService(f.projects, exporter, store, 2, zap.NewNop())

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	snapshots.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Hour)
	}

	active := f.project(t, "active")
	archived := f.project(t, "archived")
	_, err := f.lifecycle.ArchiveProject(ctx, archived)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		stored, err := snapshots.RunAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stored)
	}

	objects, err := store.List(ctx, SnapshotPrefix(active))
	require.NoError(t, err)
	require.Len(t, objects, 2, "older snapshots are rotated away")
	for _, o := range objects {
		assert.True(t, strings.HasSuffix(o.Key, ".pdf"))
		data, ok := store.Get(o.Key)
		require.True(t, ok)
		assert.Equal(t, "%PDF active 0", string(data))
	}
	assert.True(t, strings.HasPrefix(objects[0].Key, "snapshots/"+fmt.Sprint(active)+"/20260501T1"))

	none, err := store.List(ctx, SnapshotPrefix(archived))
	require.NoError(t, err)
	assert.Empty(t, none)
}
