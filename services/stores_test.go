package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paper-trail/models"
)

func TestCaptureValidatesAndTrims(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "P")
	src := f.acquire(t, p, f.round(t, p, "A"), "https://example.com/a")

	id, err := f.extracts.Capture(ctx, CaptureRequest{
		SourceID: src.SourceID, Type: models.ExtractPassage,
		Text: "  body  ", Context: " ctx ", Location: " p. 2 ",
	})
	require.NoError(t, err)
	ex, err := f.extracts.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "body", ex.ExtractText)
	assert.Equal(t, "ctx", ex.ContextText)
	assert.Equal(t, "p. 2", ex.LocationRef)

	bad := []CaptureRequest{
		{SourceID: src.SourceID, Type: models.ExtractQuote, Text: " ", Context: "c", Location: "l"},
		{SourceID: src.SourceID, Type: models.ExtractQuote, Text: "t", Context: "", Location: "l"},
		{SourceID: src.SourceID, Type: models.ExtractQuote, Text: "t", Context: "c", Location: "\t"},
		{SourceID: src.SourceID, Type: "screenshot", Text: "t", Context: "c", Location: "l"},
		{SourceID: src.SourceID, Text: "t", Context: "c", Location: "l"},
	}
	for _, req := range bad {
		_, err := f.extracts.Capture(ctx, req)
		assert.ErrorIs(t, err, ErrInvalid)
	}

	_, err = f.extracts.Capture(ctx, CaptureRequest{SourceID: 999, Type: models.ExtractQuote, Text: "t", Context: "c", Location: "l"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCaptureOnArchivedSourceIsAllowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "P")
	src := f.acquire(t, p, f.round(t, p, "A"), "https://example.com/a")
	_, err := f.lifecycle.ArchiveSource(ctx, src.SourceID)
	require.NoError(t, err)

	f.capture(t, src.SourceID, "still allowed")
}

func TestListExtractsInCaptureOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "P")
	src := f.acquire(t, p, f.round(t, p, "A"), "https://example.com/a")
	first := f.capture(t, src.SourceID, "one")
	second := f.capture(t, src.SourceID, "two")

	list, err := f.extracts.ListForSource(ctx, src.SourceID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first, list[0].ID)
	assert.Equal(t, second, list[1].ID)

	_, err = f.extracts.ListForSource(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordEvidence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "P")
	a := f.round(t, p, "A")
	src := f.acquire(t, p, a, "https://example.com/a")
	other := f.acquire(t, p, a, "https://example.com/b")
	extractID := f.capture(t, src.SourceID, "quoted")
	foreignExtract := f.capture(t, other.SourceID, "elsewhere")

	base := RecordRequest{
		SourceID: src.SourceID, Type: models.EvidenceQuote,
		Text: "quoted", Context: "ctx", Location: "p. 1", WhyRelevant: "supports H1",
	}

	t.Run("without extract", func(t *testing.T) {
		id, err := f.evidence.Record(ctx, base)
		require.NoError(t, err)
		ev, err := f.evidence.Get(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, ev.ExtractID)
		assert.Equal(t, "supports H1", ev.WhyRelevant)
	})

	t.Run("with matching extract", func(t *testing.T) {
		req := base
		req.ExtractID = &extractID
		id, err := f.evidence.Record(ctx, req)
		require.NoError(t, err)
		ev, err := f.evidence.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, ev.ExtractID)
		assert.Equal(t, extractID, *ev.ExtractID)
	})

	t.Run("extract from another source", func(t *testing.T) {
		before := f.countRows(t, &models.Evidence{}, "source_id = ?", src.SourceID)
		req := base
		req.ExtractID = &foreignExtract
		_, err := f.evidence.Record(ctx, req)
		assert.ErrorIs(t, err, ErrInvalid)
		assert.Equal(t, before, f.countRows(t, &models.Evidence{}, "source_id = ?", src.SourceID))
		assert.Zero(t, f.countRows(t, &models.Evidence{}, "extract_id = ?", foreignExtract))
	})

	t.Run("missing extract", func(t *testing.T) {
		before := f.countRows(t, &models.Evidence{}, "source_id = ?", src.SourceID)
		req := base
		missing := uint(999)
		req.ExtractID = &missing
		_, err := f.evidence.Record(ctx, req)
		assert.ErrorIs(t, err, ErrInvalid)
		assert.Equal(t, before, f.countRows(t, &models.Evidence{}, "source_id = ?", src.SourceID))
	})

	t.Run("missing why_relevant", func(t *testing.T) {
		req := base
		req.WhyRelevant = "   "
		_, err := f.evidence.Record(ctx, req)
		require.ErrorIs(t, err, ErrInvalid)
		assert.Contains(t, err.Error(), "why_relevant")
	})

	t.Run("unknown type", func(t *testing.T) {
		req := base
		req.Type = "hunch"
		_, err := f.evidence.Record(ctx, req)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("unknown source", func(t *testing.T) {
		req := base
		req.SourceID = 999
		_, err := f.evidence.Record(ctx, req)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	list, err := f.evidence.ListForSource(ctx, src.SourceID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestEvidenceForProjectSpansSources(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "P")
	q := f.project(t, "Q")
	a := f.round(t, p, "A")
	s1 := f.acquire(t, p, a, "https://example.com/1")
	s2 := f.acquire(t, p, a, "https://example.com/2")
	sq := f.acquire(t, q, f.round(t, q, "A"), "https://example.com/1")

	for _, sid := range []uint{s1.SourceID, s2.SourceID, sq.SourceID} {
		_, err := f.evidence.Record(ctx, RecordRequest{
			SourceID: sid, Type: models.EvidenceNote,
			Text: "t", Context: "c", Location: "l", WhyRelevant: "w",
		})
		require.NoError(t, err)
	}

	list, err := f.evidence.ListForProject(ctx, p)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, s1.SourceID, list[0].SourceID)
	assert.Equal(t, s2.SourceID, list[1].SourceID)

	_, err = f.evidence.ListForProject(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
