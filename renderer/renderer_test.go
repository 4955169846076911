package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paper-trail/models"
	"paper-trail/services"
)

func strPtr(s string) *string { return &s }

func sampleDoc(sources int) *models.ReportDocument {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	doc := &models.ReportDocument{
		Project: models.Project{
			ID:               7,
			CreatedAt:        created,
			Title:            "Urban heat islands",
			ResearchQuestion: "Do green roofs reduce night-time temperatures?",
			Hypothesis:       strPtr("Yes, by up to 2 K."),
			Status:           models.ProjectActive,
		},
		Rounds: []models.ReportRound{{
			Round: models.SearchRound{ID: 1, Label: "A", Objective: "Baseline literature"},
			Queries: []models.SearchQuery{{
				ID: 1, RoundID: 1, QueryText: "green roof temperature", ExecutedAt: created,
			}},
		}},
	}
	for i := 1; i <= sources; i++ {
		src := models.Source{
			ID:         uint(i),
			URL:        fmt.Sprintf("https://example.org/paper/%d", i),
			SourceType: models.SourcePaper,
			Title:      strPtr(fmt.Sprintf("Study ﬁndings %d", i)),
		}
		doc.Rounds[0].SourceIDs = append(doc.Rounds[0].SourceIDs, src.ID)
		doc.Sources = append(doc.Sources, models.ReportSource{
			Number: i,
			Source: src,
			Evidence: []models.Evidence{{
				ID: uint(i), SourceID: src.ID, EvidenceType: models.EvidenceQuote,
				EvidenceText: "Roof surfaces were 1.8 K cooler after sunset.",
				ContextText:  "Measured over two summers in three districts.",
				LocationRef:  "p. 4",
				WhyRelevant:  "Direct measurement supporting the hypothesis.",
			}},
			Extracts: []models.Extract{{
				ID: uint(i), SourceID: src.ID, ExtractType: models.ExtractPassage,
				ExtractText: "The effect was strongest on calm nights.",
				LocationRef: "p. 5",
			}},
		})
	}
	return doc
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New("", zap.NewNop())
	require.NoError(t, err)
	return e
}

func TestRenderProducesPDF(t *testing.T) {
	e := newEngine(t)

	pdf, err := e.Render(context.Background(), sampleDoc(2), "dossier")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "output should start with a PDF header")

	pages, err := api.PageCount(bytes.NewReader(pdf), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestRenderPaginatesLongDossiers(t *testing.T) {
	e := newEngine(t)

	pdf, err := e.Render(context.Background(), sampleDoc(60), "compact")
	require.NoError(t, err)

	pages, err := api.PageCount(bytes.NewReader(pdf), nil)
	require.NoError(t, err)
	assert.Greater(t, pages, 1)
}

func TestRenderUnknownStyleIsInvalid(t *testing.T) {
	e := newEngine(t)

	_, err := e.Render(context.Background(), sampleDoc(1), "glossy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrInvalid))
	assert.Contains(t, err.Error(), "dossier")
}

func TestRenderHonorsCancelledContext(t *testing.T) {
	e := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Render(ctx, sampleDoc(1), "dossier")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPageWriterBreaksPages(t *testing.T) {
	styles, err := LoadStyles("")
	require.NoError(t, err)
	fonts, err := loadFonts()
	require.NoError(t, err)

	w := newPageWriter(styles["dossier"], fonts)
	for i := 0; i < 200; i++ {
		w.text(kindBody, fmt.Sprintf("Line %d of a long evidence list.", i), 0)
	}
	assert.Greater(t, len(w.pages), 1)
	assert.LessOrEqual(t, w.y, w.bottom())
}

func TestLoadStylesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.yaml")
	custom := `
styles:
  dossier:
    page: {width: 800, height: 1000, margin: 50}
    fonts: {title: 20, heading: 14, body: 10, small: 8}
    colors: {text: "#000000", accent: "#ff0000", muted: "#777777", background: "#ffffff"}
    line_spacing: 1.2
  print:
    page: {width: 1240, height: 1754, margin: 100}
    fonts: {title: 28, heading: 18, body: 12, small: 9}
    colors: {text: "#000000", accent: "#000000", muted: "#555555", background: "#ffffff"}
    line_spacing: 1.4
`
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o600))

	styles, err := LoadStyles(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"compact", "dossier", "print"}, styleNames(styles))
	assert.Equal(t, 800, styles["dossier"].Page.Width)
	assert.False(t, styles["dossier"].ShowExtracts)
}

func TestLoadStylesRejectsBadColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.yaml")
	bad := `
styles:
  broken:
    page: {width: 800, height: 1000, margin: 50}
    fonts: {title: 20, heading: 14, body: 10, small: 8}
    colors: {text: "black", accent: "#ff0000", muted: "#777777", background: "#ffffff"}
    line_spacing: 1.2
`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o600))

	_, err := LoadStyles(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestNormalizeText(t *testing.T) {
	cases := map[string]string{
		"ﬁnal  oﬀer":             "final offer",
		"a\u00a0b\tc":            "a b c",
		"x\r\ny":                 "x\ny",
		"one\n\n\n\ntwo":         "one\n\ntwo",
		"\ufeffhidden\u200bmark": "hiddenmark",
		"  trailing   \n":        "trailing",
		"Cœur og Ærø":            "Cœur og Ærø",
		"\ufb05yle":              "style",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeText(in), "input %q", in)
	}
}
