package renderer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"paper-trail/models"
	"paper-trail/services"
)

// Engine rendert Report-Bäume als PDF-Dossier.
type Engine struct {
	styles map[string]Style
	fonts  *fontSet
	logger *zap.Logger
}

// New lädt Stile und Fonts. styleFile darf leer sein.
func New(styleFile string, logger *zap.Logger) (*Engine, error) {
	styles, err := LoadStyles(styleFile)
	if err != nil {
		return nil, err
	}
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &Engine{styles: styles, fonts: fonts, logger: logger.With(zap.String("component", "renderer"))}, nil
}

// Styles liefert die verfügbaren Stilnamen, sortiert.
func (e *Engine) Styles() []string {
	return styleNames(e.styles)
}

// HasStyle meldet, ob ein Stil bekannt ist.
func (e *Engine) HasStyle(name string) bool {
	_, ok := e.styles[name]
	return ok
}

// Render setzt das Dossier: Projektkopf, Suchrunden mit Queries, Quellen mit
// Extracts und Belegen, Literaturverzeichnis.
func (e *Engine) Render(ctx context.Context, doc *models.ReportDocument, style string) ([]byte, error) {
	st, ok := e.styles[style]
	if !ok {
		return nil, fmt.Errorf("%w: unknown report style %q (available: %s)",
			services.ErrInvalid, style, strings.Join(e.Styles(), ", "))
	}

	w := newPageWriter(st, e.fonts)
	writeProject(w, doc.Project)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	writeRounds(w, doc)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	writeSources(w, doc, st)
	writeReferences(w, doc)
	w.footers(doc.Project.Title)

	pages, err := w.encode()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pdf, err := assemblePDF(pages)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("Dossier laid out",
		zap.Uint("project_id", doc.Project.ID),
		zap.String("style", style),
		zap.Int("pages", len(pages)))
	return pdf, nil
}

func writeProject(w *pageWriter, p models.Project) {
	w.text(kindTitle, p.Title, 0)
	w.gap(0.5)
	w.text(kindSmall, fmt.Sprintf("Project #%d · %s · created %s", p.ID, p.Status, p.CreatedAt.Format("2006-01-02")), 0)
	w.rule()

	w.heading(kindHeading, "Research question")
	w.text(kindBody, p.ResearchQuestion, 0)
	if p.Hypothesis != nil && strings.TrimSpace(*p.Hypothesis) != "" {
		w.gap(0.5)
		w.heading(kindHeading, "Hypothesis")
		w.text(kindBody, *p.Hypothesis, 0)
	}
	if p.TimespanStart != nil || p.TimespanEnd != nil {
		w.gap(0.5)
		w.text(kindSmall, "Timespan: "+formatSpan(p), 0)
	}
	w.gap(1)
}

func formatSpan(p models.Project) string {
	from, to := "open", "open"
	if p.TimespanStart != nil {
		from = p.TimespanStart.Format("2006-01-02")
	}
	if p.TimespanEnd != nil {
		to = p.TimespanEnd.Format("2006-01-02")
	}
	return from + " – " + to
}

func writeRounds(w *pageWriter, doc *models.ReportDocument) {
	w.heading(kindHeading, "Search rounds")
	if len(doc.Rounds) == 0 {
		w.text(kindSmall, "No search rounds recorded.", 0)
		w.gap(1)
		return
	}
	for i, r := range doc.Rounds {
		w.text(kindBody, fmt.Sprintf("%d. %s", i+1, r.Round.Label), 0)
		if r.Round.Objective != "" {
			w.text(kindSmall, r.Round.Objective, 20)
		}
		for _, q := range r.Queries {
			line := fmt.Sprintf("%s  %s", q.ExecutedAt.Format("2006-01-02"), q.QueryText)
			if q.Notes != nil && *q.Notes != "" {
				line += "  (" + *q.Notes + ")"
			}
			w.text(kindSmall, line, 20)
		}
		if len(r.SourceIDs) > 0 {
			labels := make([]string, 0, len(r.SourceIDs))
			for _, id := range r.SourceIDs {
				labels = append(labels, services.CitationLabel(doc.SourceNumber(id)))
			}
			w.text(kindSmall, "Sources: "+strings.Join(labels, " "), 20)
		}
		w.gap(0.5)
	}
	w.gap(0.5)
}

func writeSources(w *pageWriter, doc *models.ReportDocument, st Style) {
	w.heading(kindHeading, "Sources and evidence")
	if len(doc.Sources) == 0 {
		w.text(kindSmall, "No sources recorded.", 0)
		w.gap(1)
		return
	}
	for _, s := range doc.Sources {
		w.text(kindBody, services.CitationLabel(s.Number)+" "+sourceHeadline(s.Source), 0)
		if s.Source.Summary != nil && *s.Source.Summary != "" {
			w.text(kindSmall, *s.Source.Summary, 20)
		}
		for _, ev := range s.Evidence {
			w.text(kindQuote, fmt.Sprintf("“%s”", ev.EvidenceText), 20)
			if st.ShowContext && ev.ContextText != "" {
				w.text(kindSmall, ev.ContextText, 40)
			}
			w.text(kindSmall, fmt.Sprintf("%s · %s", ev.EvidenceType, ev.LocationRef), 40)
			w.text(kindBody, "Relevance: "+ev.WhyRelevant, 40)
			w.gap(0.3)
		}
		if st.ShowExtracts {
			for _, ex := range s.Extracts {
				w.text(kindSmall, fmt.Sprintf("Extract (%s, %s): %s", ex.ExtractType, ex.LocationRef, ex.ExtractText), 20)
			}
		}
		w.gap(0.7)
	}
}

func sourceHeadline(s models.Source) string {
	if s.Title != nil && *s.Title != "" {
		return *s.Title
	}
	return s.URL
}

func writeReferences(w *pageWriter, doc *models.ReportDocument) {
	if len(doc.Sources) == 0 {
		return
	}
	w.heading(kindHeading, "References")
	for _, s := range doc.Sources {
		w.text(kindSmall, services.CitationLabel(s.Number)+" "+services.FormatReference(s.Source), 0)
	}
}
