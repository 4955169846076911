package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"paper-trail/models"
)

// ReportAggregator setzt den geordneten Dossier-Baum zusammen. Er wählt aus und
// sortiert, mehr nicht. Archivierte Quellen bleiben enthalten.
type ReportAggregator struct {
	Projects    *ProjectService
	Rounds      *RoundService
	Sources     *SourceRegistry
	Linker      *RoundSourceLinker
	Extracts    *ExtractStore
	Evidence    *EvidenceStore
	Logger      *zap.Logger
	Concurrency int
}

func NewReportAggregator(
	projects *ProjectService,
	rounds *RoundService,
	sources *SourceRegistry,
	linker *RoundSourceLinker,
	extracts *ExtractStore,
	evidence *EvidenceStore,
	logger *zap.Logger,
	concurrency int,
) *ReportAggregator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ReportAggregator{
		Projects:    projects,
		Rounds:      rounds,
		Sources:     sources,
		Linker:      linker,
		Extracts:    extracts,
		Evidence:    evidence,
		Logger:      logger.With(zap.String("service", "report")),
		Concurrency: concurrency,
	}
}

// Assemble liefert den Report eines Projekts. Bei unveränderten Daten ist die
// Reihenfolge aller Ebenen identisch: Runden, Quellen, Extracts und Belege nach
// Anlage aufsteigend, Queries nach Ausführungsdatum, dann Anlage.
func (a *ReportAggregator) Assemble(ctx context.Context, projectID uint) (*models.ReportDocument, error) {
	start := time.Now()
	defer func() { reportAssemblySeconds.Observe(time.Since(start).Seconds()) }()

	project, err := a.Projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	rounds, err := a.Rounds.listForProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	sources, err := a.Sources.listAllForProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	doc := &models.ReportDocument{
		Project: *project,
		Rounds:  make([]models.ReportRound, len(rounds)),
		Sources: make([]models.ReportSource, len(sources)),
	}

	// Ein Lesezugriff pro Runde und pro Quelle; jedes Ergebnis landet an seinem
	// festen Index, daher ist die Ausführungsreihenfolge egal.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Concurrency)

	for i := range rounds {
		g.Go(func() error {
			queries, err := a.Rounds.listQueries(gctx, rounds[i].ID)
			if err != nil {
				return err
			}
			sourceIDs, err := a.Linker.SourceIDsForRound(gctx, rounds[i].ID)
			if err != nil {
				return err
			}
			doc.Rounds[i] = models.ReportRound{Round: rounds[i], Queries: queries, SourceIDs: sourceIDs}
			return nil
		})
	}
	for i := range sources {
		g.Go(func() error {
			evidence, err := a.Evidence.listForSource(gctx, sources[i].ID)
			if err != nil {
				return err
			}
			extracts, err := a.Extracts.listForSource(gctx, sources[i].ID)
			if err != nil {
				return err
			}
			doc.Sources[i] = models.ReportSource{
				Number:   i + 1,
				Source:   sources[i],
				Evidence: evidence,
				Extracts: extracts,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.Logger.Error("Report assembly failed", zap.Uint("project_id", projectID), zap.Error(err))
		return nil, err
	}

	a.Logger.Info("Report assembled",
		zap.Uint("project_id", projectID),
		zap.Int("rounds", len(doc.Rounds)),
		zap.Int("sources", len(doc.Sources)))
	return doc, nil
}
