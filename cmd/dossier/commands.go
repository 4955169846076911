package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"paper-trail/config"
	"paper-trail/database"
	"paper-trail/renderer"
	"paper-trail/services"
)

// cliOptions sind die globalen Flags aller Unterbefehle.
type cliOptions struct {
	sqlitePath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "dossier",
		Short:         "Offline maintenance and export for paper-trail research projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.sqlitePath, "sqlite", "", "use this SQLite file instead of the configured database")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(newMigrateCmd(opts), newReportCmd(opts), newStylesCmd())
	return rootCmd
}

func newMigrateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update all tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, logging, err := openDatabase(opts)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logging.Info("Migration finished")
			fmt.Fprintln(cmd.OutOrStdout(), "migrated")
			return nil
		},
	}
}

func newReportCmd(opts *cliOptions) *cobra.Command {
	var (
		projectID uint
		out       string
		style     string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Assemble a project report and write it as PDF or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, logging, err := openDatabase(opts)
			if err != nil {
				return err
			}
			exporter, aggregator, err := buildExporter(cfg, db, logging)
			if err != nil {
				return err
			}

			var data []byte
			if asJSON {
				doc, err := aggregator.Assemble(cmd.Context(), projectID)
				if err != nil {
					return err
				}
				data, err = json.MarshalIndent(doc, "", "  ")
				if err != nil {
					return err
				}
				data = append(data, '\n')
			} else {
				data, err = exporter.Export(cmd.Context(), projectID, style)
				if err != nil {
					return err
				}
			}
			return writeOutput(cmd.OutOrStdout(), out, data)
		},
	}
	cmd.Flags().UintVarP(&projectID, "project", "p", 0, "project id")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().StringVar(&style, "style", "", "report style (default from REPORT_DEFAULT_STYLE)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the assembled report tree as JSON instead of PDF")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newStylesCmd() *cobra.Command {
	var styleFile string
	cmd := &cobra.Command{
		Use:   "styles",
		Short: "List available report styles",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := renderer.New(styleFile, zap.NewNop())
			if err != nil {
				return err
			}
			for _, name := range engine.Styles() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&styleFile, "file", os.Getenv("REPORT_STYLE_FILE"), "additional style file")
	return cmd
}

func openDatabase(opts *cliOptions) (*config.Config, *gorm.DB, *zap.Logger, error) {
	cfg, err := config.Load()
	if opts.sqlitePath != "" && cfg != nil {
		cfg.DBDriver = "sqlite"
		cfg.SQLitePath = opts.sqlitePath
		err = cfg.Validate()
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("config: %w", err)
	}

	logging := zap.NewNop()
	if opts.verbose {
		if logging, err = zap.NewDevelopment(); err != nil {
			return nil, nil, nil, err
		}
	}

	db, err := database.Open(cfg, logging)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, db, logging, nil
}

func buildExporter(cfg *config.Config, db *gorm.DB, logging *zap.Logger) (*services.ExportService, *services.ReportAggregator, error) {
	linker := services.NewRoundSourceLinker(db, logging)
	sources, err := services.NewSourceRegistry(db, logging, linker, cfg.SourceCacheSize)
	if err != nil {
		return nil, nil, err
	}
	extracts := services.NewExtractStore(db, logging)
	aggregator := services.NewReportAggregator(
		services.NewProjectService(db, logging),
		services.NewRoundService(db, logging),
		sources,
		linker,
		extracts,
		services.NewEvidenceStore(db, logging, extracts),
		logging,
		cfg.ReportConcurrency,
	)
	engine, err := renderer.New(cfg.ReportStyleFile, logging)
	if err != nil {
		return nil, nil, err
	}
	return services.NewExportService(aggregator, engine, logging, cfg.ReportDefaultStyle), aggregator, nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
