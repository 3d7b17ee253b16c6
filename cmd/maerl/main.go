// Command maerl serves the logframe reporting API and exposes its CLI tools.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/maerl/reporting/internal/config"
	"github.com/maerl/reporting/internal/domain/indicator"
	"github.com/maerl/reporting/internal/domain/logframe"
	"github.com/maerl/reporting/internal/domain/project"
	"github.com/maerl/reporting/internal/domain/update"
	"github.com/maerl/reporting/internal/store"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "maerl",
		Short:         "Logframe reporting service",
		Long:          `maerl stores project logframes and the updates reported against them, and serves them over HTTP and MCP.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newExportCmd(), newLogframeCmd())
	return root
}

// app holds what every command needs once configuration is loaded.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	db     *store.DB
	closer io.Closer

	projects   *project.Service
	logframes  *logframe.Service
	updates    *update.Service
	indicators *indicator.Service
}

// logSink picks the log destination once configuration is known.
type logSink func(cfg config.Config) io.Writer

// stderrSink sends logs to the command's stderr whatever the config says.
func stderrSink(cmd *cobra.Command) logSink {
	return func(config.Config) io.Writer { return cmd.ErrOrStderr() }
}

// openApp loads configuration, sets up logging and opens the migrated store.
// Logs go to the writer sink picks unless a log file is configured.
func openApp(cmd *cobra.Command, sink logSink) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	a := &app{cfg: cfg}
	logWriter := sink(cfg)
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "log file error: %v\n", err)
		} else {
			a.closer = file
			logWriter = fileWriter
		}
	}
	a.logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Driver, cfg.DB.DSN); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to prepare database path: %w", err)
	}
	db, err := store.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.db = db
	if err := db.RunMigrations(cmd.Context()); err != nil {
		a.Close()
		return nil, err
	}

	updateSvc := update.NewService(store.NewUpdateRepository(db), a.logger)
	a.updates = updateSvc
	a.projects = project.NewService(store.NewProjectRepository(db), updateSvc, cfg.Feed.Limit, a.logger)
	a.logframes = logframe.NewService(store.NewLogframeRepository(db), a.logger)
	a.indicators = indicator.NewService(store.NewIndicatorRepository(db), a.logger)
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil && a.logger != nil {
			a.logger.Error("failed to close database", "error", err)
		}
	}
	if a.closer != nil {
		_ = a.closer.Close()
	}
}
