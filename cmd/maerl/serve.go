package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/maerl/reporting/internal/config"
	"github.com/maerl/reporting/internal/mcp"
	"github.com/maerl/reporting/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API, or MCP over stdio when the transport mode is stdio",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, serveLogSink(cmd.OutOrStdout(), cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:   a.projects,
			Logframes:  a.logframes,
			Updates:    a.updates,
			Indicators: a.indicators,
		},
		Logger: a.logger,
	})

	if a.cfg.Transport.Mode == "stdio" {
		return runStdioMode(ctx, a.logger, mcpServer)
	}

	router := transport.NewServer(transport.Config{
		Services: transport.Services{
			Projects:   a.projects,
			Logframes:  a.logframes,
			Updates:    a.updates,
			Indicators: a.indicators,
		},
		MCP:    mcp.NewHTTPHandler(mcpServer),
		Logger: a.logger,
	})
	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	return runHTTPMode(ctx, a.logger, &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	})
}

// serveLogSink keeps stdout free for JSON-RPC in stdio mode.
func serveLogSink(stdout, stderr io.Writer) logSink {
	return func(cfg config.Config) io.Writer {
		if cfg.Transport.Mode == "stdio" {
			return stderr
		}
		return stdout
	}
}

func runStdioMode(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport")
	// Run blocks until stdin closes or ctx is cancelled.
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		return err
	}
	return nil
}

// runHTTPMode serves until ctx is cancelled, then drains in-flight requests.
func runHTTPMode(ctx context.Context, logger *slog.Logger, server *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return waitForShutdown(logger, server)
	})

	return g.Wait()
}

func waitForShutdown(logger *slog.Logger, server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	return nil
}
