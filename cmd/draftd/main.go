// Command draftd serves the survey-draft pipeline over HTTP: upload a draft,
// get back question chunks, a validated canonical survey, or Decipher XML.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/surveyforge/draftd/audit"
	"github.com/surveyforge/draftd/pipeline"
)

func main() {
	cfgPath := env("DRAFTD_CONFIG", "")
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	var cfg *pipeline.Config
	var err error
	if cfgPath != "" {
		cfg, err = pipeline.LoadConfig(cfgPath)
		if err != nil {
			slog.Error("config", "error", err)
			os.Exit(1)
		}
	} else {
		cfg = pipeline.DefaultConfig()
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Listen = ":" + port
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		cfg.LogLevel = lvl
	}

	// Logging.
	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Audit trail (optional).
	var opts []pipeline.Option
	if cfg.AuditDB != "" {
		store, err := audit.Open(cfg.AuditDB)
		if err != nil {
			slog.Error("audit db", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		opts = append(opts, pipeline.WithAudit(store))
	}

	svc, err := pipeline.New(cfg, logger, opts...)
	if err != nil {
		slog.Error("pipeline service", "error", err)
		os.Exit(1)
	}

	// Optional MCP surface on the same listener.
	var mcpSrv *mcp.Server
	if env("MCP_TRANSPORT", "") == "http" {
		mcpSrv = mcp.NewServer(&mcp.Implementation{
			Name:    "draftd",
			Version: "1.0.0",
		}, nil)
		svc.RegisterMCP(mcpSrv)
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           newRouter(svc, logger, mcpSrv),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("draftd listening", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("serve", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
