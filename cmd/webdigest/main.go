// Package main wires together the webdigest MCP tool binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/JakeFAU/webdigest/internal/answerer"
	"github.com/JakeFAU/webdigest/internal/api"
	"github.com/JakeFAU/webdigest/internal/cache"
	"github.com/JakeFAU/webdigest/internal/clock/system"
	"github.com/JakeFAU/webdigest/internal/config"
	"github.com/JakeFAU/webdigest/internal/digest"
	"github.com/JakeFAU/webdigest/internal/extractor"
	"github.com/JakeFAU/webdigest/internal/fetcher/headless"
	"github.com/JakeFAU/webdigest/internal/id/uuid"
	"github.com/JakeFAU/webdigest/internal/logging"
	"github.com/JakeFAU/webdigest/internal/mcptool"
	"github.com/JakeFAU/webdigest/internal/metrics"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush
	zap.ReplaceGlobals(logger)

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := system.New()
	store := cache.New(cache.Config{
		TTL:           cfg.CacheTTL(),
		SweepInterval: cfg.CacheSweepInterval(),
	}, clock, logger.Named("cache"))
	store.Start()
	defer store.Stop()

	fetcher := headless.New(headless.Config{
		BrowserPath:       cfg.Browser.Path,
		UserAgent:         cfg.Browser.UserAgent,
		NavigationTimeout: cfg.NavTimeout(),
	}, logger.Named("fetcher"))
	defer fetcher.Close()

	extract := extractor.New(extractor.Config{
		Command: cfg.Extractor.Command,
		Args:    cfg.Extractor.Args,
	}, logger.Named("extractor"))

	answererCfg := cfg.ApplyOverrides()
	answer := answerer.New(answerer.Config{
		Command:       answererCfg.Command,
		Model:         answererCfg.Model,
		ThinkingLevel: answererCfg.ThinkingLevel,
	}, logger.Named("answerer"))
	if !answer.Available() {
		logger.Warn("answering sub-process not found on PATH; summaries and prompts will degrade to raw output",
			zap.String("command", answererCfg.Command))
	}

	orc := digest.NewOrchestrator(store, fetcher, extract, answer, logger.Named("digest"))
	server := mcptool.NewServer(orc, uuid.New(), logger.Named("mcp"))

	if cfg.Server.Port > 0 {
		ops := api.NewServer(logger.Named("api"))
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           ops.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("ops server started", zap.Int("port", cfg.Server.Port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("ops server error", zap.Error(err))
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("ops server shutdown error", zap.Error(err))
			}
		}()
	}

	logger.Info("serving MCP over stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server exited", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
