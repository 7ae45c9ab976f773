package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/stoodlemayer/gameshelf/internal/artwork"
	"github.com/stoodlemayer/gameshelf/internal/library"
	"github.com/stoodlemayer/gameshelf/internal/plugin"
	"github.com/stoodlemayer/gameshelf/internal/resolve"
	"github.com/stoodlemayer/gameshelf/internal/search"
	"github.com/stoodlemayer/gameshelf/internal/server"
	"github.com/stoodlemayer/gameshelf/internal/store"
	"github.com/stoodlemayer/gameshelf/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("GameShelf server starting", zap.String("version", version.Short()))

	// Load configuration
	config, err := server.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Open the shared SQLite store
	st, err := store.New(config.GetString("store.path"))
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer st.Close()

	// Create module registry
	registry := plugin.NewRegistry(logger)

	// Register all modules (compile-time composition)
	libraryModule := library.New(st)
	resolveModule := resolve.New()
	modules := []plugin.Plugin{
		libraryModule,
		search.New(),
		resolveModule,
		artwork.New(),
	}
	for _, m := range modules {
		if err := registry.Register(m); err != nil {
			logger.Fatal("failed to register module", zap.Error(err))
		}
	}

	// Initialize all modules
	if err := registry.InitAll(config); err != nil {
		logger.Fatal("failed to initialize modules", zap.Error(err))
	}

	// The resolver reads the device library through the repository, which
	// exists only after the library module's Init has run.
	resolveModule.UseDeviceSource(libraryModule.Repository())

	// Start modules
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := registry.StartAll(ctx); err != nil {
		logger.Fatal("failed to start modules", zap.Error(err))
	}

	// Create and start HTTP server
	addr := config.GetString("server.host") + ":" + config.GetString("server.port")
	if addr == ":" {
		addr = "127.0.0.1:8433"
	}
	srv := server.New(addr, registry, logger)

	// Start server in background
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("GameShelf server ready", zap.String("addr", addr))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	registry.StopAll()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("GameShelf server stopped")
}
