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

	"go.uber.org/zap"

	"github.com/hailam/microchess/internal/config"
	"github.com/hailam/microchess/internal/server"
	"github.com/hailam/microchess/internal/storage"
)

var configPath = flag.String("config", "", "path to a YAML config file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	base, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer base.Sync()
	logger := base.Sugar()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	store, err := openStore(cfg.Storage)
	if err != nil {
		logger.Warnw("game storage unavailable", zap.Error(err))
	} else {
		defer store.Close()
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewHandler(*cfg, logger, store).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("shutdown", zap.Error(err))
		}
	}()

	logger.Infof("Server is running on %s", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("Failed to start server", zap.Error(err))
	}
}

// openStore returns nil when storage cannot be opened; the game endpoints
// then answer 503.
func openStore(c config.StorageConfig) (*storage.Store, error) {
	if c.InMemory {
		return storage.OpenInMemory()
	}
	return storage.Open(c.Dir)
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
