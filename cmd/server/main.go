package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/breach-party/backend/internal/config"
	"github.com/breach-party/backend/internal/httpapi"
	"github.com/breach-party/backend/internal/hub"
	"github.com/breach-party/backend/internal/session"
	"github.com/breach-party/backend/internal/words"
)

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.Production() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	deck := words.BuiltinDeck()
	if cfg.DatabaseDSN != "" {
		store, err := words.Open(cfg.DatabaseDSN)
		if err != nil {
			logger.Warn("word store unavailable, using builtin deck", zap.Error(err))
		} else if loaded, err := store.Deck("default"); err != nil {
			logger.Warn("default deck unavailable, using builtin deck", zap.Error(err))
		} else {
			deck = loaded
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, session.Options{
		RevealDelay:     cfg.RevealDelay,
		DisconnectGrace: cfg.DisconnectGrace,
		Deck:            deck,
		Logger:          logger,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.SetupRoutes(h, cfg.FrontendURL, logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
