package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tmarques/flashdeck/internal/api"
	"github.com/tmarques/flashdeck/internal/collection"
	"github.com/tmarques/flashdeck/internal/config"
	"github.com/tmarques/flashdeck/internal/logger"
	"github.com/tmarques/flashdeck/internal/quiz"
	"github.com/tmarques/flashdeck/internal/store"
	"github.com/tmarques/flashdeck/internal/store/sqlite"
	"github.com/tmarques/flashdeck/internal/streak"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("FlashDeck server starting")
	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("question_seconds=%d", cfg.QuestionSeconds)
	log.Debug("points_per_correct=%d", cfg.PointsPerCorrect)
	log.Debug("choice_advance_ms=%d", cfg.ChoiceAdvanceMS)

	kv, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open store: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing store")
		kv.Close()
	}()

	records := store.NewRecords(kv)
	collectionManager := collection.NewManager(records)
	quizManager := quiz.NewManager(collectionManager, records, quiz.Config{
		QuestionSeconds:  cfg.QuestionSeconds,
		PointsPerCorrect: cfg.PointsPerCorrect,
		AdvanceDelay:     time.Duration(cfg.ChoiceAdvanceMS) * time.Millisecond,
	})
	streakTracker := streak.NewTracker(records)

	srv := &api.Server{
		Collection: collectionManager,
		Quiz:       quizManager,
		Streak:     streakTracker,
		Records:    records,
	}

	// No WriteTimeout: /api/leaderboard/watch holds its response open.
	httpServer := &http.Server{
		Addr:        cfg.Addr,
		Handler:     srv.Routes(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("closing live quiz sessions")
	quizManager.CloseAll()

	log.Info("FlashDeck server stopped")
}
