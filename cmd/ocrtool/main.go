package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/RPasch/OCR-tool/internal/common"
	"github.com/RPasch/OCR-tool/internal/export"
	"github.com/RPasch/OCR-tool/internal/llm"
	"github.com/RPasch/OCR-tool/internal/llm/openai"
	"github.com/RPasch/OCR-tool/internal/ocr"
	"github.com/RPasch/OCR-tool/internal/server"
	"github.com/RPasch/OCR-tool/internal/session"
)

func main() {
	// Logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	// .env is optional; real env always wins.
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("configuration: %v", err)
	}
	if cfg.LLM.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not set; the normalization stage is disabled until a key is supplied per request")
	}

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(slogger)

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ocrClient := ocr.NewClient(ocr.Config{
		Endpoint:     cfg.OCR.Endpoint,
		APIKey:       cfg.OCR.APIKey,
		APIVersion:   cfg.OCR.APIVersion,
		PollInterval: cfg.OCR.PollInterval,
	}, slogger)

	newAgent := func(apiKey string) llm.Normalizer {
		if apiKey == "" {
			apiKey = cfg.LLM.APIKey
		}
		if apiKey == "" {
			return nil
		}
		return openai.NewClient(openai.Config{
			APIKey:      apiKey,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, slogger)
	}

	sessions := session.NewStore(1024, cfg.Server.SessionTTL)
	exporter := export.NewService(cfg.UI.SampleWords, slogger)

	svc := server.NewService(cfg, ocrClient, newAgent, sessions, exporter, logger)
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           svc.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warnf("shutdown: %v", err)
	}
}
