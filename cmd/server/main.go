package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Juicern/kotoba/internal/config"
	"github.com/Juicern/kotoba/internal/httpapi"
	"github.com/Juicern/kotoba/internal/providers"
	"github.com/Juicern/kotoba/internal/server"
	"github.com/Juicern/kotoba/internal/service"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	translator, err := newTranslator(cfg)
	if err != nil {
		logger.Error("failed to configure translation provider", slog.Any("error", err))
		os.Exit(1)
	}

	youtube := providers.NewYouTubeClient("", &http.Client{Timeout: cfg.Transcript.Timeout}, cfg.Transcript.Languages)

	transcriptService := service.NewTranscriptService(youtube)
	translationService := service.NewTranslationService(translator)

	handler := httpapi.NewRouter(transcriptService, translationService, logger)
	srv := server.New(cfg, handler, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func newTranslator(cfg config.Config) (providers.Translator, error) {
	httpClient := &http.Client{Timeout: cfg.Translation.Timeout}

	registry := providers.NewRegistry()
	registry.Register("deepl", providers.NewDeepLClient(cfg.Translation.DeepL.AuthKey, cfg.Translation.DeepL.ServerURL, httpClient))
	registry.Register("openai", providers.NewOpenAIClient(cfg.Translation.OpenAI.APIKey, cfg.Translation.OpenAI.BaseURL, cfg.Translation.OpenAI.Model))
	registry.Register("echo", providers.EchoTranslator{})

	return registry.Translator(cfg.Translation.Provider)
}
