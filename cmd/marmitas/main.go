package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vbonduro/marmitas/internal/archive"
	"github.com/vbonduro/marmitas/internal/archive/local"
	"github.com/vbonduro/marmitas/internal/bot"
	"github.com/vbonduro/marmitas/internal/config"
	"github.com/vbonduro/marmitas/internal/db"
	"github.com/vbonduro/marmitas/internal/extract"
	claudeextract "github.com/vbonduro/marmitas/internal/extract/claude"
	ollamaextract "github.com/vbonduro/marmitas/internal/extract/ollama"
	"github.com/vbonduro/marmitas/internal/logging"
	"github.com/vbonduro/marmitas/internal/service"
	"github.com/vbonduro/marmitas/internal/store"
	"github.com/vbonduro/marmitas/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	loc, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		logger.Error("invalid business timezone", "timezone", cfg.BusinessTimezone, "error", err)
		return
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	uc := service.NewUseCases(
		store.NewItemStore(database),
		store.NewClientStore(database),
		store.NewOrderStore(database),
		service.NewClock(loc),
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var botDone <-chan struct{}
	if cfg.TelegramBotToken != "" {
		notifications, err := newArchive(cfg, logger)
		if err != nil {
			logger.Error("failed to initialize notification archive", "error", err)
			return
		}
		botDone, err = startBot(ctx, cfg, uc, notifications, logger)
		if err != nil {
			logger.Error("failed to start telegram bot", "error", err)
			return
		}
	} else {
		logger.Info("TELEGRAM_BOT_TOKEN not set, telegram bot disabled")
	}

	server := web.NewServer(uc, logger)
	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}

	// The database closes after main returns, so the bot must be idle first.
	stop()
	if botDone != nil {
		<-botDone
	}
}

// startBot begins polling Telegram. The returned channel is closed once the
// bot has stopped after ctx is done.
func startBot(ctx context.Context, cfg *config.Config, uc *service.UseCases, notifications archive.Archive, logger *slog.Logger) (<-chan struct{}, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}
	logger.Info("authorized on telegram", "account", api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = cfg.TelegramPollTimeout
	updates := api.GetUpdatesChan(u)

	controller := bot.NewController(uc, newExtractor(cfg, logger), notifications, logger)
	b := bot.NewBot(api, controller, logger)

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx, updates)
		api.StopReceivingUpdates()
		logger.Info("telegram bot stopped")
	}()
	return done, nil
}

// newExtractor returns nil when no backend is configured, which leaves Goomer
// parsing to the template parser alone.
func newExtractor(cfg *config.Config, logger *slog.Logger) bot.GoomerExtractor {
	timeout := time.Duration(cfg.ExtractorTimeout) * time.Second
	switch cfg.ExtractorBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when EXTRACTOR_BACKEND=claude")
			return nil
		}
		logger.Info("using Claude extractor backend", "model", cfg.ClaudeModel)
		return extract.NewGoomerExtractor(claudeextract.NewClaudeModel(cfg.ClaudeAPIKey, cfg.ClaudeModel), timeout)
	case "ollama":
		logger.Info("using Ollama extractor backend", "model", cfg.OllamaModel)
		return extract.NewGoomerExtractor(ollamaextract.NewOllamaModel(cfg.OllamaHost, cfg.OllamaModel), timeout)
	default:
		logger.Info("goomer extractor disabled")
		return nil
	}
}

func newArchive(cfg *config.Config, logger *slog.Logger) (archive.Archive, error) {
	if cfg.ArchiveBackend != "local" {
		return nil, nil
	}
	logger.Info("archiving goomer notifications", "path", cfg.ArchivePath)
	return local.NewLocalArchive(cfg.ArchivePath)
}
