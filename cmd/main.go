package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"planbot/internal/batch"
	"planbot/internal/bot"
	"planbot/internal/config"
	"planbot/internal/gsheets"
	"planbot/internal/logging"
	"planbot/internal/presets"
	"planbot/internal/repository"
	"planbot/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Ошибка логгера: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("бот остановлен с ошибкой", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	if err := repository.Migrate(ctx, db); err != nil {
		return err
	}
	repo := repository.New(db)
	if err := repository.BootstrapEditors(ctx, repo.Editor, cfg.EditorIDs); err != nil {
		return err
	}

	limits := batch.SafetyLimits{
		MaxSets:             cfg.DefaultMaxSets,
		MaxReps:             cfg.DefaultMaxReps,
		AlertVolumeIncrease: true,
	}

	lib := presets.NewLibrary(cfg.PresetsDir, logger.Named("presets"))
	if err := lib.Load(); err != nil {
		logger.Warn("пресеты не загружены", zap.Error(err))
	} else {
		go func() {
			if err := lib.Watch(ctx); err != nil {
				logger.Warn("наблюдение за пресетами остановлено", zap.Error(err))
			}
		}()
	}

	if cfg.SchedulesFile != "" {
		jobs, err := scheduler.LoadJobs(cfg.SchedulesFile)
		if err != nil {
			return err
		}
		sched := scheduler.New(lib, repo.Program.Store, repo.History, limits, logger.Named("scheduler"))
		for _, job := range jobs {
			if err := sched.Add(job); err != nil {
				return err
			}
		}
		sched.Start()
		defer sched.Stop()
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("сервер метрик", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
		logger.Info("метрики доступны", zap.String("addr", cfg.MetricsAddr))
	}

	var sheetsClient *gsheets.Client
	if cfg.GoogleDriveFolderID != "" {
		sheetsClient, err = gsheets.NewClient(ctx, cfg.GoogleCredentialsPath, cfg.GoogleDriveFolderID, logger.Named("gsheets"))
		if err != nil {
			logger.Warn("Google Sheets не инициализирован", zap.Error(err))
			sheetsClient = nil
		}
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return err
	}

	return bot.New(api, repo, lib, sheetsClient, limits, logger.Named("bot")).Start(ctx)
}
