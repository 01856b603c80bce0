package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"esports-schedule/internal/bot"
	"esports-schedule/internal/config"
	"esports-schedule/internal/constants"
	fxmodules "esports-schedule/internal/fx"
	"esports-schedule/internal/middleware"
	"esports-schedule/internal/repository"
	"esports-schedule/internal/schedule"
	"esports-schedule/internal/server"
	"esports-schedule/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
		fx.Invoke(runBot),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	srv *server.Server,
	cfg *config.Config,
	db *sqlx.DB,
	logger zerolog.Logger,
) {
	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("news_interval", cfg.NewsInterval).
		Bool("telegram_enabled", cfg.TelegramToken != "").
		Msg("configuration loaded")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := middleware.RequestID(logger)(c.Handler(srv.Routes()))

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: handler,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", httpSrv.Addr).Msg("server starting")
				if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}

			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}

// runBot starts the Telegram surface and the news delivery loop when a token
// is configured; without one the HTTP API still runs on its own.
func runBot(
	lc fx.Lifecycle,
	cfg *config.Config,
	scheduleSvc *service.ScheduleService,
	newsSvc *service.NewsService,
	playerSvc *service.PlayerService,
	subRepo *repository.SubscriptionRepository,
	logger zerolog.Logger,
) {
	if cfg.TelegramToken == "" {
		logger.Info().Msg("no telegram token configured, bot disabled")
		return
	}

	botCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			b, err := bot.New(cfg.TelegramToken, scheduleSvc, newsSvc, playerSvc, subRepo, logger)
			if err != nil {
				return err
			}

			go b.Run(botCtx)
			go deliverNewsLoop(botCtx, b, cfg, logger)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
}

func deliverNewsLoop(ctx context.Context, b *bot.Bot, cfg *config.Config, logger zerolog.Logger) {
	games := []string{schedule.GameLoL, schedule.GameValorant, schedule.GameOverwatch}
	ticker := time.NewTicker(cfg.NewsInterval)
	defer ticker.Stop()

	logger.Info().Dur("interval", cfg.NewsInterval).Msg("news delivery loop started")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.DeliverNews(ctx, games)
		}
	}
}
