package fx

import (
	"esports-schedule/internal/api"
	"esports-schedule/internal/config"
	"esports-schedule/internal/database"
	"esports-schedule/internal/logger"
	"esports-schedule/internal/repository"
	"esports-schedule/internal/schedule"
	"esports-schedule/internal/server"
	"esports-schedule/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideLeagueTable(cfg *config.Config, log zerolog.Logger) (*schedule.Table, error) {
	return schedule.LoadTable(cfg.LeaguesPath, log)
}

func ProvideScheduleService(opgg *api.OpggClient, naver *api.NaverClient, table *schedule.Table, log zerolog.Logger) *service.ScheduleService {
	return service.NewScheduleService(opgg, naver, table, log)
}

func ProvideNewsService(naver *api.NaverClient, stateRepo *repository.NewsStateRepository, log zerolog.Logger) *service.NewsService {
	return service.NewNewsService(naver, stateRepo, log)
}

func ProvidePlayerService(vlr *api.VlrClient, log zerolog.Logger) *service.PlayerService {
	return service.NewPlayerService(vlr, log)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(ProvideLeagueTable),
	// repos
	fx.Provide(repository.NewSubscriptionRepository),
	fx.Provide(repository.NewNewsStateRepository),
	// api clients
	fx.Provide(api.NewOpggClient),
	fx.Provide(api.NewNaverClient),
	fx.Provide(api.NewVlrClient),
	// svc
	fx.Provide(ProvideScheduleService),
	fx.Provide(ProvideNewsService),
	fx.Provide(ProvidePlayerService),
	// server
	fx.Provide(server.New),
)
