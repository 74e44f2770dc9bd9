package fx

import (
	"league-tracker/internal/api"
	"league-tracker/internal/config"
	"league-tracker/internal/database"
	"league-tracker/internal/logger"
	"league-tracker/internal/repository"
	"league-tracker/internal/server"
	"league-tracker/internal/service"

	"go.uber.org/fx"
)

func ProvideMatchAPI(client *api.RiotClient) service.MatchAPI {
	return client
}

func ProvideAccountAPI(client *api.RiotClient) service.AccountAPI {
	return client
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewAccountRepository),
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewSummaryRepository),
	// api client
	fx.Provide(api.NewRiotClient),
	fx.Provide(ProvideMatchAPI),
	fx.Provide(ProvideAccountAPI),
	// svc
	fx.Provide(service.NewIngestService),
	fx.Provide(service.NewStatsService),
	fx.Provide(service.NewAccountService),
	// server
	fx.Provide(server.NewStatsServer),
)
