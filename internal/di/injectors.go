//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"avatard/internal"
	"avatard/internal/avatar"
	"avatard/internal/controllers"
	"avatard/internal/providers"
	"avatard/internal/services"
	"avatard/internal/structures"
)

func provideRevalidator(s services.AvatarServiceInterface) avatar.Revalidator {
	return s
}

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,

		avatar.NewRecordStore,
		wire.Bind(new(providers.StoreObserver), new(*avatar.RecordStore)),
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		avatar.NewValidator,
		avatar.NewHealthTracker,
		services.NewProviderChain,
		services.NewAvatarService,
		provideRevalidator,

		avatar.NewZstdCompressor,
		avatar.NewFileManager,
		avatar.NewScheduler,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
