//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"vibes/internal"
	"vibes/internal/backup"
	"vibes/internal/controllers"
	"vibes/internal/live"
	"vibes/internal/providers"
	"vibes/internal/services"
	"vibes/internal/storage"
	"vibes/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewDatabaseProvider,
		providers.NewCatalogProvider,

		storage.NewDeckRepository,
		storage.NewCollectionRepository,
		providers.NewCollectionServiceProvider,
		services.NewDeckService,

		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		backup.NewZstdCompressor,
		backup.NewFileManager,
		backup.NewScheduler,
		live.NewHub,

		controllers.NewCatalogController,
		controllers.NewCollectionController,
		controllers.NewDeckController,
		controllers.NewLiveController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}
