//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"ctd/internal"
	"ctd/internal/backend"
	"ctd/internal/bus"
	"ctd/internal/controller"
	"ctd/internal/controllers"
	"ctd/internal/journal"
	"ctd/internal/providers"
	"ctd/internal/structures"
	"ctd/internal/timerstore"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		bus.New,
		wire.Bind(new(bus.BusInterface), new(*bus.Bus)),
		timerstore.NewStore,
		backend.NewClient,

		journal.NewJournal,
		journal.NewZstdCompressor,
		journal.NewFileManager,
		journal.NewScheduler,

		controller.NewActiveTimerController,
		controllers.NewTimerController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
