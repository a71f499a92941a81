package internal

import (
	"net/http"

	"ctd/internal/controllers"
	"ctd/internal/providers"
	"ctd/internal/structures"
)

func InitRoutes(timerController *controllers.TimerController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/timer", http.HandlerFunc(timerController.GetTimer))
	routers.Post("/timer/start", http.HandlerFunc(timerController.StartTimer))
	routers.Post("/timer/stop", http.HandlerFunc(timerController.StopTimer))
	routers.Post("/timer/dismiss", http.HandlerFunc(timerController.DismissTimer))
	routers.Post("/timer/finalize", http.HandlerFunc(timerController.FinalizeCase))
	routers.Get("/case", http.HandlerFunc(timerController.GetCase))
	return routers
}
