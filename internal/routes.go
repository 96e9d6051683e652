package internal

import (
	"net/http"

	"avatard/internal/controllers"
	"avatard/internal/providers"
	"avatard/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/profile/{identity}", http.HandlerFunc(apiController.GetProfile))
	routers.Post("/profiles/revalidate", http.HandlerFunc(apiController.RevalidateProfiles))
	routers.Post("/cache/clear-expired", http.HandlerFunc(apiController.ClearExpired))
	routers.Get("/status", http.HandlerFunc(apiController.GetStatus))
	return routers
}
