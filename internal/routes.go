package internal

import (
	"net/http"
	"vibes/internal/controllers"
	"vibes/internal/providers"
	"vibes/internal/structures"
)

func InitRoutes(catalogController *controllers.CatalogController, collectionController *controllers.CollectionController, deckController *controllers.DeckController, liveController *controllers.LiveController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()
	routers.Use(providers.IdentityMiddleware)

	routers.Get("/cards", http.HandlerFunc(catalogController.Cards))
	routers.Get("/cards/suggest", http.HandlerFunc(catalogController.Suggest))

	routers.Get("/collection", http.HandlerFunc(collectionController.View))
	routers.Get("/collection/progress", http.HandlerFunc(collectionController.Progress))
	routers.Get("/collection/export", http.HandlerFunc(collectionController.Export))
	routers.Post("/collection/adjust", http.HandlerFunc(collectionController.Adjust))
	routers.Post("/collection/set", http.HandlerFunc(collectionController.Set))
	routers.Post("/collection/import", http.HandlerFunc(collectionController.Import))
	routers.Post("/collection/reset", http.HandlerFunc(collectionController.Reset))
	routers.Post("/collection/visibility", http.HandlerFunc(collectionController.Visibility))

	routers.Get("/decks/public", http.HandlerFunc(deckController.Public))
	routers.Get("/decks/mine", http.HandlerFunc(deckController.Mine))
	routers.Get("/deck", http.HandlerFunc(deckController.Get))
	routers.Get("/deck/groups", http.HandlerFunc(deckController.Groups))
	routers.Post("/deck/save", http.HandlerFunc(deckController.Save))
	routers.Post("/deck/delete", http.HandlerFunc(deckController.Delete))
	routers.Post("/deck/upvote", http.HandlerFunc(deckController.Upvote))
	routers.Post("/deck/copy", http.HandlerFunc(deckController.Copy))
	routers.Post("/deck/validate", http.HandlerFunc(deckController.Validate))

	if conf.Live.Enabled {
		routers.Get("/decks/live", http.HandlerFunc(liveController.Decks))
	}
	return routers
}
