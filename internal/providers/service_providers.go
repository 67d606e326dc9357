package providers

import (
	"vibes/internal/catalog"
	"vibes/internal/services"
	"vibes/internal/storage"
	"vibes/internal/structures"
)

func NewCollectionServiceProvider(conf *structures.Config, repo storage.CollectionRepositoryInterface, cat *catalog.Catalog) (services.CollectionServiceInterface, error) {
	return services.NewCollectionService(repo, cat, conf.Collection.CacheSize)
}
