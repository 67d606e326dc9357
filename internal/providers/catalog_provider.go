package providers

import (
	"fmt"
	"vibes/internal/catalog"
	"vibes/internal/structures"
)

func NewCatalogProvider(conf *structures.Config, logger Logger) (*catalog.Catalog, error) {
	cat, err := catalog.Load(conf.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load card catalog: %w", err)
	}
	logger.Infof(TypeApp, "Loaded %d cards from %s", cat.Len(), conf.Catalog.Path)
	return cat, nil
}
