package controllers

import (
	"net/http"
	"net/url"
	"strconv"
	"vibes/internal/catalog"
	"vibes/internal/models"
	"vibes/internal/providers"
	"vibes/internal/services"

	json "github.com/goccy/go-json"
)

type CatalogController struct {
	logger      providers.Logger
	catalog     *catalog.Catalog
	collections services.CollectionServiceInterface
	cache       providers.CacheProviderInterface
}

func NewCatalogController(logger providers.Logger, cat *catalog.Catalog, collections services.CollectionServiceInterface, cache providers.CacheProviderInterface) *CatalogController {
	return &CatalogController{
		logger:      logger,
		catalog:     cat,
		collections: collections,
		cache:       cache,
	}
}

func filterFromQuery(q url.Values) catalog.Filter {
	return catalog.Filter{
		Search:    q.Get("search"),
		Color:     q.Get("color"),
		Type:      q.Get("type"),
		Rarity:    q.Get("rarity"),
		Set:       q.Get("set"),
		Ownership: q.Get("owned"),
		Variant:   q.Get("variant"),
	}
}

func (cc *CatalogController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() any) {
	if data, ok := cc.cache.Get(cacheKey); ok {
		writeRaw(w, http.StatusOK, data)
		return
	}

	gson, err := json.Marshal(compute())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	cc.cache.Set(cacheKey, gson)
	writeRaw(w, http.StatusOK, gson)
}

// Cards lists catalog cards matching the query. Results that depend on the
// caller's collection bypass the response cache.
func (cc *CatalogController) Cards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := filterFromQuery(q)
	key := catalog.ParseSortKey(q.Get("sort"))

	if !filter.NeedsOwnership() && !key.NeedsOwnership() {
		cc.serveFromCacheOrCompute(w, "cards:"+q.Encode(), func() any {
			return cc.catalog.Query(filter, key, nil)
		})
		return
	}

	owned, err := cc.collections.Ownership(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, cc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cc.catalog.Query(filter, key, owned))
}

func (cc *CatalogController) Suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	query := q.Get("q")
	cc.serveFromCacheOrCompute(w, "suggest:"+strconv.Itoa(limit)+":"+query, func() any {
		if cards := cc.catalog.Suggest(query, limit); cards != nil {
			return cards
		}
		return []models.Card{}
	})
}
