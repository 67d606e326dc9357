package controllers

import (
	"fmt"
	"net/http"
	"time"
	"vibes/internal/catalog"
	"vibes/internal/services"
	"vibes/internal/storage"
)

type HealthController struct {
	db          *storage.DB
	catalog     *catalog.Catalog
	collections services.CollectionServiceInterface
	decks       services.DeckServiceInterface
	startTime   time.Time
}

type healthResponse struct {
	Status           string  `json:"status"`
	Uptime           string  `json:"uptime"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
	Database         string  `json:"database"`
	Cards            int     `json:"cards"`
	LoadedCollection int     `json:"loaded_collections"`
	LiveSubscribers  int     `json:"live_subscribers"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:           "ok",
		Uptime:           formatDuration(uptime),
		UptimeSeconds:    uptime.Seconds(),
		Database:         "ok",
		Cards:            hc.catalog.Len(),
		LoadedCollection: hc.collections.LoadedCount(),
		LiveSubscribers:  hc.decks.Subscribers(),
	}

	status := http.StatusOK
	if err := hc.db.Conn().PingContext(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(db *storage.DB, cat *catalog.Catalog, collections services.CollectionServiceInterface, decks services.DeckServiceInterface) *HealthController {
	return &HealthController{
		db:          db,
		catalog:     cat,
		collections: collections,
		decks:       decks,
		startTime:   time.Now(),
	}
}
