package controllers

import (
	"net/http"
	"strconv"
	"vibes/internal/live"
	"vibes/internal/providers"
	"vibes/internal/services"
)

type LiveController struct {
	logger  providers.Logger
	service services.DeckServiceInterface
	hub     *live.Hub
}

func NewLiveController(logger providers.Logger, service services.DeckServiceInterface, hub *live.Hub) *LiveController {
	return &LiveController{
		logger:  logger,
		service: service,
		hub:     hub,
	}
}

// Decks streams the public deck list (?scope=public) or the caller's decks
// (?scope=mine) over a websocket, re-sent after every deck change.
func (lc *LiveController) Decks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := services.LiveQuery{Scope: q.Get("scope")}
	query.Limit, _ = strconv.Atoi(q.Get("limit"))
	if id := identity(r); id.Authenticated() {
		query.OwnerID = id.UserID
	}

	sub, err := lc.service.Subscribe(r.Context(), query)
	if err != nil {
		writeError(w, r, lc.logger, err)
		return
	}
	lc.hub.Serve(w, r, sub)
}
