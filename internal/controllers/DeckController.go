package controllers

import (
	"net/http"
	"strconv"
	"vibes/internal/models"
	"vibes/internal/providers"
	"vibes/internal/services"
)

type DeckController struct {
	logger  providers.Logger
	service services.DeckServiceInterface
	metrics providers.MetricsProviderInterface
}

type saveDeckRequest struct {
	ID string `json:"id"`
	models.DeckDraft
}

type deckIDRequest struct {
	ID string `json:"id"`
}

type upvoteResponse struct {
	ID      string `json:"id"`
	Upvoted bool   `json:"upvoted"`
	Upvotes int    `json:"upvotes"`
}

func NewDeckController(logger providers.Logger, service services.DeckServiceInterface, metrics providers.MetricsProviderInterface) *DeckController {
	return &DeckController{
		logger:  logger,
		service: service,
		metrics: metrics,
	}
}

func (dc *DeckController) Public(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	decks, err := dc.service.ListPublic(r.Context(), limit)
	if err != nil {
		writeError(w, r, dc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, decks)
}

func (dc *DeckController) Mine(w http.ResponseWriter, r *http.Request) {
	decks, err := dc.service.ListMine(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, dc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, decks)
}

func (dc *DeckController) Get(w http.ResponseWriter, r *http.Request) {
	deck, err := dc.service.Get(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, r, dc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

func (dc *DeckController) Groups(w http.ResponseWriter, r *http.Request) {
	groups, err := dc.service.Groups(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, r, dc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// Save creates a deck, or updates it when the body carries an id.
func (dc *DeckController) Save(w http.ResponseWriter, r *http.Request) {
	var req saveDeckRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := dc.service.Save(r.Context(), identity(r), &req.DeckDraft, req.ID)
	if err != nil {
		writeError(w, r, dc.logger, err)
		return
	}
	status, kind := http.StatusCreated, "create"
	if req.ID != "" {
		status, kind = http.StatusOK, "update"
	}
	dc.metrics.IncDeckSaves(kind)
	writeJSON(w, status, res)
}

func (dc *DeckController) Delete(w http.ResponseWriter, r *http.Request) {
	var req deckIDRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := dc.service.Delete(r.Context(), identity(r), req.ID); err != nil {
		writeError(w, r, dc.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (dc *DeckController) Upvote(w http.ResponseWriter, r *http.Request) {
	var req deckIDRequest
	if !decodeBody(w, r, &req) {
		return
	}
	upvoted, count, err := dc.service.ToggleUpvote(r.Context(), identity(r), req.ID)
	if err != nil {
		writeError(w, r, dc.logger, err)
		return
	}
	dc.metrics.IncUpvoteToggles(upvoted)
	writeJSON(w, http.StatusOK, upvoteResponse{ID: req.ID, Upvoted: upvoted, Upvotes: count})
}

func (dc *DeckController) Copy(w http.ResponseWriter, r *http.Request) {
	var req deckIDRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := dc.service.Copy(r.Context(), identity(r), req.ID)
	if err != nil {
		writeError(w, r, dc.logger, err)
		return
	}
	dc.metrics.IncDeckSaves("copy")
	writeJSON(w, http.StatusCreated, deckIDRequest{ID: id})
}

// Validate reports legality of an unsaved card list.
func (dc *DeckController) Validate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Cards []models.DeckCardEntry `json:"cards"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, dc.service.Validate(req.Cards))
}
