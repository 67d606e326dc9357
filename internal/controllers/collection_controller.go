package controllers

import (
	"io"
	"net/http"
	"vibes/internal/models"
	"vibes/internal/providers"
	"vibes/internal/services"
)

type CollectionController struct {
	logger  providers.Logger
	service services.CollectionServiceInterface
	metrics providers.MetricsProviderInterface
}

type variantChange struct {
	CardID  string         `json:"cardId"`
	Variant models.Variant `json:"variant"`
	Delta   int            `json:"delta"`
	Value   int            `json:"value"`
}

type countsResponse struct {
	CardID string               `json:"cardId"`
	Counts models.VariantCounts `json:"counts"`
}

func NewCollectionController(logger providers.Logger, service services.CollectionServiceInterface, metrics providers.MetricsProviderInterface) *CollectionController {
	return &CollectionController{
		logger:  logger,
		service: service,
		metrics: metrics,
	}
}

// View returns the caller's collection, or with ?user= another user's public one.
func (cc *CollectionController) View(w http.ResponseWriter, r *http.Request) {
	view, err := cc.service.View(r.Context(), identity(r), r.URL.Query().Get("user"))
	if err != nil {
		writeError(w, r, cc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (cc *CollectionController) Progress(w http.ResponseWriter, r *http.Request) {
	progress, err := cc.service.ColorProgress(r.Context(), identity(r), r.URL.Query().Get("set"))
	if err != nil {
		writeError(w, r, cc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (cc *CollectionController) Adjust(w http.ResponseWriter, r *http.Request) {
	var req variantChange
	if !decodeBody(w, r, &req) {
		return
	}
	counts, err := cc.service.Adjust(r.Context(), identity(r), req.CardID, req.Variant, req.Delta)
	if err != nil {
		writeError(w, r, cc.logger, err)
		return
	}
	cc.metrics.IncCollectionWrites("adjust")
	writeJSON(w, http.StatusOK, countsResponse{CardID: req.CardID, Counts: counts})
}

func (cc *CollectionController) Set(w http.ResponseWriter, r *http.Request) {
	var req variantChange
	if !decodeBody(w, r, &req) {
		return
	}
	counts, err := cc.service.Set(r.Context(), identity(r), req.CardID, req.Variant, req.Value)
	if err != nil {
		writeError(w, r, cc.logger, err)
		return
	}
	cc.metrics.IncCollectionWrites("set")
	writeJSON(w, http.StatusOK, countsResponse{CardID: req.CardID, Counts: counts})
}

func (cc *CollectionController) Export(w http.ResponseWriter, r *http.Request) {
	data, fileName, err := cc.service.Export(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, cc.logger, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	writeRaw(w, http.StatusOK, data)
}

// Import replaces the caller's collection with the uploaded export file.
func (cc *CollectionController) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 8*maxRequestBodySize)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Bad Request"})
		return
	}
	n, err := cc.service.Import(r.Context(), identity(r), raw)
	if err != nil {
		writeError(w, r, cc.logger, err)
		return
	}
	cc.metrics.IncCollectionWrites("import")
	cc.logger.Infof(providers.TypePost, "Imported %d cards for %s", n, identity(r).UserID)
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

func (cc *CollectionController) Reset(w http.ResponseWriter, r *http.Request) {
	if err := cc.service.Reset(r.Context(), identity(r)); err != nil {
		writeError(w, r, cc.logger, err)
		return
	}
	cc.metrics.IncCollectionWrites("reset")
	w.WriteHeader(http.StatusNoContent)
}

func (cc *CollectionController) Visibility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Public bool `json:"public"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := cc.service.SetVisibility(r.Context(), identity(r), req.Public); err != nil {
		writeError(w, r, cc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isPublic": req.Public})
}
