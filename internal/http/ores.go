package http

import (
	"net/http"

	"github.com/screfinery/screfinery/internal/service"
	"github.com/screfinery/screfinery/pkg/httpx"
)

type OresHandler struct {
	OreService *service.OreService
}

type oreRequest struct {
	Name string `json:"name"`
}

func (h *OresHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)

	ores, total, err := h.OreService.List(r.Context(), offset, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newListResponse(total, viewOres(ores)))
}

func (h *OresHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req oreRequest
	if err := decodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	ore, err := h.OreService.Create(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, viewOre(ore))
}

func (h *OresHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ore, err := h.OreService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewOre(ore))
}

func (h *OresHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req oreRequest
	if err := decodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	ore, err := h.OreService.Update(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewOre(ore))
}

func (h *OresHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.OreService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
