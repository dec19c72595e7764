package http

import (
	"net/http"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/service"
	"github.com/screfinery/screfinery/pkg/httpx"
)

type MethodsHandler struct {
	MethodService *service.MethodService
}

type methodRequest struct {
	Name         string `json:"name"`
	Efficiencies []struct {
		OreID      string  `json:"ore_id"`
		Efficiency float64 `json:"efficiency"`
		Duration   float64 `json:"duration"`
	} `json:"efficiencies"`
}

func (r methodRequest) params() service.MethodParams {
	effs := make([]domain.MethodEfficiency, 0, len(r.Efficiencies))
	for _, e := range r.Efficiencies {
		effs = append(effs, domain.MethodEfficiency{
			OreID:      e.OreID,
			Efficiency: e.Efficiency,
			Duration:   e.Duration,
		})
	}
	return service.MethodParams{Name: r.Name, Efficiencies: effs}
}

func (h *MethodsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)

	methods, total, err := h.MethodService.List(r.Context(), offset, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newListResponse(total, viewMethods(methods)))
}

func (h *MethodsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req methodRequest
	if err := decodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	method, err := h.MethodService.Create(r.Context(), req.params())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, viewMethod(method))
}

func (h *MethodsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	method, err := h.MethodService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewMethod(method))
}

func (h *MethodsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req methodRequest
	if err := decodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	method, err := h.MethodService.Update(r.Context(), r.PathValue("id"), req.params())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewMethod(method))
}

func (h *MethodsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.MethodService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
