package http

import (
	"net/http"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/service"
	"github.com/screfinery/screfinery/pkg/httpx"
)

type StationsHandler struct {
	StationService *service.StationService
}

type stationRequest struct {
	Name         string `json:"name"`
	Efficiencies []struct {
		OreID string  `json:"ore_id"`
		Bonus float64 `json:"efficiency_bonus"`
	} `json:"efficiencies"`
}

func (r stationRequest) params() service.StationParams {
	effs := make([]domain.StationEfficiency, 0, len(r.Efficiencies))
	for _, e := range r.Efficiencies {
		effs = append(effs, domain.StationEfficiency{OreID: e.OreID, Bonus: e.Bonus})
	}
	return service.StationParams{Name: r.Name, Efficiencies: effs}
}

func (h *StationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)

	stations, total, err := h.StationService.List(r.Context(), offset, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newListResponse(total, viewStations(stations)))
}

func (h *StationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req stationRequest
	if err := decodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	station, err := h.StationService.Create(r.Context(), req.params())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, viewStation(station))
}

func (h *StationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	station, err := h.StationService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewStation(station))
}

// HandleUpdate replaces name and the whole efficiency table.
func (h *StationsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req stationRequest
	if err := decodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	station, err := h.StationService.Update(r.Context(), r.PathValue("id"), req.params())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewStation(station))
}

func (h *StationsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.StationService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
