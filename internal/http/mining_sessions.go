package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/screfinery/screfinery/internal/service"
	"github.com/screfinery/screfinery/internal/store"
	"github.com/screfinery/screfinery/pkg/httpx"
)

type MiningSessionsHandler struct {
	SessionService *service.MiningSessionService
}

type createSessionRequest struct {
	Name         string   `json:"name"`
	UsersInvited []string `json:"users_invited"`
}

// updateSessionRequest distinguishes absent fields from explicit nulls:
// raw == nil means "leave alone", raw == "null" means "clear".
type updateSessionRequest struct {
	Name         *string         `json:"name"`
	Archived     json.RawMessage `json:"archived"`
	YieldSCU     json.RawMessage `json:"yield_scu"`
	YieldUEC     json.RawMessage `json:"yield_uec"`
	UsersInvited []string        `json:"users_invited"`
}

var jsonNull = []byte("null")

func rawTimePtr(raw json.RawMessage) (**time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	if bytes.Equal(raw, jsonNull) {
		var cleared *time.Time
		return &cleared, nil
	}
	var t time.Time
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, err
	}
	ptr := &t
	return &ptr, nil
}

func rawFloatPtr(raw json.RawMessage) (**float64, error) {
	if raw == nil {
		return nil, nil
	}
	if bytes.Equal(raw, jsonNull) {
		var cleared *float64
		return &cleared, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	ptr := &f
	return &ptr, nil
}

func (h *MiningSessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)

	items, total, err := h.SessionService.List(r.Context(), offset, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newListResponse(total, viewSessionListItems(items)))
}

// HandleCreate handles POST /v1/mining_sessions. The creator is always the
// authenticated caller.
func (h *MiningSessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	session, err := h.SessionService.Create(ctx, service.CreateSessionParams{
		CreatorID:    httpx.UserIDFromCtx(ctx),
		Name:         req.Name,
		UsersInvited: req.UsersInvited,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, viewSession(session))
}

func (h *MiningSessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	session, err := h.SessionService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewSession(session))
}

// HandleUpdate handles PATCH /v1/mining_sessions/{id}: name, archived, yields
// and wholesale replacement of the invited-user list.
func (h *MiningSessionsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	archived, err := rawTimePtr(req.Archived)
	if err != nil {
		errInvalidRequest.WriteError(w)
		return
	}
	yieldSCU, err := rawFloatPtr(req.YieldSCU)
	if err != nil {
		errInvalidRequest.WriteError(w)
		return
	}
	yieldUEC, err := rawFloatPtr(req.YieldUEC)
	if err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	session, err := h.SessionService.Update(r.Context(), r.PathValue("id"), service.UpdateSessionParams{
		Name:         req.Name,
		Archived:     archived,
		YieldSCU:     yieldSCU,
		YieldUEC:     yieldUEC,
		UsersInvited: req.UsersInvited,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewSession(session))
}

func (h *MiningSessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type entryRequest struct {
	UserID    string  `json:"user_id"`
	StationID string  `json:"station_id"`
	OreID     string  `json:"ore_id"`
	MethodID  string  `json:"method_id"`
	Quantity  float64 `json:"quantity"`
	Duration  float64 `json:"duration"`
}

type updateEntryRequest struct {
	StationID *string  `json:"station_id"`
	OreID     *string  `json:"ore_id"`
	MethodID  *string  `json:"method_id"`
	Quantity  *float64 `json:"quantity"`
	Duration  *float64 `json:"duration"`
}

// HandleListEntries handles GET /v1/mining_sessions/{id}/entries.
func (h *MiningSessionsHandler) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.SessionService.ListEntries(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newListResponse(len(entries), viewEntries(entries)))
}

// HandleCreateEntry handles POST /v1/mining_sessions/{id}/entries. An empty
// user_id defaults to the authenticated caller.
func (h *MiningSessionsHandler) HandleCreateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}
	if req.UserID == "" {
		req.UserID = httpx.UserIDFromCtx(ctx)
	}

	entry, err := h.SessionService.CreateEntry(ctx, r.PathValue("id"), service.EntryParams{
		UserID:    req.UserID,
		StationID: req.StationID,
		OreID:     req.OreID,
		MethodID:  req.MethodID,
		Quantity:  req.Quantity,
		Duration:  req.Duration,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, viewEntry(entry))
}

// HandleUpdateEntry handles PATCH /v1/mining_sessions/{id}/entries/{entry_id}.
func (h *MiningSessionsHandler) HandleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req updateEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	entry, err := h.SessionService.UpdateEntry(r.Context(), r.PathValue("id"), r.PathValue("entry_id"), store.EntryUpdate{
		StationID: req.StationID,
		OreID:     req.OreID,
		MethodID:  req.MethodID,
		Quantity:  req.Quantity,
		Duration:  req.Duration,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewEntry(entry))
}

// HandleDeleteEntry handles DELETE /v1/mining_sessions/{id}/entries/{entry_id}.
func (h *MiningSessionsHandler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionService.DeleteEntry(r.Context(), r.PathValue("id"), r.PathValue("entry_id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
