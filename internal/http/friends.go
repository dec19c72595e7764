package http

import (
	"net/http"

	"github.com/screfinery/screfinery/internal/service"
	"github.com/screfinery/screfinery/pkg/httpx"
)

type FriendsHandler struct {
	FriendshipService *service.FriendshipService
}

type friendRequest struct {
	FriendID string `json:"friend_id"`
}

// HandleList handles GET /v1/users/{id}/friends.
func (h *FriendsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.FriendshipService.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewFriendships(list))
}

// HandleRequest handles POST /v1/users/{id}/friends: request a friendship.
func (h *FriendsHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	var req friendRequest
	if err := decodeJSON(r, &req); err != nil || req.FriendID == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	if err := h.FriendshipService.Request(r.Context(), r.PathValue("id"), req.FriendID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleConfirm handles PUT /v1/users/{id}/friends/{friend_id}: confirm an
// incoming request.
func (h *FriendsHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	// {id} is the confirming side, so the stored edge points friend -> user.
	err := h.FriendshipService.Confirm(r.Context(), r.PathValue("friend_id"), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /v1/users/{id}/friends/{friend_id}.
func (h *FriendsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.FriendshipService.Remove(r.Context(), r.PathValue("id"), r.PathValue("friend_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
