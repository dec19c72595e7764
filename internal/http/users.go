package http

import (
	"net/http"
	"strconv"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/service"
	"github.com/screfinery/screfinery/pkg/httpx"
)

type UsersHandler struct {
	UserService *service.UserService
}

type createUserRequest struct {
	Name            string   `json:"name"`
	Mail            string   `json:"mail"`
	Password        string   `json:"password"`
	PasswordConfirm string   `json:"password_confirm"`
	Scopes          []string `json:"scopes"`
	IsActive        *bool    `json:"is_active"`
}

type updateUserRequest struct {
	Name            *string  `json:"name"`
	Mail            *string  `json:"mail"`
	Password        *string  `json:"password"`
	PasswordConfirm *string  `json:"password_confirm"`
	IsActive        *bool    `json:"is_active"`
	Scopes          []string `json:"scopes"`
}

// HandleList handles GET /v1/users with optional id/name/mail/is_google/
// is_active query filters.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	offset, limit := pagination(r)

	var filter domain.UserFilter
	q := r.URL.Query()
	if v := q.Get("id"); v != "" {
		filter.ID = &v
	}
	if v := q.Get("name"); v != "" {
		filter.Name = &v
	}
	if v := q.Get("mail"); v != "" {
		filter.Mail = &v
	}
	if v := q.Get("is_google"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.IsGoogle = &b
		}
	}
	if v := q.Get("is_active"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.IsActive = &b
		}
	}

	users, total, err := h.UserService.List(ctx, filter, offset, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newListResponse(total, viewUsers(users)))
}

// HandleCreate handles POST /v1/users.
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	user, err := h.UserService.Create(ctx, service.CreateUserParams{
		Name:            req.Name,
		Mail:            req.Mail,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Scopes:          req.Scopes,
		IsActive:        active,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, viewUser(user))
}

// HandleGet handles GET /v1/users/{id}.
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewUser(user))
}

// HandleUpdate handles PUT /v1/users/{id}. A scopes field replaces the user's
// scope set wholesale.
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.Update(ctx, r.PathValue("id"), service.UpdateUserParams{
		Name:            req.Name,
		Mail:            req.Mail,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		IsActive:        req.IsActive,
		Scopes:          req.Scopes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, viewUser(user))
}

// HandleDelete handles DELETE /v1/users/{id}.
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.UserService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
