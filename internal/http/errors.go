package http

import (
	"errors"
	"net/http"

	"github.com/screfinery/screfinery/internal/service"
	"github.com/screfinery/screfinery/internal/store"
	"github.com/screfinery/screfinery/pkg/httpx"
)

// ErrorResponse is the JSON error body every endpoint uses.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Field            string `json:"field,omitempty"`
}

type apiError struct {
	status int
	body   ErrorResponse
}

func (e apiError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.status, e.body)
}

var (
	errInvalidRequest = apiError{
		status: http.StatusBadRequest,
		body:   ErrorResponse{Error: "invalid_request", ErrorDescription: "the request body could not be processed"},
	}
	errInvalidCredentials = apiError{
		status: http.StatusUnauthorized,
		body:   ErrorResponse{Error: "invalid_credentials", ErrorDescription: "unknown user or wrong password"},
	}
	errUserInactive = apiError{
		status: http.StatusForbidden,
		body:   ErrorResponse{Error: "user_inactive", ErrorDescription: "the account is deactivated"},
	}
	errNotFound = apiError{
		status: http.StatusNotFound,
		body:   ErrorResponse{Error: "not_found", ErrorDescription: "no such resource"},
	}
	errConflict = apiError{
		status: http.StatusConflict,
		body:   ErrorResponse{Error: "conflict", ErrorDescription: "a resource with that identity already exists"},
	}
	errGoogleDisabled = apiError{
		status: http.StatusNotImplemented,
		body:   ErrorResponse{Error: "google_login_disabled", ErrorDescription: "google sign-in is not configured"},
	}
	errServerError = apiError{
		status: http.StatusInternalServerError,
		body:   ErrorResponse{Error: "server_error", ErrorDescription: "something went wrong"},
	}
)

// writeServiceError maps service and store errors onto the wire. Anything
// unrecognized becomes an opaque 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		apiError{
			status: http.StatusBadRequest,
			body:   ErrorResponse{Error: "invalid_request", ErrorDescription: verr.Message, Field: verr.Field},
		}.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		errInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrUserInactive):
		errUserInactive.WriteError(w)
	case errors.Is(err, service.ErrGoogleDisabled):
		errGoogleDisabled.WriteError(w)
	case errors.Is(err, store.ErrNotFound):
		errNotFound.WriteError(w)
	case errors.Is(err, store.ErrAlreadyExists):
		errConflict.WriteError(w)
	default:
		errServerError.WriteError(w)
	}
}
