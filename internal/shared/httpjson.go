package shared

import (
	"encoding/json"
	"errors"
	"net/http"
)

// WriteJSON renders v as a JSON response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// HTTPStatus maps the error taxonomy to a response status code.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrMissingCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return http.StatusBadGateway
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return http.StatusBadGateway
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// WriteError renders an error with its user-safe message.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, HTTPStatus(err), map[string]string{"error": UserSafeMessage(err)})
}

// WriteValidationError renders a 400 with the raw validation message.
func WriteValidationError(w http.ResponseWriter, err error) {
	WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}
