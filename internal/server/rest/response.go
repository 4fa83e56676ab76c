package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/civicreport/internal/common"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

type msgResponse struct {
	Msg string `json:"msg"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// errorStatus maps a service error to a status code and the detail sent to
// the client. Credential and token failures get fixed messages; anything
// else is reported with its own text.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, common.ErrorValidation):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
