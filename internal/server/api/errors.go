package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Code: code, Message: message})
}

// writeServiceError maps sentinel errors from the service layer onto HTTP
// statuses. Policy violations are user-correctable and carry their message
// verbatim; anything unrecognized is a 500 with a generic body.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidParent):
		writeError(w, http.StatusBadRequest, "INVALID_PARENT", err.Error())
	case errors.Is(err, common.ErrPolicyViolation):
		writeError(w, http.StatusUnprocessableEntity, "POLICY_VIOLATION", err.Error())
	case errors.Is(err, common.ErrBlocked):
		writeError(w, http.StatusForbidden, "DOWNLOAD_BLOCKED", err.Error())
	case errors.Is(err, common.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "object not found")
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
