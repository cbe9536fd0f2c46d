package api

import (
	"encoding/json"
	"net/http"

	"github.com/medicore/clinic-scheduling/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

// writeDomainError maps the closed error-kind taxonomy onto HTTP
// statuses. Conflict is the only kind a client may retry after
// re-querying; everything else is terminal for the request.
func writeDomainError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	switch kind {
	case domain.KindValidation:
		writeError(w, http.StatusBadRequest, kind.String(), err.Error())
	case domain.KindNotFound:
		writeError(w, http.StatusNotFound, kind.String(), err.Error())
	case domain.KindConflict, domain.KindIllegalState:
		writeError(w, http.StatusConflict, kind.String(), err.Error())
	case domain.KindOwnershipMismatch:
		writeError(w, http.StatusUnprocessableEntity, kind.String(), err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
