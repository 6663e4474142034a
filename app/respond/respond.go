// Package respond writes JSON responses and maps error kinds to status codes.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/stockline/catalog-service/apperr"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Error writes the error envelope for err. Not-found conditions map to 404,
// validation and conflict to 400, everything else to 500.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindValidation, apperr.KindConflict:
		status = http.StatusBadRequest
	}
	JSON(w, status, map[string]string{"error": apperr.MessageOf(err)})
}
