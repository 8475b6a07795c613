package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/VitaminP8/petforum/internal/storage"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: http.StatusText(status), Message: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return false
	}
	return true
}

// handleServiceError переводит ошибки хранилища и сервисов в HTTP-статусы
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *storage.ValidationError
	switch {
	case errors.As(err, &valErr):
		respondError(w, http.StatusBadRequest, valErr.Error())
	case storage.IsNotFound(err):
		respondError(w, http.StatusNotFound, "resource not found")
	case storage.IsConflict(err):
		respondError(w, http.StatusConflict, "resource already exists")
	case storage.IsUnavailable(err):
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		respondError(w, http.StatusServiceUnavailable, "storage temporarily unavailable")
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
