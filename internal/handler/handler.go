package handler

import (
	"encoding/json"
	"net/http"

	"github.com/commercekit/category-merchandising/internal/listing"
	"github.com/commercekit/category-merchandising/internal/repository"
)

type Handler struct {
	repo     *repository.Repository
	pipeline *listing.Pipeline
}

func NewHandler(repo *repository.Repository, pipeline *listing.Pipeline) *Handler {
	return &Handler{repo: repo, pipeline: pipeline}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}
