package handler

import (
	"net/http"

	"github.com/mcoot/wordchain-go/internal/api/apierr"
	"github.com/mcoot/wordchain-go/internal/api/response"
	"github.com/mcoot/wordchain-go/internal/model"
)

// Dictionary is the readiness view of the word list
type Dictionary interface {
	IsLoaded() bool
	WordCount() int
}

// HealthHandler reports liveness and dictionary readiness
type HealthHandler struct {
	dictionary Dictionary
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(dictionary Dictionary) *HealthHandler {
	return &HealthHandler{dictionary: dictionary}
}

// Get handles GET /api/v1/health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.dictionary.IsLoaded() {
		apierr.WriteError(w, model.ErrDictionaryNotLoaded)
		return
	}

	response.JSON(w, http.StatusOK, response.HealthResponse{
		Status:         "ok",
		DictionarySize: h.dictionary.WordCount(),
	})
}
