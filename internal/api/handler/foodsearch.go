package handler

import (
	"errors"
	"net/http"

	"github.com/mealmeter/mealmeter/internal/api/response"
	"github.com/mealmeter/mealmeter/internal/foodsearch"
)

// FoodSearchHandler handles food database search endpoints.
type FoodSearchHandler struct {
	searchService *foodsearch.Service
}

// NewFoodSearchHandler creates a new FoodSearchHandler.
func NewFoodSearchHandler(searchService *foodsearch.Service) *FoodSearchHandler {
	return &FoodSearchHandler{searchService: searchService}
}

// Search handles GET /v1/food/search?query=... - nutrition lookup against
// the external food database.
func (h *FoodSearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	result, err := h.searchService.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, foodsearch.ErrEmptyQuery) {
			response.BadRequest(w, r, "query parameter is required", nil)
			return
		}
		if errors.Is(err, foodsearch.ErrProviderUnavailable) {
			response.ServiceUnavailable(w, r, "food database temporarily unavailable")
			return
		}
		response.InternalError(w, r, "food search failed")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}
