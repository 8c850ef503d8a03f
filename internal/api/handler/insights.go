package handler

import (
	"errors"
	"net/http"

	"github.com/mealmeter/mealmeter/internal/api/response"
	"github.com/mealmeter/mealmeter/internal/nutrition"
)

// InsightsHandler handles nutrition insights endpoints.
type InsightsHandler struct {
	nutritionService *nutrition.Service
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(nutritionService *nutrition.Service) *InsightsHandler {
	return &InsightsHandler{nutritionService: nutritionService}
}

// GetNutrition handles GET /v1/me/insights/nutrition - the stored
// macronutrient distribution for the authenticated user.
func (h *InsightsHandler) GetNutrition(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	insights, err := h.nutritionService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, nutrition.ErrInsightsNotFound) {
			response.NotFound(w, r, "nutrition insights")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	response.JSON(w, r, http.StatusOK, insights)
}
