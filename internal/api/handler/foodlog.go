package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mealmeter/mealmeter/internal/api/models"
	"github.com/mealmeter/mealmeter/internal/api/response"
	"github.com/mealmeter/mealmeter/internal/foodlog"
)

// FoodLogHandler handles food logging endpoints.
type FoodLogHandler struct {
	foodLogService *foodlog.Service
}

// NewFoodLogHandler creates a new FoodLogHandler.
func NewFoodLogHandler(foodLogService *foodlog.Service) *FoodLogHandler {
	return &FoodLogHandler{foodLogService: foodLogService}
}

// LogFood handles POST /v1/me/food-log - append one entry to a daily log.
func (h *FoodLogHandler) LogFood(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	var input models.FoodEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	log, err := h.foodLogService.AppendEntry(r.Context(), userID, &input)
	if err != nil {
		var verr *foodlog.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(w, r, "validation failed", verr.Errors)
			return
		}
		if errors.Is(err, foodlog.ErrUnknownMealSlot) {
			response.BadRequest(w, r, "unknown meal type", []models.FieldError{
				{Field: "meal_type", Message: "must be one of breakfast, lunch, dinner, snacks, drinks"},
			})
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	response.Created(w, r, "/v1/me/food-log/"+log.Date.String(), log)
}

// GetDailyLog handles GET /v1/me/food-log/{date} - one day's log.
// Days with no entries yield an empty log, never a 404.
func (h *FoodLogHandler) GetDailyLog(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		response.BadRequest(w, r, "date must be in YYYY-MM-DD format", nil)
		return
	}

	log, err := h.foodLogService.GetDaily(r.Context(), userID, date)
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}

	response.JSON(w, r, http.StatusOK, log)
}

// ListLogs handles GET /v1/me/food-log - all logs, newest first.
func (h *FoodLogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	logs, err := h.foodLogService.ListAll(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}

	response.JSON(w, r, http.StatusOK, logs)
}
