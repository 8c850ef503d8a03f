package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mealmeter/mealmeter/internal/api/models"
	"github.com/mealmeter/mealmeter/internal/api/response"
	"github.com/mealmeter/mealmeter/internal/profile"
)

// ProfileHandler handles user profile endpoints.
type ProfileHandler struct {
	profileService *profile.Service
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *profile.Service) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile handles GET /v1/me/profile - get the user's profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	p, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			response.NotFound(w, r, "profile")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	response.JSON(w, r, http.StatusOK, p)
}

// CreateProfile handles POST /v1/me/profile - complete the profile stub.
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	var input models.ProfileCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	p, err := h.profileService.Create(r.Context(), userID, &input)
	if err != nil {
		var verr *profile.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(w, r, "validation failed", verr.Errors)
			return
		}
		if errors.Is(err, profile.ErrProfileExists) {
			response.Conflict(w, r, "profile already set up")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	response.Created(w, r, "/v1/me/profile", p)
}

// UpdateProfile handles PUT /v1/me/profile - partial profile update.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	var input models.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	p, err := h.profileService.Update(r.Context(), userID, &input)
	if err != nil {
		var verr *profile.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(w, r, "validation failed", verr.Errors)
			return
		}
		if errors.Is(err, profile.ErrProfileNotFound) {
			response.NotFound(w, r, "profile")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	response.JSON(w, r, http.StatusOK, p)
}
