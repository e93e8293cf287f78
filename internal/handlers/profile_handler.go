package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/swap24/backend/internal/models"
	"github.com/swap24/backend/internal/services"
	"github.com/swap24/backend/pkg/logger"
	"go.uber.org/zap"
)

type ProfileAPI interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, req services.UpdateProfileRequest) (*models.Profile, error)
}

type ReputationAPI interface {
	GetTraderStats(ctx context.Context, userID string) (*models.TraderStats, error)
	UpsertTraderStats(ctx context.Context, userID string, req services.UpsertTraderStatsRequest) (*models.TraderStats, error)
}

type ProfileHandler struct {
	profiles   ProfileAPI
	reputation ReputationAPI
	log        *zap.Logger
}

func NewProfileHandler(profiles ProfileAPI, reputation ReputationAPI) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, reputation: reputation, log: logger.Named("profiles")}
}

// GetProfile returns a user's profile
// @Summary Get profile
// @Tags Profiles
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} models.Profile
// @Failure 404 {object} services.ErrorResponse
// @Router /profiles/{userId} [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetProfile(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile patches the caller's profile
// @Summary Update profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User id"
// @Param request body services.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} models.Profile
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /profiles/{userId} [patch]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !authorizeUser(w, r, userID) {
		return
	}

	var req services.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.profiles.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// GetTraderStats returns a trader's reputation
// @Summary Get trader stats
// @Tags Traders
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} models.TraderStats
// @Failure 404 {object} services.ErrorResponse
// @Router /traders/{userId}/stats [get]
func (h *ProfileHandler) GetTraderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reputation.GetTraderStats(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// UpsertTraderStats writes the caller's reputation counters
// @Summary Upsert trader stats
// @Description The positivity rate is recomputed from the order counters
// @Tags Traders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User id"
// @Param request body services.UpsertTraderStatsRequest true "Counters"
// @Success 200 {object} models.TraderStats
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /traders/{userId}/stats [put]
func (h *ProfileHandler) UpsertTraderStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !authorizeUser(w, r, userID) {
		return
	}

	var req services.UpsertTraderStatsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	stats, err := h.reputation.UpsertTraderStats(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
