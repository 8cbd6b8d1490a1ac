package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/internal/services"
	"github.com/firstmoments/first-moments-api/pkg/httputil"
	"github.com/firstmoments/first-moments-api/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileHandler handles HTTP requests related to personas.
type ProfileHandler struct {
	Service             *services.ProfileService
	AchievementService  *services.AchievementService
	NotificationService *services.NotificationService
}

// NewProfileHandler creates a new instance of ProfileHandler.
func NewProfileHandler(service *services.ProfileService, achievementService *services.AchievementService, notificationService *services.NotificationService) *ProfileHandler {
	return &ProfileHandler{
		Service:             service,
		AchievementService:  achievementService,
		NotificationService: notificationService,
	}
}

// CreateProfileHandler handles the creation of a new profile.
func (h *ProfileHandler) CreateProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during profile creation")
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "Invalid user ID")
		return
	}
	profile.UserID = userID

	created, err := h.Service.CreateProfile(r.Context(), &profile)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.syncProfileAchievements(r, userID)

	logrus.WithFields(logrus.Fields{
		"userID":    claims.UserID,
		"profileID": created.ID.Hex(),
	}).Info("Profile successfully created")
	httputil.RespondJSON(w, http.StatusCreated, "Profile created", created)
}

// syncProfileAchievements reconciles profile-count achievements after a
// profile is added and notifies on newly unlocked ones.
func (h *ProfileHandler) syncProfileAchievements(r *http.Request, userID primitive.ObjectID) {
	ctx := r.Context()

	count, err := h.Service.CountProfiles(ctx, userID)
	if err != nil {
		logrus.WithError(err).Warn("Failed to count profiles for achievements")
		return
	}

	templates, err := h.AchievementService.GetTemplatesByCondition(ctx, models.ConditionProfileCount)
	if err != nil {
		logrus.WithError(err).Warn("Failed to load profile achievement templates")
		return
	}

	for i := range templates {
		tmpl := templates[i]
		unlocked, err := h.AchievementService.SyncCountProgress(ctx, userID, &tmpl, count)
		if err != nil {
			logrus.WithError(err).Warn("Failed to sync profile achievement")
			continue
		}
		if unlocked {
			h.NotificationService.Notify(ctx, userID,
				models.NotificationTypeAchievement, models.NotificationCategoryAchievements,
				"Achievement unlocked!", "You earned \""+tmpl.Name+"\".",
				map[string]interface{}{"template_id": tmpl.ID.Hex()})
		}
	}
}

// GetProfileHandler fetches a single profile, honoring visibility.
func (h *ProfileHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requesterID, _ := primitive.ObjectIDFromHex(claims.UserID)
	profile, err := h.Service.GetProfile(r.Context(), mux.Vars(r)["id"], requesterID)
	if err != nil {
		status := http.StatusNotFound
		if strings.Contains(err.Error(), "private") {
			status = http.StatusForbidden
		}
		httputil.RespondError(w, status, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "", profile)
}

// GetProfilesHandler lists the authenticated user's profiles.
func (h *ProfileHandler) GetProfilesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	profiles, err := h.Service.GetOwnProfiles(r.Context(), userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch profiles")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to fetch profiles")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "", profiles)
}

// UpdateProfileHandler applies a partial update to an owned profile.
func (h *ProfileHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	ownerID, _ := primitive.ObjectIDFromHex(claims.UserID)
	profile, err := h.Service.UpdateProfile(r.Context(), mux.Vars(r)["id"], ownerID, fields)
	if err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "your own") {
			status = http.StatusForbidden
		} else if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		httputil.RespondError(w, status, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Profile updated", profile)
}

// DeleteProfileHandler removes an owned profile and its moments.
func (h *ProfileHandler) DeleteProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ownerID, _ := primitive.ObjectIDFromHex(claims.UserID)
	if err := h.Service.DeleteProfile(r.Context(), mux.Vars(r)["id"], ownerID); err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "your own") {
			status = http.StatusForbidden
		} else if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		httputil.RespondError(w, status, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Profile deleted", nil)
}
