package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/internal/repository"
	"github.com/firstmoments/first-moments-api/internal/services"
	"github.com/firstmoments/first-moments-api/pkg/httputil"
	"github.com/firstmoments/first-moments-api/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MomentHandler handles HTTP requests related to journal entries.
type MomentHandler struct {
	Service             *services.MomentService
	AchievementService  *services.AchievementService
	NotificationService *services.NotificationService
}

// NewMomentHandler creates a new instance of MomentHandler.
func NewMomentHandler(momentService *services.MomentService, achievementService *services.AchievementService, notificationService *services.NotificationService) *MomentHandler {
	return &MomentHandler{
		Service:             momentService,
		AchievementService:  achievementService,
		NotificationService: notificationService,
	}
}

// CreateMomentHandler handles the creation of a new moment.
func (h *MomentHandler) CreateMomentHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		logrus.Warn("Unauthorized access attempt during moment creation")
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var moment models.Moment
	if err := json.NewDecoder(r.Body).Decode(&moment); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during moment creation")
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "Invalid user ID")
		return
	}
	moment.UserID = userID

	created, err := h.Service.CreateMoment(r.Context(), &moment)
	if err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "your own") {
			status = http.StatusForbidden
		}
		httputil.RespondError(w, status, err.Error())
		return
	}

	h.syncMomentAchievements(r, userID, created.Category)

	logrus.WithFields(logrus.Fields{
		"userID":   claims.UserID,
		"momentID": created.ID.Hex(),
	}).Info("Moment successfully created")
	httputil.RespondJSON(w, http.StatusCreated, "Moment created", created)
}

// syncMomentAchievements reconciles count-based achievements after a new
// moment and notifies the author about newly unlocked ones.
func (h *MomentHandler) syncMomentAchievements(r *http.Request, userID primitive.ObjectID, category string) {
	ctx := r.Context()

	total, err := h.Service.CountMoments(ctx, userID)
	if err != nil {
		logrus.WithError(err).Warn("Failed to count moments for achievements")
		return
	}

	templates, err := h.AchievementService.GetTemplatesByCondition(ctx, models.ConditionMomentCount)
	if err == nil {
		for i := range templates {
			h.syncOne(r, userID, &templates[i], total)
		}
	}

	categoryTemplates, err := h.AchievementService.GetTemplatesByCondition(ctx, models.ConditionCategoryCount)
	if err != nil {
		return
	}
	var categoryCount int64 = -1
	for i := range categoryTemplates {
		tmpl := &categoryTemplates[i]
		if tmpl.Category != category {
			continue
		}
		if categoryCount < 0 {
			categoryCount, err = h.Service.CountMomentsByCategory(ctx, userID, category)
			if err != nil {
				logrus.WithError(err).Warn("Failed to count category moments")
				return
			}
		}
		h.syncOne(r, userID, tmpl, categoryCount)
	}
}

func (h *MomentHandler) syncOne(r *http.Request, userID primitive.ObjectID, tmpl *models.AchievementTemplate, count int64) {
	unlocked, err := h.AchievementService.SyncCountProgress(r.Context(), userID, tmpl, count)
	if err != nil {
		logrus.WithError(err).Warn("Failed to sync achievement progress")
		return
	}
	if unlocked {
		h.NotificationService.Notify(r.Context(), userID,
			models.NotificationTypeAchievement, models.NotificationCategoryAchievements,
			"Achievement unlocked!", "You earned \""+tmpl.Name+"\".",
			map[string]interface{}{"template_id": tmpl.ID.Hex()})
	}
}

// GetMomentHandler fetches a single moment, honoring profile visibility.
func (h *MomentHandler) GetMomentHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requesterID, _ := primitive.ObjectIDFromHex(claims.UserID)
	moment, err := h.Service.GetMoment(r.Context(), mux.Vars(r)["id"], requesterID)
	if err != nil {
		status := http.StatusNotFound
		if strings.Contains(err.Error(), "private") {
			status = http.StatusForbidden
		}
		httputil.RespondError(w, status, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "", moment)
}

// GetMomentsHandler lists the user's moments with filters and pagination.
func (h *MomentHandler) GetMomentsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	query := r.URL.Query()

	filter := repository.MomentFilter{
		UserID:   userID,
		Category: query.Get("category"),
		Tag:      query.Get("tag"),
	}
	if profileID := query.Get("profile_id"); profileID != "" {
		objID, err := primitive.ObjectIDFromHex(profileID)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid profile ID")
			return
		}
		filter.ProfileID = &objID
	}
	if from := query.Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid 'from' date, expected RFC3339")
			return
		}
		filter.From = t
	}
	if to := query.Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid 'to' date, expected RFC3339")
			return
		}
		filter.To = t
	}

	page := parsePagination(query.Get("page"), query.Get("limit"))
	moments, total, err := h.Service.ListMoments(r.Context(), filter, page)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "", map[string]interface{}{
		"moments":    moments,
		"pagination": httputil.NewPagination(page.Page, page.Limit, total),
	})
}

// UpdateMomentHandler applies a partial update to an owned moment.
func (h *MomentHandler) UpdateMomentHandler(w http.ResponseWriter, r *http.Request) {
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
	moment, err := h.Service.UpdateMoment(r.Context(), mux.Vars(r)["id"], ownerID, fields)
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

	httputil.RespondJSON(w, http.StatusOK, "Moment updated", moment)
}

// DeleteMomentHandler removes an owned moment.
func (h *MomentHandler) DeleteMomentHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ownerID, _ := primitive.ObjectIDFromHex(claims.UserID)
	if err := h.Service.DeleteMoment(r.Context(), mux.Vars(r)["id"], ownerID); err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "your own") {
			status = http.StatusForbidden
		} else if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		httputil.RespondError(w, status, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Moment deleted", nil)
}

// parsePagination normalizes page/limit query values. Limit is capped at
// 100 to keep responses bounded.
func parsePagination(pageStr, limitStr string) httputil.Pagination {
	page := 1
	limit := 20
	if n, err := strconv.Atoi(pageStr); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
		limit = n
	}
	if limit > 100 {
		limit = 100
	}
	return httputil.Pagination{Page: page, Limit: limit}
}
