package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/internal/repository"
	"github.com/firstmoments/first-moments-api/internal/services"
	"github.com/firstmoments/first-moments-api/pkg/httputil"
	"github.com/firstmoments/first-moments-api/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AchievementHandler handles HTTP requests for templates and progress.
type AchievementHandler struct {
	Service             *services.AchievementService
	NotificationService *services.NotificationService
}

// NewAchievementHandler creates a new instance of AchievementHandler.
func NewAchievementHandler(service *services.AchievementService, notificationService *services.NotificationService) *AchievementHandler {
	return &AchievementHandler{
		Service:             service,
		NotificationService: notificationService,
	}
}

// GetTemplatesHandler lists achievement definitions.
func (h *AchievementHandler) GetTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Service.GetTemplates(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch achievement templates")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to fetch templates")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, "", templates)
}

// GetTemplateByIDHandler fetches one achievement definition.
func (h *AchievementHandler) GetTemplateByIDHandler(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.Service.GetTemplate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httputil.RespondError(w, http.StatusNotFound, "Template not found")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, "", tmpl)
}

// CreateTemplateHandler creates an achievement definition. Admin only.
func (h *AchievementHandler) CreateTemplateHandler(w http.ResponseWriter, r *http.Request) {
	var tmpl models.AchievementTemplate
	if err := json.NewDecoder(r.Body).Decode(&tmpl); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	created, err := h.Service.CreateTemplate(r.Context(), &tmpl)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	logrus.WithField("templateID", created.ID.Hex()).Info("Achievement template created")
	httputil.RespondJSON(w, http.StatusCreated, "Template created", created)
}

// UpdateTemplateHandler updates an achievement definition. Admin only.
func (h *AchievementHandler) UpdateTemplateHandler(w http.ResponseWriter, r *http.Request) {
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	tmpl, err := h.Service.UpdateTemplate(r.Context(), mux.Vars(r)["id"], fields)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	httputil.RespondJSON(w, http.StatusOK, "Template updated", tmpl)
}

// DeleteTemplateHandler removes an achievement definition. Admin only.
func (h *AchievementHandler) DeleteTemplateHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteTemplate(r.Context(), mux.Vars(r)["id"]); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	httputil.RespondJSON(w, http.StatusOK, "Template deleted", nil)
}

// GetUserAchievementsHandler lists the caller's progress entries.
func (h *AchievementHandler) GetUserAchievementsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	achievements, err := h.Service.GetUserAchievements(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "", achievements)
}

// StartAchievementHandler creates a zero-progress entry for a template.
// A duplicate pair yields 409.
func (h *AchievementHandler) StartAchievementHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	ach, err := h.Service.StartAchievement(r.Context(), userID, mux.Vars(r)["templateID"])
	if err != nil {
		if err == repository.ErrDuplicateAchievement {
			httputil.RespondError(w, http.StatusConflict, err.Error())
			return
		}
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		httputil.RespondError(w, status, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, "Achievement started", ach)
}

// UpdateProgressHandler sets the caller's progress on a template.
func (h *AchievementHandler) UpdateProgressHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Current int64 `json:"current"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	templateID := mux.Vars(r)["templateID"]

	ach, justAchieved, err := h.Service.UpdateProgress(r.Context(), userID, templateID, req.Current)
	if err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		httputil.RespondError(w, status, err.Error())
		return
	}

	if justAchieved {
		tmpl, terr := h.Service.GetTemplate(r.Context(), templateID)
		if terr == nil {
			h.NotificationService.Notify(r.Context(), userID,
				models.NotificationTypeAchievement, models.NotificationCategoryAchievements,
				"Achievement unlocked!", "You earned \""+tmpl.Name+"\".",
				map[string]interface{}{"template_id": templateID})
		}
	}

	httputil.RespondJSON(w, http.StatusOK, "Progress updated", ach)
}

// GetSummaryHandler aggregates the caller's achievement standing.
func (h *AchievementHandler) GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	summary, err := h.Service.GetSummary(r.Context(), userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to build achievement summary")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to build summary")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "", summary)
}
