package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/internal/repository"
	"github.com/firstmoments/first-moments-api/internal/services"
	"github.com/firstmoments/first-moments-api/pkg/httputil"
	"github.com/firstmoments/first-moments-api/pkg/logger"
	"github.com/firstmoments/first-moments-api/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler handles HTTP requests for the in-app inbox.
type NotificationHandler struct {
	Service *services.NotificationService
}

// NewNotificationHandler creates a new instance of NotificationHandler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

// CreateNotificationHandler sends a notification to another user.
func (h *NotificationHandler) CreateNotificationHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var notif models.Notification
	if err := json.NewDecoder(r.Body).Decode(&notif); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	senderID, _ := primitive.ObjectIDFromHex(claims.UserID)
	notif.SenderID = &senderID

	created, err := h.Service.CreateNotification(r.Context(), &notif)
	if err != nil {
		if err == services.ErrCategoryDisabled {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		httputil.RespondError(w, status, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, "Notification sent", created)
}

// GetNotificationsHandler lists the caller's inbox with filters and
// pagination. Expired notifications are excluded.
func (h *NotificationHandler) GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	recipientID, _ := primitive.ObjectIDFromHex(claims.UserID)
	query := r.URL.Query()

	filter := repository.NotificationFilter{
		RecipientID: recipientID,
		Type:        query.Get("type"),
		Category:    query.Get("category"),
		Priority:    query.Get("priority"),
	}
	if raw := query.Get("read"); raw != "" {
		read, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "read must be true or false")
			return
		}
		filter.Read = &read
	}

	page := parsePagination(query.Get("page"), query.Get("limit"))
	notifications, total, unread, err := h.Service.ListNotifications(r.Context(), filter, page)
	if err != nil {
		logger.Log.Errorf("Failed to fetch notifications: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to get notifications")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "", map[string]interface{}{
		"notifications": notifications,
		"unread_count":  unread,
		"pagination":    httputil.NewPagination(page.Page, page.Limit, total),
	})
}

// MarkAsReadHandler flags one notification as read. Idempotent.
func (h *NotificationHandler) MarkAsReadHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	recipientID, _ := primitive.ObjectIDFromHex(claims.UserID)
	if err := h.Service.MarkAsRead(r.Context(), mux.Vars(r)["id"], recipientID); err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		} else if strings.Contains(err.Error(), "your own") {
			status = http.StatusForbidden
		}
		httputil.RespondError(w, status, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllAsReadHandler flags the whole inbox as read.
func (h *NotificationHandler) MarkAllAsReadHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	recipientID, _ := primitive.ObjectIDFromHex(claims.UserID)
	updated, err := h.Service.MarkAllAsRead(r.Context(), recipientID)
	if err != nil {
		logger.Log.Errorf("Failed to mark notifications as read: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to mark notifications as read")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "All notifications marked as read", map[string]interface{}{
		"updated": updated,
	})
}

// DeleteNotificationHandler removes one notification.
func (h *NotificationHandler) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	recipientID, _ := primitive.ObjectIDFromHex(claims.UserID)
	if err := h.Service.DeleteNotification(r.Context(), mux.Vars(r)["id"], recipientID); err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		} else if strings.Contains(err.Error(), "your own") {
			status = http.StatusForbidden
		}
		httputil.RespondError(w, status, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Notification deleted", nil)
}

// ClearAllHandler empties the caller's inbox.
func (h *NotificationHandler) ClearAllHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	recipientID, _ := primitive.ObjectIDFromHex(claims.UserID)
	deleted, err := h.Service.ClearAll(r.Context(), recipientID)
	if err != nil {
		logger.Log.Errorf("Failed to clear notifications: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to clear notifications")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Notifications cleared", map[string]interface{}{
		"deleted": deleted,
	})
}
