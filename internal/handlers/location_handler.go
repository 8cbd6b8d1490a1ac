package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/internal/services"
	"github.com/firstmoments/first-moments-api/pkg/httputil"
	"github.com/firstmoments/first-moments-api/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocationHandler handles HTTP requests related to saved places.
type LocationHandler struct {
	Service *services.LocationService
}

// NewLocationHandler creates a new instance of LocationHandler.
func NewLocationHandler(service *services.LocationService) *LocationHandler {
	return &LocationHandler{Service: service}
}

// CreateLocationHandler stores a new saved place.
func (h *LocationHandler) CreateLocationHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var loc models.Location
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	loc.UserID = userID

	created, err := h.Service.CreateLocation(r.Context(), &loc)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID":     claims.UserID,
		"locationID": created.ID.Hex(),
	}).Info("Location successfully created")
	httputil.RespondJSON(w, http.StatusCreated, "Location created", created)
}

// GetLocationHandler fetches one of the caller's saved places.
func (h *LocationHandler) GetLocationHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ownerID, _ := primitive.ObjectIDFromHex(claims.UserID)
	loc, err := h.Service.GetLocation(r.Context(), mux.Vars(r)["id"], ownerID)
	if err != nil {
		status := http.StatusNotFound
		if strings.Contains(err.Error(), "your own") {
			status = http.StatusForbidden
		}
		httputil.RespondError(w, status, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "", loc)
}

// GetLocationsHandler lists the caller's saved places.
func (h *LocationHandler) GetLocationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	locations, err := h.Service.ListLocations(r.Context(), userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch locations")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to fetch locations")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "", locations)
}

// GetNearbyLocationsHandler returns saved places near a coordinate.
func (h *LocationHandler) GetNearbyLocationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := r.URL.Query()
	lng, errLng := strconv.ParseFloat(query.Get("lng"), 64)
	lat, errLat := strconv.ParseFloat(query.Get("lat"), 64)
	if errLng != nil || errLat != nil {
		httputil.RespondError(w, http.StatusBadRequest, "lng and lat query parameters are required")
		return
	}

	var maxDistance int64
	if raw := query.Get("max_distance"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			httputil.RespondError(w, http.StatusBadRequest, "max_distance must be a positive integer")
			return
		}
		maxDistance = n
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	locations, err := h.Service.FindNearby(r.Context(), userID, lng, lat, maxDistance)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "", locations)
}

// UpdateLocationHandler applies a partial update to an owned place.
func (h *LocationHandler) UpdateLocationHandler(w http.ResponseWriter, r *http.Request) {
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
	loc, err := h.Service.UpdateLocation(r.Context(), mux.Vars(r)["id"], ownerID, fields)
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

	httputil.RespondJSON(w, http.StatusOK, "Location updated", loc)
}

// DeleteLocationHandler removes an owned place.
func (h *LocationHandler) DeleteLocationHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ownerID, _ := primitive.ObjectIDFromHex(claims.UserID)
	if err := h.Service.DeleteLocation(r.Context(), mux.Vars(r)["id"], ownerID); err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "your own") {
			status = http.StatusForbidden
		} else if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		httputil.RespondError(w, status, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Location deleted", nil)
}
