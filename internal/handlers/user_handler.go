package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/firstmoments/first-moments-api/internal/config"
	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/internal/services"
	"github.com/firstmoments/first-moments-api/pkg/httputil"
	jwtutil "github.com/firstmoments/first-moments-api/pkg/jwt"
	"github.com/firstmoments/first-moments-api/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests for auth and user operations.
type UserHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service: service,
		Config:  cfg,
	}
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (h *UserHandler) issueTokens(user *models.User) (*tokenPair, error) {
	access, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, user.Role,
		jwtutil.TokenTypeAccess, h.Config.JWTSecret, h.Config.AccessTokenExpiry)
	if err != nil {
		return nil, err
	}
	refresh, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, user.Role,
		jwtutil.TokenTypeRefresh, h.Config.JWTSecret, h.Config.RefreshTokenExpiry)
	if err != nil {
		return nil, err
	}
	return &tokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RegisterUserHandler handles user registration.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode registration request")
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	createdUser, err := h.Service.RegisterUser(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		log.WithError(err).Warn("Failed to register user")
		status := http.StatusBadRequest
		if err.Error() == "email already in use" {
			status = http.StatusConflict
		}
		httputil.RespondError(w, status, err.Error())
		return
	}

	log.WithField("userID", createdUser.ID.Hex()).Info("User registered successfully")
	httputil.RespondJSON(w, http.StatusCreated, "Registration successful, please verify your email", createdUser)
}

// VerifyEmailHandler confirms the email verification token.
func (h *UserHandler) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Verification token is required")
		return
	}

	if err := h.Service.VerifyEmail(r.Context(), token); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Email verified successfully", nil)
}

// LoginUserHandler handles user login and token issuance.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	user, err := h.Service.AuthenticateUser(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		var locked *services.ErrAccountLocked
		if errors.As(err, &locked) {
			httputil.RespondError(w, http.StatusLocked, err.Error())
			return
		}
		log.WithFields(log.Fields{
			"email": credentials.Email,
			"error": err,
		}).Warn("Authentication failed")
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		log.WithError(err).Error("Failed to generate tokens")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User logged in successfully")
	httputil.RespondJSON(w, http.StatusOK, "Login successful", map[string]interface{}{
		"tokens": tokens,
		"user":   user,
	})
}

// RefreshTokenHandler exchanges a valid refresh token for a new pair.
func (h *UserHandler) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Refresh token is required")
		return
	}
	defer r.Body.Close()

	claims, err := jwtutil.ParseToken(req.RefreshToken, h.Config.JWTSecret)
	if err != nil || claims.TokenType != jwtutil.TokenTypeRefresh {
		httputil.RespondError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	// Re-read the account so revoked or deleted users cannot refresh.
	user, err := h.Service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Account no longer exists")
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		log.WithError(err).Error("Failed to generate tokens")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Token refreshed", tokens)
}

// RequestPasswordResetHandler sends the reset link.
func (h *UserHandler) RequestPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Email is required")
		return
	}
	defer r.Body.Close()

	if err := h.Service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Password reset email sent", nil)
}

// ResetPasswordHandler sets the new password from a reset token.
func (h *UserHandler) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Token and new password are required")
		return
	}
	defer r.Body.Close()

	if err := h.Service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Password reset successfully", nil)
}

// GetMeHandler returns the authenticated user's own account.
func (h *UserHandler) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.Service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		httputil.RespondError(w, http.StatusNotFound, "User not found")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, "", user)
}

// GetUserHandler handles fetching a user by ID. Self-only.
func (h *UserHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestedUserID := vars["id"]

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if requestedUserID != claims.UserID {
		log.WithFields(log.Fields{
			"requestedUserID": requestedUserID,
			"loggedInUserID":  claims.UserID,
		}).Warn("Forbidden access attempt")
		httputil.RespondError(w, http.StatusForbidden, "You can only access your own account")
		return
	}

	user, err := h.Service.GetUser(r.Context(), requestedUserID)
	if err != nil {
		httputil.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "", user)
}

// UpdateUserHandler handles updating a user account. Self-only.
func (h *UserHandler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestedUserID := vars["id"]

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if requestedUserID != claims.UserID {
		httputil.RespondError(w, http.StatusForbidden, "You can only update your own account")
		return
	}

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	user, err := h.Service.UpdateUser(r.Context(), requestedUserID, fields)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User updated successfully")
	httputil.RespondJSON(w, http.StatusOK, "User updated", user)
}

// UpdateNotificationSettingsHandler replaces the user's notification
// preferences. Self-only.
func (h *UserHandler) UpdateNotificationSettingsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestedUserID := vars["id"]

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if requestedUserID != claims.UserID {
		httputil.RespondError(w, http.StatusForbidden, "You can only update your own settings")
		return
	}

	var settings models.NotificationSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	user, err := h.Service.UpdateNotificationSettings(r.Context(), requestedUserID, settings)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Notification settings updated", user.Settings)
}

// DeleteUserHandler removes the account. Self-only.
func (h *UserHandler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestedUserID := vars["id"]

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if requestedUserID != claims.UserID {
		httputil.RespondError(w, http.StatusForbidden, "You can only delete your own account")
		return
	}

	if err := h.Service.DeleteUser(r.Context(), requestedUserID); err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Account deleted", nil)
}

// AdminGetAllUsersHandler lists every account. Admin only; the role
// middleware guards the route.
func (h *UserHandler) AdminGetAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	users, err := h.Service.GetAllUsers(r.Context())
	if err != nil {
		log.Errorf("Admin %s failed to fetch users: %v", claims.UserID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}

	log.Infof("Admin %s fetched %d users", claims.UserID, len(users))
	httputil.RespondJSON(w, http.StatusOK, "", users)
}
