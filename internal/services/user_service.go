package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/firstmoments/first-moments-api/internal/config"
	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/internal/repository"
	"github.com/firstmoments/first-moments-api/pkg/email"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ErrAccountLocked is returned when login is attempted on a locked account.
type ErrAccountLocked struct {
	Until time.Time
}

func (e *ErrAccountLocked) Error() string {
	return fmt.Sprintf("account locked, try again in %s", time.Until(e.Until).Round(time.Second))
}

// UserService encapsulates the business logic for accounts and auth.
type UserService struct {
	repo *repository.UserRepository
	cfg  *config.Config
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo *repository.UserRepository, cfg *config.Config) *UserService {
	return &UserService{
		repo: repo,
		cfg:  cfg,
	}
}

// RegisterUser registers a new user after hashing their password.
func (s *UserService) RegisterUser(ctx context.Context, username, userEmail, password string) (*models.User, error) {
	logrus.Info("Registering new user")

	if userEmail == "" || username == "" || password == "" {
		return nil, fmt.Errorf("missing required user fields")
	}
	if !emailRegex.MatchString(userEmail) {
		logrus.WithField("email", userEmail).Warn("Invalid email format during registration")
		return nil, fmt.Errorf("invalid email format")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	existing, _ := s.repo.GetUserByEmail(ctx, userEmail)
	if existing != nil {
		logrus.WithField("email", userEmail).Warn("Email already in use")
		return nil, fmt.Errorf("email already in use")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:       username,
		Email:          userEmail,
		HashedPassword: string(hashedPwd),
		Role:           "user",
		IsVerified:     false,
		VerifyToken:    uuid.NewString(),
		Settings:       models.DefaultNotificationSettings(),
	}

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, err
	}

	verificationLink := fmt.Sprintf("http://localhost:%s/api/auth/verify?token=%s", s.cfg.Port, user.VerifyToken)
	body := fmt.Sprintf("Welcome to First Moments!\n\nPlease verify your email by clicking the link below:\n%s", verificationLink)
	if err := email.SendEmail(user.Email, "Email Verification", body); err != nil {
		// Registration stands even when the mail fails; the user can
		// request a new verification link later.
		logrus.WithError(err).Error("Failed to send verification email")
	}

	logrus.WithFields(logrus.Fields{
		"userID": createdUser.ID.Hex(),
		"role":   createdUser.Role,
	}).Info("User registered successfully")

	return createdUser, nil
}

// VerifyEmail marks the account matching the token as verified.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.repo.GetUserByVerifyToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid or expired verification token")
	}

	update := map[string]interface{}{
		"is_verified":  true,
		"verify_token": "",
	}
	if _, err := s.repo.UpdateUser(ctx, user.ID, update); err != nil {
		return fmt.Errorf("failed to update user verification status: %v", err)
	}
	return nil
}

// AuthenticateUser verifies credentials and maintains the lockout counter:
// repeated consecutive failures lock the account for a fixed window, and
// a successful login clears the counter.
func (s *UserService) AuthenticateUser(ctx context.Context, userEmail, password string) (*models.User, error) {
	logrus.WithField("email", userEmail).Info("Authenticating user")

	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	now := time.Now()
	if user.IsLocked(now) {
		logrus.WithField("userID", user.ID.Hex()).Warn("Login attempt on locked account")
		return nil, &ErrAccountLocked{Until: user.LockUntil}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		locked := user.RegisterFailedLogin(now, s.cfg.MaxLoginAttempts, s.cfg.LockoutDuration)
		if _, uerr := s.repo.UpdateUser(ctx, user.ID, map[string]interface{}{
			"failed_login_attempts": user.FailedLoginAttempts,
			"lock_until":            user.LockUntil,
		}); uerr != nil {
			logrus.WithError(uerr).Error("Failed to persist login attempt counter")
		}
		if locked {
			logrus.WithField("userID", user.ID.Hex()).Warn("Account locked after repeated failures")
			return nil, &ErrAccountLocked{Until: user.LockUntil}
		}
		return nil, fmt.Errorf("invalid credentials")
	}

	if !user.IsVerified {
		logrus.WithField("email", userEmail).Warn("Attempt to login with unverified email")
		return nil, fmt.Errorf("email not verified, please check your inbox")
	}

	if user.FailedLoginAttempts > 0 || !user.LockUntil.IsZero() {
		user.RegisterSuccessfulLogin()
		if _, uerr := s.repo.UpdateUser(ctx, user.ID, map[string]interface{}{
			"failed_login_attempts": 0,
			"lock_until":            time.Time{},
		}); uerr != nil {
			logrus.WithError(uerr).Error("Failed to reset login attempt counter")
		}
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, nil
}

// RequestPasswordReset issues a reset token valid for one hour.
func (s *UserService) RequestPasswordReset(ctx context.Context, userEmail string) error {
	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return fmt.Errorf("no account found with this email")
	}

	resetToken := uuid.NewString()
	update := map[string]interface{}{
		"reset_token":     resetToken,
		"reset_token_exp": time.Now().Add(1 * time.Hour),
	}
	if _, err := s.repo.UpdateUser(ctx, user.ID, update); err != nil {
		return fmt.Errorf("failed to save reset token")
	}

	resetLink := fmt.Sprintf("http://localhost:%s/api/auth/reset-password?token=%s", s.cfg.Port, resetToken)
	body := fmt.Sprintf("Click the link below to reset your password:\n\n%s", resetLink)
	if err := email.SendEmail(user.Email, "Reset Your Password", body); err != nil {
		return fmt.Errorf("failed to send password reset email: %v", err)
	}

	logrus.Infof("Password reset email sent to %s", userEmail)
	return nil
}

// ResetPassword sets a new password for the account matching the token.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.repo.GetUserByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid or expired reset token")
	}
	if time.Now().After(user.ResetTokenExp) {
		return fmt.Errorf("reset token has expired")
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	update := map[string]interface{}{
		"hashed_password":       string(hashedPwd),
		"reset_token":           "",
		"reset_token_exp":       time.Time{},
		"failed_login_attempts": 0,
		"lock_until":            time.Time{},
	}
	if _, err := s.repo.UpdateUser(ctx, user.ID, update); err != nil {
		return fmt.Errorf("failed to update password: %v", err)
	}
	return nil
}

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return user, nil
}

// UpdateUser applies a whitelisted partial update to a user.
func (s *UserService) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	update := map[string]interface{}{}
	if username, ok := fields["username"].(string); ok && username != "" {
		update["username"] = username
	}
	if len(update) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}

	user, err := s.repo.UpdateUser(ctx, objID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %v", err)
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User updated successfully")
	return user, nil
}

// UpdateNotificationSettings replaces the user's notification preferences.
func (s *UserService) UpdateNotificationSettings(ctx context.Context, id string, settings models.NotificationSettings) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	user, err := s.repo.UpdateUser(ctx, objID, map[string]interface{}{
		"notification_settings": settings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update notification settings: %v", err)
	}
	return user, nil
}

// DeleteUser deletes a user by their ID.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid user ID: %v", err)
	}

	if err := s.repo.DeleteUser(ctx, objID); err != nil {
		return err
	}

	logrus.WithField("userID", id).Info("User deleted successfully")
	return nil
}

// GetAllUsers returns every account. Admin only.
func (s *UserService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}
