package services

import (
	"context"
	"fmt"
	"time"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/internal/repository"
	"github.com/firstmoments/first-moments-api/pkg/httputil"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrCategoryDisabled is returned when the recipient has switched the
// notification category off in their settings.
var ErrCategoryDisabled = fmt.Errorf("recipient has disabled this notification category")

// NotificationService encapsulates the in-app inbox logic.
type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository) *NotificationService {
	return &NotificationService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// CreateNotification validates and stores a notification. The recipient
// must exist, must not be the sender, and must not have disabled the
// category.
func (s *NotificationService) CreateNotification(ctx context.Context, notif *models.Notification) (*models.Notification, error) {
	if err := notif.Validate(time.Now()); err != nil {
		return nil, err
	}

	recipient, err := s.userRepo.GetUserByID(ctx, notif.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("recipient not found")
	}

	if !recipient.Settings.CategoryEnabled(notif.Category) {
		logrus.WithFields(logrus.Fields{
			"recipientID": notif.RecipientID.Hex(),
			"category":    notif.Category,
		}).Info("Notification suppressed by recipient settings")
		return nil, ErrCategoryDisabled
	}

	notif.Delivered = true
	return s.repo.CreateNotification(ctx, notif)
}

// Notify is the internal helper other flows use to push a system-origin
// notification. Suppressed categories are not an error here.
func (s *NotificationService) Notify(ctx context.Context, recipientID primitive.ObjectID, notifType, category, title, message string, data map[string]interface{}) {
	notif := &models.Notification{
		RecipientID: recipientID,
		Type:        notifType,
		Category:    category,
		Priority:    models.NotificationPriorityNormal,
		Title:       title,
		Message:     message,
		Data:        data,
	}
	if _, err := s.CreateNotification(ctx, notif); err != nil && err != ErrCategoryDisabled {
		logrus.WithError(err).Warnf("Failed to notify user %s", recipientID.Hex())
	}
}

// ListNotifications returns one page of the recipient's inbox plus the
// unread count. Expired notifications are never returned.
func (s *NotificationService) ListNotifications(ctx context.Context, f repository.NotificationFilter, page httputil.Pagination) ([]models.Notification, int64, int64, error) {
	notifications, total, err := s.repo.GetNotifications(ctx, f, page)
	if err != nil {
		return nil, 0, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, f.RecipientID)
	if err != nil {
		return nil, 0, 0, err
	}
	return notifications, total, unread, nil
}

// MarkAsRead flags a notification as read. Idempotent: marking an
// already-read notification succeeds without a write.
func (s *NotificationService) MarkAsRead(ctx context.Context, id string, recipientID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid notification ID: %v", err)
	}

	notif, err := s.repo.GetNotificationByID(ctx, objID)
	if err != nil {
		return fmt.Errorf("notification not found")
	}
	if notif.RecipientID != recipientID {
		return fmt.Errorf("you can only read your own notifications")
	}

	if notif.Read {
		return nil
	}
	return s.repo.MarkAsRead(ctx, objID)
}

// MarkAllAsRead flags the recipient's whole inbox as read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, recipientID)
}

// DeleteNotification removes one notification, recipient only.
func (s *NotificationService) DeleteNotification(ctx context.Context, id string, recipientID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid notification ID: %v", err)
	}

	notif, err := s.repo.GetNotificationByID(ctx, objID)
	if err != nil {
		return fmt.Errorf("notification not found")
	}
	if notif.RecipientID != recipientID {
		return fmt.Errorf("you can only delete your own notifications")
	}

	return s.repo.DeleteNotification(ctx, objID)
}

// ClearAll empties the recipient's inbox.
func (s *NotificationService) ClearAll(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	return s.repo.DeleteAllForRecipient(ctx, recipientID)
}

// PurgeExpired deletes notifications past their expiry. Called by cron;
// reads exclude expired documents either way.
func (s *NotificationService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredNotifications(ctx)
}
