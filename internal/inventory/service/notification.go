package service

import (
	"context"

	"github.com/stocker/stocker-backend/internal/inventory/repository"
	"github.com/stocker/stocker-backend/pkg/logger"
)

// NotificationService handles in-app notification reads
type NotificationService struct {
	repo   *repository.NotificationRepository
	logger *logger.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo *repository.NotificationRepository, log *logger.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: log}
}

// List lists a user's notifications newest-first
func (s *NotificationService) List(ctx context.Context, userID string, page, perPage int) ([]*repository.Notification, int64, error) {
	return s.repo.ListByUser(ctx, userID, page, perPage)
}

// UnreadCount returns the user's unread notification count
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// MarkAllRead marks all of the user's notifications as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
