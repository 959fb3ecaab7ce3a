package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/notification"
)

// Service handles the in-app notification inbox of a company
type Service struct {
	repo notification.Repository
}

// NewService creates a new notification Service
func NewService(repo notification.Repository) *Service {
	return &Service{repo: repo}
}

// Create adds an unread notification
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req CreateNotificationRequest) (*NotificationResponse, error) {
	n, err := notification.New(tenantID, req.Title, req.Message, notification.Type(req.Type), req.Link)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// List returns the newest notifications
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]NotificationResponse, error) {
	items, err := s.repo.FindRecent(ctx, tenantID, notification.DefaultListLimit)
	if err != nil {
		return nil, err
	}
	responses := make([]NotificationResponse, len(items))
	for i := range items {
		responses[i] = ToNotificationResponse(&items[i])
	}
	return responses, nil
}

// MarkRead flags one notification as read
func (s *Service) MarkRead(ctx context.Context, tenantID, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !n.IsRead {
		n.MarkRead()
		if err := s.repo.Save(ctx, n); err != nil {
			return nil, err
		}
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// MarkAllRead flags every unread notification as read and returns how many changed
func (s *Service) MarkAllRead(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, tenantID)
}

// UnreadCount counts unread notifications
func (s *Service) UnreadCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, tenantID)
}
