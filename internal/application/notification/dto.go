package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/notification"
)

// CreateNotificationRequest represents a request to post a notification
type CreateNotificationRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Message string `json:"message" binding:"max=1000"`
	Type    string `json:"type" binding:"omitempty,oneof=low_stock payment_due system"`
	Link    string `json:"link" binding:"max=200"`
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UnreadCountResponse wraps the unread counter
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// ToNotificationResponse converts a domain notification to a response DTO
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		IsRead:    n.IsRead,
		Link:      n.Link,
		CreatedAt: n.CreatedAt,
	}
}
