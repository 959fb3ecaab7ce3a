package models

import (
	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for in-app notifications.
type NotificationModel struct {
	BaseModel
	TenantID uuid.UUID         `gorm:"column:company_id;type:uuid;not null;index"`
	Title    string            `gorm:"type:varchar(200);not null"`
	Message  string            `gorm:"type:text"`
	Type     notification.Type `gorm:"type:varchar(20);not null"`
	IsRead   bool              `gorm:"not null;default:false;index"`
	Link     string            `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification.
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity: m.entity(),
		TenantID:   m.TenantID,
		Title:      m.Title,
		Message:    m.Message,
		Type:       m.Type,
		IsRead:     m.IsRead,
		Link:       m.Link,
	}
}

// NotificationModelFromDomain creates a persistence model from a domain Notification.
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{
		TenantID: n.TenantID,
		Title:    n.Title,
		Message:  n.Message,
		Type:     n.Type,
		IsRead:   n.IsRead,
		Link:     n.Link,
	}
	m.fromEntity(n.BaseEntity)
	return m
}
