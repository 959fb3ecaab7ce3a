package notification

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/shared"
)

// Type classifies a notification
type Type string

const (
	TypeLowStock   Type = "low_stock"
	TypePaymentDue Type = "payment_due"
	TypeSystem     Type = "system"
)

// IsValid checks if the type is known
func (t Type) IsValid() bool {
	return t == TypeLowStock || t == TypePaymentDue || t == TypeSystem
}

// ProductsLink is the front-end route low-stock notifications point to
const ProductsLink = "/products"

// DefaultListLimit caps the notification list
const DefaultListLimit = 50

// Notification is an in-app message for the users of a company
type Notification struct {
	shared.BaseEntity
	TenantID uuid.UUID
	Title    string
	Message  string
	Type     Type
	IsRead   bool
	Link     string
}

// New creates an unread notification
func New(tenantID uuid.UUID, title, message string, typ Type, link string) (*Notification, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if typ == "" {
		typ = TypeSystem
	}
	if !typ.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown notification type: "+string(typ))
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Title:      title,
		Message:    message,
		Type:       typ,
		Link:       link,
	}, nil
}

// MarkRead flags the notification as read
func (n *Notification) MarkRead() {
	if n.IsRead {
		return
	}
	n.IsRead = true
	n.UpdatedAt = time.Now()
}

// Repository defines the interface for notification persistence
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Notification, error)
	// FindRecent returns the newest notifications first
	FindRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]Notification, error)
	Save(ctx context.Context, n *Notification) error
	MarkAllRead(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
