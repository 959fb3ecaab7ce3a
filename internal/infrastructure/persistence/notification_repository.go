package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/notification"
	"github.com/tunerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.NotificationModel{}).Where("company_id = ?", tenantID)
}

func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(models.NotificationModelFromDomain(n)).Error
}

func (r *GormNotificationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*notification.Notification, error) {
	var m models.NotificationModel
	if err := r.scoped(ctx, tenantID).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

func (r *GormNotificationRepository) FindRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]notification.Notification, error) {
	if limit <= 0 {
		limit = notification.DefaultListLimit
	}
	var rows []models.NotificationModel
	if err := r.scoped(ctx, tenantID).Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]notification.Notification, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(models.NotificationModelFromDomain(n)).Error
}

// MarkAllRead flags every unread notification as read and returns how many changed
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	result := r.scoped(ctx, tenantID).Where("is_read = ?", false).Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *GormNotificationRepository) CountUnread(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.scoped(ctx, tenantID).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

var _ notification.Repository = (*GormNotificationRepository)(nil)
