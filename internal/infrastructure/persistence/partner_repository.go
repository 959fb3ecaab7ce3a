package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/partner"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormClientRepository implements partner.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ClientModel{}).Where("company_id = ?", tenantID)
}

// FindByIDForTenant finds a client by ID within a tenant
func (r *GormClientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Client, error) {
	var m models.ClientModel
	if err := r.scoped(ctx, tenantID).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists clients. Search matches name, phone, email and sector.
func (r *GormClientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Client, error) {
	var rows []models.ClientModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, partnerSortFields, "created_at")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	clients := make([]partner.Client, len(rows))
	for i := range rows {
		clients[i] = *rows[i].ToDomain()
	}
	return clients, nil
}

// CountForTenant counts clients matching the filter
func (r *GormClientRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByPhone reports whether a client other than excludeID uses the phone
func (r *GormClientRepository) ExistsByPhone(ctx context.Context, tenantID uuid.UUID, phone string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.scoped(ctx, tenantID).Where("phone = ?", phone)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a client. Updating a client changed since it
// was loaded fails with shared.ErrConcurrencyConflict.
func (r *GormClientRepository) Save(ctx context.Context, client *partner.Client) error {
	m := models.ClientModelFromDomain(client)
	return saveVersioned(ctx, r.db, m, m.ID, client, nil)
}

// DeleteForTenant deletes a client
func (r *GormClientRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Where("company_id = ? AND id = ?", tenantID, id).Delete(&models.ClientModel{}))
}

func (r *GormClientRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "name", "phone", "email", "sector")
	for key, value := range filter.Filters {
		switch key {
		case partner.FilterIsActive:
			query = query.Where("is_active = ?", value)
		case partner.FilterSector:
			query = query.Where("sector = ?", value)
		}
	}
	return query
}

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

func (r *GormSupplierRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.SupplierModel{}).Where("company_id = ?", tenantID)
}

// FindByIDForTenant finds a supplier by ID within a tenant
func (r *GormSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	var m models.SupplierModel
	if err := r.scoped(ctx, tenantID).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindByIDs finds multiple suppliers by their IDs
func (r *GormSupplierRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]partner.Supplier, error) {
	if len(ids) == 0 {
		return []partner.Supplier{}, nil
	}
	return r.find(r.scoped(ctx, tenantID).Where("id IN ?", ids))
}

// FindAllForTenant lists suppliers. Search matches name, phone and email.
func (r *GormSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, error) {
	query := searchAny(r.scoped(ctx, tenantID), filter.Search, "name", "phone", "email")
	return r.find(paginate(query, filter, partnerSortFields, "created_at"))
}

// CountForTenant counts suppliers matching the filter
func (r *GormSupplierRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := searchAny(r.scoped(ctx, tenantID), filter.Search, "name", "phone", "email").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByPhone reports whether a supplier other than excludeID uses the phone
func (r *GormSupplierRepository) ExistsByPhone(ctx context.Context, tenantID uuid.UUID, phone string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.scoped(ctx, tenantID).Where("phone = ?", phone)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a supplier with its catalogue
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	m := models.SupplierModelFromDomain(supplier)
	return saveVersioned(ctx, r.db, m, m.ID, supplier, nil)
}

// DeleteForTenant deletes a supplier and unlinks it from products
func (r *GormSupplierRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleted(tx.Where("company_id = ? AND id = ?", tenantID, id).Delete(&models.SupplierModel{})); err != nil {
			return err
		}
		return tx.Where("supplier_id = ?", id).Delete(&models.ProductSupplierModel{}).Error
	})
}

func (r *GormSupplierRepository) find(query *gorm.DB) ([]partner.Supplier, error) {
	var rows []models.SupplierModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	suppliers := make([]partner.Supplier, len(rows))
	for i := range rows {
		suppliers[i] = *rows[i].ToDomain()
	}
	return suppliers, nil
}

var (
	_ partner.ClientRepository   = (*GormClientRepository)(nil)
	_ partner.SupplierRepository = (*GormSupplierRepository)(nil)
)
