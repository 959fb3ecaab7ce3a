package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/shared"
)

// FilterIsActive filters companies by active flag
const FilterIsActive = "is_active"

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByEmail looks up a user by lowercased email across all companies
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
	CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Company, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, company *Company) error
}
