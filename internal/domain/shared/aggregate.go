package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity holds identity and timestamps. Append-only records such as
// stock movements and notifications embed it directly.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity stamps a fresh identity
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// BaseAggregateRoot is a versioned entity that buffers domain events until
// the application layer publishes them after a successful save.
//
// Repositories write an aggregate only while the stored row still holds the
// version the aggregate was read at, so a stale copy cannot overwrite a newer
// one.
type BaseAggregateRoot struct {
	BaseEntity
	Version int

	stored  int // version last read or written; 0 until first saved
	pending []DomainEvent
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// RestoreAggregateRoot rebuilds the root of an aggregate read from storage
func RestoreAggregateRoot(entity BaseEntity, version int) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: entity, Version: version, stored: version}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// StoredVersion is the version the row held when the aggregate was loaded or
// last saved. Zero means the aggregate was never stored.
func (a *BaseAggregateRoot) StoredVersion() int { return a.stored }

// MarkStored records a successful write at version
func (a *BaseAggregateRoot) MarkStored(version int) {
	a.Version = version
	a.stored = version
}

// IncrementVersion records a mutation and refreshes UpdatedAt
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
	a.UpdatedAt = time.Now()
}

func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.pending }

func (a *BaseAggregateRoot) ClearDomainEvents() { a.pending = nil }

// TenantAggregateRoot is an aggregate owned by one company. TenantID is the
// company id; CreatedBy is the user who created the record, when known.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID  uuid.UUID
	CreatedBy *uuid.UUID
}

func NewTenantAggregateRoot(companyID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{BaseAggregateRoot: NewBaseAggregateRoot(), TenantID: companyID}
}

// SetCreatedBy records the author. uuid.Nil clears it.
func (t *TenantAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	if userID == uuid.Nil {
		t.CreatedBy = nil
		return
	}
	t.CreatedBy = &userID
}

func (t *TenantAggregateRoot) GetCreatedBy() *uuid.UUID { return t.CreatedBy }
