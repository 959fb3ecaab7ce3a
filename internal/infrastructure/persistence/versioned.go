package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// versionedAggregate is the version bookkeeping every aggregate root carries
type versionedAggregate interface {
	GetVersion() int
	StoredVersion() int
	MarkStored(version int)
}

// versionedModel is a row holding an aggregate version
type versionedModel interface {
	SetVersion(version int)
}

// writeVersioned inserts an aggregate that was never stored, or updates the
// row only while it still holds the version the aggregate was read at. The
// written version is always above the stored one, so of two copies loaded
// at the same version only the first save wins. It returns the version
// written.
func writeVersioned(tx *gorm.DB, m versionedModel, id uuid.UUID, agg versionedAggregate) (int, error) {
	stored := agg.StoredVersion()
	if stored == 0 {
		return agg.GetVersion(), tx.Omit(clause.Associations).Create(m).Error
	}

	next := max(agg.GetVersion(), stored+1)
	m.SetVersion(next)
	result := tx.Model(m).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Where("id = ? AND version = ?", id, stored).
		Updates(m)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, shared.ErrConcurrencyConflict
	}
	return next, nil
}

// saveVersioned writes the aggregate row then, in the same transaction, its
// child rows. The aggregate is marked stored once the transaction commits.
func saveVersioned(ctx context.Context, db *gorm.DB, m versionedModel, id uuid.UUID, agg versionedAggregate, children func(tx *gorm.DB) error) error {
	var version int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if version, err = writeVersioned(tx, m, id, agg); err != nil {
			return err
		}
		if children == nil {
			return nil
		}
		return children(tx)
	})
	if err != nil {
		return err
	}
	agg.MarkStored(version)
	return nil
}
