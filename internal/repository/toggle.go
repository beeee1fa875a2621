// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"socialfeed/internal/models"
	"socialfeed/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ToggleResult is the transition a Toggle applied.
type ToggleResult int

const (
	// Removed means the membership row existed and was deleted.
	Removed ToggleResult = iota
	// Added means the membership row was absent and was inserted.
	Added
)

func (r ToggleResult) String() string {
	if r == Added {
		return "added"
	}
	return "removed"
}

// maxToggleAttempts bounds retries when every attempt races with a concurrent toggle.
const maxToggleAttempts = 5

// Toggle flips membership of key in its set. key is a GORM model whose
// non-zero fields form a unique index; those fields are used both as the
// delete condition and as the inserted row.
//
// Each step is one conditional statement: a delete that reports whether the
// row existed, then an insert that does nothing on conflict. If both touch
// zero rows another request inserted in between, so the loop starts over.
func Toggle[T any](ctx context.Context, db *gorm.DB, kind string, key T) (ToggleResult, error) {
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		del := db.WithContext(ctx).Where(&key).Delete(new(T))
		if del.Error != nil {
			return Removed, del.Error
		}
		if del.RowsAffected > 0 {
			observability.ToggleTransitions.WithLabelValues(kind, Removed.String()).Inc()
			return Removed, nil
		}

		row := key
		ins := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if ins.Error != nil {
			return Removed, ins.Error
		}
		if ins.RowsAffected > 0 {
			observability.ToggleTransitions.WithLabelValues(kind, Added.String()).Inc()
			return Added, nil
		}

		observability.ToggleRetries.WithLabelValues(kind).Inc()
	}
	return Removed, models.NewConflictError("Too many concurrent updates, please retry")
}
