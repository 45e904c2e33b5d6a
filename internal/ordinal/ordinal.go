package ordinal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"arka.dev/learnhub/pkg/apperror"
)

// Source answers order questions for one child collection (lessons within a
// course, topics within a lesson).
type Source interface {
	// MaxOrder returns the highest order in the scope, 0 when it is empty.
	MaxOrder(ctx context.Context, scopeID uuid.UUID) (int, error)
	// OrderExists reports whether another child in the scope already holds the
	// order; excludeID skips the entity being updated.
	OrderExists(ctx context.Context, scopeID uuid.UUID, order int, excludeID uuid.UUID) (bool, error)
}

// Allocator assigns and validates per-scope order values. Uniqueness is
// checked explicitly here before any write; the store's composite unique
// index only backs up the concurrent-create race.
type Allocator struct {
	source Source
	label  string
}

func NewAllocator(source Source, label string) *Allocator {
	return &Allocator{source: source, label: label}
}

// Next returns 1 for an empty scope, max+1 otherwise.
func (a *Allocator) Next(ctx context.Context, scopeID uuid.UUID) (int, error) {
	max, err := a.source.MaxOrder(ctx, scopeID)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Validate rejects non-positive orders and duplicates within the scope.
func (a *Allocator) Validate(ctx context.Context, scopeID uuid.UUID, order int, excludeID uuid.UUID) error {
	if order <= 0 {
		return apperror.Invalid(fmt.Sprintf("%s order must be a positive integer", a.label))
	}
	taken, err := a.source.OrderExists(ctx, scopeID, order, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Conflict(fmt.Sprintf("%s order %d is already taken", a.label, order))
	}
	return nil
}

// Resolve picks the order for a create or update: a requested value is
// validated and used as-is, zero means auto-assign the next free order.
func (a *Allocator) Resolve(ctx context.Context, scopeID uuid.UUID, requested int, excludeID uuid.UUID) (int, error) {
	if requested == 0 {
		return a.Next(ctx, scopeID)
	}
	if err := a.Validate(ctx, scopeID, requested, excludeID); err != nil {
		return 0, err
	}
	return requested, nil
}
