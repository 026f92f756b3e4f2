package person

import (
	"context"

	domain "rollcall/internal/domain/person"
)

// Store persists Person state for a single cohort table.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Person, error)
	GetByContact(ctx context.Context, contact string) (domain.Person, error)
	Save(ctx context.Context, value domain.Person) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Person, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Active *bool // nil means no active filter
	Search string
	Sort   string
	Dir    string
}
