package attendance

import (
	"context"

	domain "rollcall/internal/domain/attendance"
)

// Store persists attendance ledger state.
type Store interface {
	GetByPersonDate(ctx context.Context, personID, date string) (domain.Record, error)
	Save(ctx context.Context, value domain.Record) error
	ListByDate(ctx context.Context, date string) ([]domain.Record, error)
	ListByPerson(ctx context.Context, personID string) ([]domain.Record, error)
	LatestForPerson(ctx context.Context, personID string) (domain.Record, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Record, error)
	CountByDate(ctx context.Context, date string) (total, present int, err error)
	DeleteByPerson(ctx context.Context, personID string) (int64, error)
}
