package projections

import (
	"context"

	personStore "rollcall/internal/adapters/storage/person"
	domainAttendance "rollcall/internal/domain/attendance"
	domainPerson "rollcall/internal/domain/person"
)

// PersonStore interface for person queries.
type PersonStore interface {
	GetByID(ctx context.Context, id string) (domainPerson.Person, error)
	List(ctx context.Context, filter personStore.ListFilter) ([]domainPerson.Person, error)
	Count(ctx context.Context, filter personStore.ListFilter) (int, error)
}

// AttendanceStore interface for attendance queries.
type AttendanceStore interface {
	ListByDate(ctx context.Context, date string) ([]domainAttendance.Record, error)
	ListByPerson(ctx context.Context, personID string) ([]domainAttendance.Record, error)
	LatestForPerson(ctx context.Context, personID string) (domainAttendance.Record, error)
	ListRecent(ctx context.Context, limit int) ([]domainAttendance.Record, error)
	CountByDate(ctx context.Context, date string) (total, present int, err error)
}
