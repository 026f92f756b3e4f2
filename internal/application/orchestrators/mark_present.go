package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rollcall/internal/domain/attendance"
	"rollcall/internal/domain/identity"
	"rollcall/internal/domain/person"

	"github.com/google/uuid"
)

// AttendanceMarkStore defines the attendance store interface for marking.
type AttendanceMarkStore interface {
	GetByPersonDate(ctx context.Context, personID, date string) (attendance.Record, error)
	Save(ctx context.Context, r attendance.Record) error
}

// PersonLookupStore defines the person store interface needed to verify a
// person exists.
type PersonLookupStore interface {
	GetByID(ctx context.Context, id string) (person.Person, error)
}

// MarkPresentInput carries input for the mark-present orchestrator.
type MarkPresentInput struct {
	PersonID string
	Date     string // YYYY-MM-DD
	Caller   identity.Identity
}

// MarkPresentDeps holds dependencies for MarkPresent and UnmarkPresent.
type MarkPresentDeps struct {
	MemberStore     PersonLookupStore
	KidStore        PersonLookupStore
	AttendanceStore AttendanceMarkStore
	Now             func() time.Time // injectable for testing
}

// findPerson resolves a person id against both cohort tables.
func findPerson(ctx context.Context, deps MarkPresentDeps, id string) (person.Person, error) {
	if p, err := deps.MemberStore.GetByID(ctx, id); err == nil {
		return p, nil
	} else if !errors.Is(err, person.ErrNotFound) {
		return person.Person{}, err
	}
	return deps.KidStore.GetByID(ctx, id)
}

// ExecuteMarkPresent upserts the (person, date) cell to present.
// PRE: Caller is a resolved identity; PersonID refers to an existing person
// POST: Exactly one record exists for the cell with Present=true; returns its ID
// INVARIANT: Marking an already-present cell only refreshes MarkedBy
func ExecuteMarkPresent(ctx context.Context, input MarkPresentInput, deps MarkPresentDeps) (string, error) {
	if !input.Caller.Resolved() {
		return "", identity.ErrUnauthorized
	}
	if err := attendance.ValidateDate(input.Date); err != nil {
		return "", err
	}
	if input.PersonID == "" {
		return "", person.ErrNotFound
	}

	if _, err := findPerson(ctx, deps, input.PersonID); err != nil {
		return "", err
	}

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	rec, err := deps.AttendanceStore.GetByPersonDate(ctx, input.PersonID, input.Date)
	switch {
	case err == nil:
		rec.Present = true
		rec.MarkedBy = input.Caller.Subject
	case errors.Is(err, attendance.ErrNotFound):
		rec = attendance.Record{
			ID:        uuid.New().String(),
			PersonID:  input.PersonID,
			Date:      input.Date,
			Present:   true,
			MarkedBy:  input.Caller.Subject,
			CreatedAt: now().UTC(),
		}
	default:
		return "", err
	}

	if err := rec.Validate(); err != nil {
		return "", err
	}
	if err := deps.AttendanceStore.Save(ctx, rec); err != nil {
		return "", err
	}

	slog.Info("attendance_event", "event", "marked_present", "person_id", input.PersonID, "date", input.Date, "marked_by", input.Caller.Subject)
	return rec.ID, nil
}

// UnmarkPresentInput carries input for the unmark orchestrator.
type UnmarkPresentInput struct {
	PersonID string
	Date     string
	Caller   identity.Identity
}

// ExecuteUnmarkPresent patches an existing (person, date) record to absent.
// When no record exists this is a no-op returning an empty ID: absence by
// omission is already absence, so no record is fabricated.
// PRE: Caller is a resolved identity
// POST: Any existing record for the cell has Present=false
func ExecuteUnmarkPresent(ctx context.Context, input UnmarkPresentInput, deps MarkPresentDeps) (string, error) {
	if !input.Caller.Resolved() {
		return "", identity.ErrUnauthorized
	}
	if err := attendance.ValidateDate(input.Date); err != nil {
		return "", err
	}

	rec, err := deps.AttendanceStore.GetByPersonDate(ctx, input.PersonID, input.Date)
	if errors.Is(err, attendance.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	rec.Present = false
	rec.MarkedBy = input.Caller.Subject
	if err := deps.AttendanceStore.Save(ctx, rec); err != nil {
		return "", err
	}

	slog.Info("attendance_event", "event", "unmarked_present", "person_id", input.PersonID, "date", input.Date, "marked_by", input.Caller.Subject)
	return rec.ID, nil
}
