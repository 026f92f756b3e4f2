package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"rollcall/internal/domain/identity"
	"rollcall/internal/domain/person"
)

// PersonDeleteStore defines the person store interface for cascade removal.
type PersonDeleteStore interface {
	PersonLookupStore
	Delete(ctx context.Context, id string) error
}

// AttendanceDeleteStore defines the attendance store interface for cascade
// removal.
type AttendanceDeleteStore interface {
	DeleteByPerson(ctx context.Context, personID string) (int64, error)
}

// RemovePersonInput carries input for the cascade delete orchestrator.
type RemovePersonInput struct {
	Cohort   string
	PersonID string
	Caller   identity.Identity
}

// RemovePersonDeps holds dependencies for RemovePerson.
type RemovePersonDeps struct {
	MemberStore     PersonDeleteStore
	KidStore        PersonDeleteStore
	AttendanceStore AttendanceDeleteStore
}

// ExecuteRemovePerson permanently deletes a person and their entire
// attendance history. Restricted to admins.
// PRE: Caller resolves to the admin role
// POST: Neither the person nor any of their attendance records remain
func ExecuteRemovePerson(ctx context.Context, input RemovePersonInput, deps RemovePersonDeps) (int64, error) {
	if !input.Caller.Resolved() {
		return 0, identity.ErrUnauthorized
	}
	if !input.Caller.IsAdmin() {
		role := input.Caller.Role()
		if role == "" {
			role = "undefined"
		}
		return 0, fmt.Errorf("role %q may not delete records: %w", role, identity.ErrForbidden)
	}

	var store PersonDeleteStore = deps.MemberStore
	if input.Cohort == person.CohortKid {
		store = deps.KidStore
	}

	p, err := store.GetByID(ctx, input.PersonID)
	if err != nil {
		return 0, err
	}

	removed, err := deps.AttendanceStore.DeleteByPerson(ctx, p.ID)
	if err != nil {
		return 0, err
	}
	if err := store.Delete(ctx, p.ID); err != nil {
		return 0, err
	}

	slog.Info("person_event", "event", "removed", "person_id", p.ID, "cohort", input.Cohort, "attendance_removed", removed, "removed_by", input.Caller.Subject)
	return removed, nil
}
