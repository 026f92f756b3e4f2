package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"rollcall/internal/domain/identity"
	"rollcall/internal/domain/person"
)

// UpdatePersonInput carries a partial patch. Nil fields are left untouched;
// a set field replaces the stored value. Fields cannot be cleared back to
// absent through this operation.
type UpdatePersonInput struct {
	Cohort     string
	PersonID   string
	Name       *string
	Contact    *string
	Residence  *string
	Gender     *string
	Department *string
	Status     *string
	Active     *bool
	Caller     identity.Identity
}

// ExecuteUpdatePerson applies a partial patch to an existing person.
// PRE: PersonID exists in the cohort's table
// POST: Only supplied fields changed; a changed contact stays unique
func ExecuteUpdatePerson(ctx context.Context, input UpdatePersonInput, deps QuickAddPersonDeps) error {
	if !input.Caller.Resolved() {
		return identity.ErrUnauthorized
	}

	store := deps.storeFor(input.Cohort)
	p, err := store.GetByID(ctx, input.PersonID)
	if err != nil {
		return err
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		p.Name = strings.TrimSpace(*input.Name)
	}
	if input.Contact != nil {
		next := strings.TrimSpace(*input.Contact)
		if next != "" && (p.Contact == nil || next != *p.Contact) {
			other, err := store.GetByContact(ctx, next)
			if err == nil && other.ID != p.ID {
				return fmt.Errorf("contact %q: %w", next, person.ErrDuplicateContact)
			}
			if err != nil && !errors.Is(err, person.ErrNotFound) {
				return err
			}
			p.Contact = &next
		}
	}
	if input.Residence != nil {
		if v := person.NormalizeOptional(*input.Residence); v != nil {
			p.Residence = v
		}
	}
	if !p.IsKid() {
		if input.Gender != nil {
			if v := person.NormalizeGender(person.NormalizeOptional(*input.Gender)); v != nil {
				p.Gender = v
			}
		}
		if input.Department != nil {
			if v := person.NormalizeOptional(*input.Department); v != nil {
				p.Department = v
			}
		}
		if input.Status != nil {
			if v := person.NormalizeOptional(*input.Status); v != nil {
				p.Status = v
			}
		}
	}
	if input.Active != nil {
		p.Active = *input.Active
	}

	if err := p.Validate(); err != nil {
		return err
	}
	if err := store.Save(ctx, p); err != nil {
		return err
	}

	slog.Info("person_event", "event", "updated", "person_id", p.ID, "cohort", p.Cohort, "updated_by", input.Caller.Subject)
	return nil
}
