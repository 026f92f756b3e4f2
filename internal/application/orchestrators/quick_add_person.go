package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"rollcall/internal/domain/identity"
	"rollcall/internal/domain/person"

	"github.com/google/uuid"
)

// PersonWriteStore defines the person store interface used by the add and
// update orchestrators.
type PersonWriteStore interface {
	GetByID(ctx context.Context, id string) (person.Person, error)
	GetByContact(ctx context.Context, contact string) (person.Person, error)
	Save(ctx context.Context, p person.Person) error
}

// QuickAddPersonInput carries input for the quick-add orchestrator. All
// optional fields are placeholder-normalized before storage.
type QuickAddPersonInput struct {
	Cohort     string
	Name       string
	Contact    string
	Residence  string
	Gender     string
	Department string
	Status     string
	Caller     identity.Identity
}

// QuickAddPersonDeps holds dependencies for person mutations.
type QuickAddPersonDeps struct {
	MemberStore PersonWriteStore
	KidStore    PersonWriteStore
}

func (d QuickAddPersonDeps) storeFor(cohort string) PersonWriteStore {
	if cohort == person.CohortKid {
		return d.KidStore
	}
	return d.MemberStore
}

// ExecuteQuickAddPerson inserts a person from minimal roll-call data.
// Placeholder contact values ("", "-", "n/a") are stored as absent rather
// than colliding with each other under the uniqueness rule.
// POST: New active person exists; duplicate real contact rejected
func ExecuteQuickAddPerson(ctx context.Context, input QuickAddPersonInput, deps QuickAddPersonDeps) (string, error) {
	if !input.Caller.Resolved() {
		return "", identity.ErrUnauthorized
	}

	p := person.Person{
		ID:        uuid.New().String(),
		Cohort:    input.Cohort,
		Name:      strings.TrimSpace(input.Name),
		Contact:   person.NormalizeOptional(input.Contact),
		Residence: person.NormalizeOptional(input.Residence),
		Active:    true,
		CreatedBy: input.Caller.Subject,
	}
	if !p.IsKid() {
		p.Gender = person.NormalizeGender(person.NormalizeOptional(input.Gender))
		p.Department = person.NormalizeOptional(input.Department)
		p.Status = person.NormalizeOptional(input.Status)
		if p.Gender == nil {
			p.Gender = person.InferGender(p.Name, p.Department, p.Status)
		}
	}
	if err := p.Validate(); err != nil {
		return "", err
	}

	store := deps.storeFor(p.Cohort)
	if p.Contact != nil {
		_, err := store.GetByContact(ctx, *p.Contact)
		if err == nil {
			return "", fmt.Errorf("contact %q: %w", *p.Contact, person.ErrDuplicateContact)
		}
		if !errors.Is(err, person.ErrNotFound) {
			return "", err
		}
	}

	if err := store.Save(ctx, p); err != nil {
		return "", err
	}

	slog.Info("person_event", "event", "quick_added", "person_id", p.ID, "cohort", p.Cohort, "created_by", input.Caller.Subject)
	return p.ID, nil
}

// AddPersonInput carries input for the full add orchestrator. Contact and
// residence are required here, unlike quick-add.
type AddPersonInput struct {
	Cohort     string
	Name       string
	Contact    string
	Residence  string
	Gender     string
	Department string
	Status     string
	Active     *bool
	Caller     identity.Identity
}

// ExecuteAddPerson inserts a fully specified person.
// POST: Person exists with the given contact; duplicate contact rejected
func ExecuteAddPerson(ctx context.Context, input AddPersonInput, deps QuickAddPersonDeps) (string, error) {
	if !input.Caller.Resolved() {
		return "", identity.ErrUnauthorized
	}

	contact := strings.TrimSpace(input.Contact)
	residence := strings.TrimSpace(input.Residence)
	if contact == "" {
		return "", fmt.Errorf("%w: contact is required", person.ErrInvalid)
	}
	if residence == "" {
		return "", fmt.Errorf("%w: residence is required", person.ErrInvalid)
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	p := person.Person{
		ID:        uuid.New().String(),
		Cohort:    input.Cohort,
		Name:      strings.TrimSpace(input.Name),
		Contact:   &contact,
		Residence: &residence,
		Active:    active,
		CreatedBy: input.Caller.Subject,
	}
	if !p.IsKid() {
		p.Gender = person.NormalizeGender(person.NormalizeOptional(input.Gender))
		p.Department = person.NormalizeOptional(input.Department)
		p.Status = person.NormalizeOptional(input.Status)
		if p.Gender == nil {
			p.Gender = person.InferGender(p.Name, p.Department, p.Status)
		}
	}
	if err := p.Validate(); err != nil {
		return "", err
	}

	store := deps.storeFor(p.Cohort)
	_, err := store.GetByContact(ctx, contact)
	if err == nil {
		return "", fmt.Errorf("contact %q: %w", contact, person.ErrDuplicateContact)
	}
	if !errors.Is(err, person.ErrNotFound) {
		return "", err
	}

	if err := store.Save(ctx, p); err != nil {
		return "", err
	}

	slog.Info("person_event", "event", "added", "person_id", p.ID, "cohort", p.Cohort, "created_by", input.Caller.Subject)
	return p.ID, nil
}
