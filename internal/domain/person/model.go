package person

import (
	"errors"
	"fmt"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Business rule constants
const (
	CohortMember = "member"
	CohortKid    = "kid"
	GenderMale   = "male"
	GenderFemale = "female"
)

// Domain errors
var (
	ErrNotFound         = errors.New("person not found")
	ErrDuplicateContact = errors.New("person with this contact already exists")
	ErrInvalid          = errors.New("invalid person")
)

// Person holds state for the concept. A person belongs to exactly one
// cohort: adult members or kids. Gender, Department and Status apply to
// the member cohort only and stay nil for kids.
type Person struct {
	ID         string
	Cohort     string
	Name       string
	Contact    *string
	Residence  *string
	Gender     *string
	Department *string
	Status     *string
	Active     bool
	CreatedBy  string
}

// Validate checks if the Person has valid data.
// PRE: Person struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name must not be empty, Cohort must be a known cohort
func (p *Person) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalid)
	}
	if len(p.Name) > MaxNameLength {
		return fmt.Errorf("%w: name cannot exceed 100 characters", ErrInvalid)
	}
	if p.Cohort != CohortMember && p.Cohort != CohortKid {
		return fmt.Errorf("%w: cohort must be 'member' or 'kid'", ErrInvalid)
	}
	if p.Gender != nil && *p.Gender != GenderMale && *p.Gender != GenderFemale {
		return fmt.Errorf("%w: gender must be 'male' or 'female' when set", ErrInvalid)
	}
	if p.Cohort == CohortKid && (p.Gender != nil || p.Department != nil || p.Status != nil) {
		return fmt.Errorf("%w: kids carry no gender, department or status", ErrInvalid)
	}
	return nil
}

// IsKid returns true if the person belongs to the kids cohort.
// INVARIANT: Cohort field is not mutated
func (p *Person) IsKid() bool {
	return p.Cohort == CohortKid
}

// NormalizeOptional maps blank and placeholder strings to nil.
// "", "-" and "n/a" (any case) all mean "not provided" in the
// quick-add form and the CSV importers.
// PRE: none
// POST: Returns nil for placeholders, otherwise the trimmed value
func NormalizeOptional(s string) *string {
	t := strings.TrimSpace(s)
	if t == "" || t == "-" || strings.EqualFold(t, "n/a") {
		return nil
	}
	return &t
}

// NormalizeGender maps a free-text gender value onto the known constants
// by first-letter matching. Anything that is not m... or f... is unknown.
// PRE: none
// POST: Returns "male", "female" or nil
func NormalizeGender(val *string) *string {
	if val == nil {
		return nil
	}
	g := strings.ToLower(strings.TrimSpace(*val))
	if g == "" {
		return nil
	}
	switch {
	case strings.HasPrefix(g, "m"):
		v := GenderMale
		return &v
	case strings.HasPrefix(g, "f"):
		v := GenderFemale
		return &v
	}
	return nil
}

// InferGender guesses a member's gender from the name honorific, then the
// department text, then the status text. This is a best-effort heuristic
// for bulk imports where no gender column is supplied; it is not
// authoritative and unknown stays unknown.
// PRE: name is the raw (trimmed) name field
// POST: Returns "male", "female" or nil
func InferGender(name string, department, status *string) *string {
	male := GenderMale
	female := GenderFemale

	n := strings.ToLower(name)
	if strings.HasPrefix(n, "mr ") {
		return &male
	}
	if strings.HasPrefix(n, "mrs") || strings.HasPrefix(n, "ms") || strings.HasPrefix(n, "miss") {
		return &female
	}

	d := ""
	if department != nil {
		d = strings.ToLower(*department)
	}
	s := ""
	if status != nil {
		s = strings.ToLower(*status)
	}
	// "women" is checked before "men": it contains "men" as a substring.
	if strings.Contains(d, "women") {
		return &female
	}
	if strings.Contains(d, "men") {
		return &male
	}
	if strings.Contains(s, "women") || strings.Contains(s, "mother") {
		return &female
	}
	return nil
}
