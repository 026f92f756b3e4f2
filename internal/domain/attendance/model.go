package attendance

import (
	"errors"
	"fmt"
	"time"
)

// DateFormat is the calendar-date layout used throughout the ledger.
// The fixed-width, zero-padded form makes lexicographic comparison of
// date strings equivalent to chronological comparison.
const DateFormat = "2006-01-02"

// Domain errors
var (
	ErrNotFound    = errors.New("attendance record not found")
	ErrInvalidDate = errors.New("invalid date")
)

// Record holds state for the concept: one row per (person, date) pair.
// Present=false is a recorded absence; a missing row for a date is also
// an absence, and aggregation treats the two identically.
type Record struct {
	ID        string
	PersonID  string
	Date      string // YYYY-MM-DD
	Present   bool
	MarkedBy  string
	CreatedAt time.Time
}

// Validate checks if the Record has valid data.
// PRE: Record struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: PersonID must not be empty, Date must be a valid YYYY-MM-DD date
func (r *Record) Validate() error {
	if r.PersonID == "" {
		return errors.New("attendance must be associated with a person")
	}
	if err := ValidateDate(r.Date); err != nil {
		return err
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD date string.
// POST: Returns error if the string is not a valid calendar date
func ValidateDate(date string) error {
	if date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}
	if _, err := time.Parse(DateFormat, date); err != nil {
		return fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidDate, date)
	}
	return nil
}

// MoreRecent reports whether date a is strictly more recent than date b.
// Valid because both strings use the fixed-width DateFormat.
func MoreRecent(a, b string) bool {
	return a > b
}
