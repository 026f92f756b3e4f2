package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"rollcall/internal/domain/identity"
	"rollcall/internal/domain/person"

	"github.com/google/uuid"
)

// BulkImportInput carries a raw CSV payload for import.
type BulkImportInput struct {
	CSV    string
	Caller identity.Identity
}

// BulkImportResult reports per-row outcomes of an import run.
type BulkImportResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

// BulkImportDeps holds dependencies for the import orchestrators.
type BulkImportDeps struct {
	MemberStore PersonWriteStore
	KidStore    PersonWriteStore
}

// splitCSVLines splits the payload into trimmed non-empty lines, skipping a
// leading header row when one is recognized. Fields are split on bare commas;
// the export this format mirrors never quotes values.
func splitCSVLines(csv string) []string {
	raw := strings.Split(strings.ReplaceAll(csv, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > 0 {
		header := strings.ToLower(lines[0])
		if strings.Contains(header, "name") && strings.Contains(header, "contact") && strings.Contains(header, "residence") {
			lines = lines[1:]
		}
	}
	return lines
}

// ExecuteBulkImportMembers imports member rows with columns
// Name,Contact,Residence,Department,Status,Gender.
// Rows with fewer than 5 fields count as errors; blank names and duplicate
// contacts are skipped. One bad row never aborts the run.
func ExecuteBulkImportMembers(ctx context.Context, input BulkImportInput, deps BulkImportDeps) (BulkImportResult, error) {
	if !input.Caller.Resolved() {
		return BulkImportResult{}, identity.ErrUnauthorized
	}

	var res BulkImportResult
	for _, line := range splitCSVLines(input.CSV) {
		parts := strings.Split(line, ",")
		if len(parts) < 5 {
			res.Errors++
			continue
		}
		name := strings.TrimSpace(parts[0])
		if name == "" {
			res.Skipped++
			continue
		}
		contact := person.NormalizeOptional(parts[1])
		residence := person.NormalizeOptional(parts[2])
		department := person.NormalizeOptional(parts[3])
		status := person.NormalizeOptional(parts[4])
		var gender *string
		if len(parts) > 5 {
			gender = person.NormalizeGender(person.NormalizeOptional(parts[5]))
		}
		if gender == nil {
			gender = person.InferGender(name, department, status)
		}

		if contact != nil {
			_, err := deps.MemberStore.GetByContact(ctx, *contact)
			if err == nil {
				res.Skipped++
				continue
			}
			if !errors.Is(err, person.ErrNotFound) {
				res.Errors++
				continue
			}
		}

		p := person.Person{
			ID:         uuid.New().String(),
			Cohort:     person.CohortMember,
			Name:       name,
			Contact:    contact,
			Residence:  residence,
			Gender:     gender,
			Department: department,
			Status:     status,
			Active:     true,
			CreatedBy:  input.Caller.Subject,
		}
		if err := p.Validate(); err != nil {
			res.Errors++
			continue
		}
		if err := deps.MemberStore.Save(ctx, p); err != nil {
			res.Errors++
			continue
		}
		res.Inserted++
	}

	slog.Info("person_event", "event", "members_imported", "inserted", res.Inserted, "skipped", res.Skipped, "errors", res.Errors, "created_by", input.Caller.Subject)
	return res, nil
}

// ExecuteBulkImportKids imports kid rows with columns
// Number,Name,Contact,Residence. The leading number column is ignored.
// Rows with fewer than 3 fields count as errors; blank names are skipped.
// Kid rows carry no contact-uniqueness rule.
func ExecuteBulkImportKids(ctx context.Context, input BulkImportInput, deps BulkImportDeps) (BulkImportResult, error) {
	if !input.Caller.Resolved() {
		return BulkImportResult{}, identity.ErrUnauthorized
	}

	var res BulkImportResult
	for _, line := range splitCSVLines(input.CSV) {
		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			res.Errors++
			continue
		}
		var name string
		if len(parts) > 1 {
			name = strings.TrimSpace(parts[1])
		}
		if name == "" {
			res.Skipped++
			continue
		}
		var residence *string
		if len(parts) > 3 {
			residence = person.NormalizeOptional(parts[3])
		}

		p := person.Person{
			ID:        uuid.New().String(),
			Cohort:    person.CohortKid,
			Name:      name,
			Contact:   person.NormalizeOptional(parts[2]),
			Residence: residence,
			Active:    true,
			CreatedBy: input.Caller.Subject,
		}
		if err := p.Validate(); err != nil {
			res.Errors++
			continue
		}
		if err := deps.KidStore.Save(ctx, p); err != nil {
			res.Errors++
			continue
		}
		res.Inserted++
	}

	slog.Info("person_event", "event", "kids_imported", "inserted", res.Inserted, "skipped", res.Skipped, "errors", res.Errors, "created_by", input.Caller.Subject)
	return res, nil
}
