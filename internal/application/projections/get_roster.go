package projections

import (
	"context"
	"errors"

	personStore "rollcall/internal/adapters/storage/person"
	"rollcall/internal/domain/attendance"
	"rollcall/internal/domain/person"
)

// GetRosterQuery carries query parameters for the roll-call roster.
type GetRosterQuery struct {
	Date string // YYYY-MM-DD
}

// LastAttendance is the most recent attendance record for a person,
// present or not.
type LastAttendance struct {
	Date    string `json:"date"`
	Present bool   `json:"present"`
}

// RosterRow is one person on the roster with their presence for the date.
type RosterRow struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Contact        *string         `json:"contact"`
	Residence      *string         `json:"residence"`
	Gender         *string         `json:"gender,omitempty"`
	Department     *string         `json:"department,omitempty"`
	Status         *string         `json:"status,omitempty"`
	Present        bool            `json:"present"`
	LastAttendance *LastAttendance `json:"lastAttendance"`
}

// GetRosterResult carries the roster for one date, both cohorts.
type GetRosterResult struct {
	Date    string      `json:"date"`
	Members []RosterRow `json:"members"`
	Kids    []RosterRow `json:"kids"`
}

// GetRosterDeps holds dependencies for GetRoster.
type GetRosterDeps struct {
	MemberStore     PersonStore
	KidStore        PersonStore
	AttendanceStore AttendanceStore
}

// QueryGetRoster builds the roll-call view for a date: every active person
// in both cohorts, flagged present when a present record exists for the
// date. A person with no record at all reads as absent.
// PRE: Date is a valid YYYY-MM-DD string
// POST: Every active person appears exactly once in their cohort's list
func QueryGetRoster(ctx context.Context, query GetRosterQuery, deps GetRosterDeps) (GetRosterResult, error) {
	if err := attendance.ValidateDate(query.Date); err != nil {
		return GetRosterResult{}, err
	}

	records, err := deps.AttendanceStore.ListByDate(ctx, query.Date)
	if err != nil {
		return GetRosterResult{}, err
	}
	presentSet := make(map[string]bool, len(records))
	for _, r := range records {
		if r.Present {
			presentSet[r.PersonID] = true
		}
	}

	members, err := rosterRows(ctx, deps, deps.MemberStore, presentSet)
	if err != nil {
		return GetRosterResult{}, err
	}
	kids, err := rosterRows(ctx, deps, deps.KidStore, presentSet)
	if err != nil {
		return GetRosterResult{}, err
	}

	return GetRosterResult{Date: query.Date, Members: members, Kids: kids}, nil
}

func rosterRows(ctx context.Context, deps GetRosterDeps, store PersonStore, presentSet map[string]bool) ([]RosterRow, error) {
	active := true
	people, err := store.List(ctx, personStore.ListFilter{Active: &active, Sort: "name", Dir: "asc"})
	if err != nil {
		return nil, err
	}

	rows := make([]RosterRow, 0, len(people))
	for _, p := range people {
		row := RosterRow{
			ID:         p.ID,
			Name:       p.Name,
			Contact:    p.Contact,
			Residence:  p.Residence,
			Gender:     p.Gender,
			Department: p.Department,
			Status:     p.Status,
			Present:    presentSet[p.ID],
		}
		latest, err := deps.AttendanceStore.LatestForPerson(ctx, p.ID)
		if err != nil && !errors.Is(err, attendance.ErrNotFound) {
			return nil, err
		}
		if err == nil {
			row.LastAttendance = &LastAttendance{Date: latest.Date, Present: latest.Present}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// personName resolves a person id to a display name across both cohorts.
// Records whose person has since been removed read as "Unknown"; store
// failures propagate rather than masquerading as a removed person.
func personName(ctx context.Context, members, kids PersonStore, id string) (string, error) {
	p, err := members.GetByID(ctx, id)
	if err == nil {
		return p.Name, nil
	}
	if !errors.Is(err, person.ErrNotFound) {
		return "", err
	}
	p, err = kids.GetByID(ctx, id)
	if err == nil {
		return p.Name, nil
	}
	if !errors.Is(err, person.ErrNotFound) {
		return "", err
	}
	return "Unknown", nil
}
