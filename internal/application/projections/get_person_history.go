package projections

import (
	"context"
	"errors"
	"time"

	"rollcall/internal/domain/person"
)

// GetPersonHistoryQuery carries query parameters.
type GetPersonHistoryQuery struct {
	PersonID string
}

// HistoryRow is one attendance record in a person's history.
type HistoryRow struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Present   bool      `json:"present"`
	MarkedBy  string    `json:"markedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetPersonHistoryResult carries the query result.
type GetPersonHistoryResult struct {
	PersonID   string       `json:"personId"`
	PersonName string       `json:"personName"`
	Cohort     string       `json:"cohort"`
	Records    []HistoryRow `json:"records"`
}

// GetPersonHistoryDeps holds dependencies for GetPersonHistory.
type GetPersonHistoryDeps struct {
	MemberStore     PersonStore
	KidStore        PersonStore
	AttendanceStore AttendanceStore
}

// QueryGetPersonHistory returns a person's full attendance history, most
// recent date first.
// PRE: PersonID refers to an existing person in either cohort
// POST: Records sorted by date descending
func QueryGetPersonHistory(ctx context.Context, query GetPersonHistoryQuery, deps GetPersonHistoryDeps) (GetPersonHistoryResult, error) {
	p, err := deps.MemberStore.GetByID(ctx, query.PersonID)
	if errors.Is(err, person.ErrNotFound) {
		p, err = deps.KidStore.GetByID(ctx, query.PersonID)
	}
	if err != nil {
		return GetPersonHistoryResult{}, err
	}

	records, err := deps.AttendanceStore.ListByPerson(ctx, p.ID)
	if err != nil {
		return GetPersonHistoryResult{}, err
	}

	rows := make([]HistoryRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, HistoryRow{
			ID:        r.ID,
			Date:      r.Date,
			Present:   r.Present,
			MarkedBy:  r.MarkedBy,
			CreatedAt: r.CreatedAt,
		})
	}
	return GetPersonHistoryResult{
		PersonID:   p.ID,
		PersonName: p.Name,
		Cohort:     p.Cohort,
		Records:    rows,
	}, nil
}
