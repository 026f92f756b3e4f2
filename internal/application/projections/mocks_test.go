package projections

import (
	"context"
	"errors"
	"sort"
	"strings"

	personStore "rollcall/internal/adapters/storage/person"
	"rollcall/internal/domain/attendance"
	"rollcall/internal/domain/person"
)

var errBoom = errors.New("store exploded")

// mockPersonStore implements PersonStore over an in-memory slice.
type mockPersonStore struct {
	people []person.Person
	getErr error // returned by GetByID when set
}

func (m *mockPersonStore) GetByID(_ context.Context, id string) (person.Person, error) {
	if m.getErr != nil {
		return person.Person{}, m.getErr
	}
	for _, p := range m.people {
		if p.ID == id {
			return p, nil
		}
	}
	return person.Person{}, person.ErrNotFound
}

func (m *mockPersonStore) matches(p person.Person, filter personStore.ListFilter) bool {
	if filter.Active != nil && p.Active != *filter.Active {
		return false
	}
	if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
		return false
	}
	return true
}

func (m *mockPersonStore) List(_ context.Context, filter personStore.ListFilter) ([]person.Person, error) {
	var out []person.Person
	for _, p := range m.people {
		if m.matches(p, filter) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.Dir == "desc" {
			return out[i].Name > out[j].Name
		}
		return out[i].Name < out[j].Name
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *mockPersonStore) Count(_ context.Context, filter personStore.ListFilter) (int, error) {
	n := 0
	for _, p := range m.people {
		if m.matches(p, filter) {
			n++
		}
	}
	return n, nil
}

// mockAttendanceStore implements AttendanceStore over an in-memory slice
// ordered oldest first by insertion.
type mockAttendanceStore struct {
	records []attendance.Record
}

func (m *mockAttendanceStore) ListByDate(_ context.Context, date string) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, r := range m.records {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockAttendanceStore) ListByPerson(_ context.Context, personID string) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, r := range m.records {
		if r.PersonID == personID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (m *mockAttendanceStore) LatestForPerson(ctx context.Context, personID string) (attendance.Record, error) {
	recs, _ := m.ListByPerson(ctx, personID)
	if len(recs) == 0 {
		return attendance.Record{}, attendance.ErrNotFound
	}
	return recs[0], nil
}

func (m *mockAttendanceStore) ListRecent(_ context.Context, limit int) ([]attendance.Record, error) {
	out := make([]attendance.Record, len(m.records))
	copy(out, m.records)
	// newest insertion first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockAttendanceStore) CountByDate(_ context.Context, date string) (int, int, error) {
	total, present := 0, 0
	for _, r := range m.records {
		if r.Date == date {
			total++
			if r.Present {
				present++
			}
		}
	}
	return total, present, nil
}

func strptr(s string) *string { return &s }
