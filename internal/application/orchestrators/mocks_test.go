package orchestrators

import (
	"context"
	"errors"

	"rollcall/internal/domain/attendance"
	"rollcall/internal/domain/identity"
	"rollcall/internal/domain/person"
)

// mockPersonStore implements the person store interfaces used by the
// orchestrators, keyed by ID and by contact.
type mockPersonStore struct {
	byID      map[string]person.Person
	saveErr   error
	deleteErr error
}

func newMockPersonStore(people ...person.Person) *mockPersonStore {
	m := &mockPersonStore{byID: make(map[string]person.Person)}
	for _, p := range people {
		m.byID[p.ID] = p
	}
	return m
}

func (m *mockPersonStore) GetByID(_ context.Context, id string) (person.Person, error) {
	p, ok := m.byID[id]
	if !ok {
		return person.Person{}, person.ErrNotFound
	}
	return p, nil
}

func (m *mockPersonStore) GetByContact(_ context.Context, contact string) (person.Person, error) {
	for _, p := range m.byID {
		if p.Contact != nil && *p.Contact == contact {
			return p, nil
		}
	}
	return person.Person{}, person.ErrNotFound
}

func (m *mockPersonStore) Save(_ context.Context, p person.Person) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.byID[p.ID] = p
	return nil
}

func (m *mockPersonStore) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.byID, id)
	return nil
}

// mockAttendanceStore implements the attendance store interfaces used by the
// orchestrators, keyed by (person, date).
type mockAttendanceStore struct {
	records map[string]attendance.Record
	saveErr error
}

func newMockAttendanceStore(records ...attendance.Record) *mockAttendanceStore {
	m := &mockAttendanceStore{records: make(map[string]attendance.Record)}
	for _, r := range records {
		m.records[r.PersonID+"|"+r.Date] = r
	}
	return m
}

func (m *mockAttendanceStore) GetByPersonDate(_ context.Context, personID, date string) (attendance.Record, error) {
	r, ok := m.records[personID+"|"+date]
	if !ok {
		return attendance.Record{}, attendance.ErrNotFound
	}
	return r, nil
}

func (m *mockAttendanceStore) Save(_ context.Context, r attendance.Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[r.PersonID+"|"+r.Date] = r
	return nil
}

func (m *mockAttendanceStore) DeleteByPerson(_ context.Context, personID string) (int64, error) {
	var n int64
	for k, r := range m.records {
		if r.PersonID == personID {
			delete(m.records, k)
			n++
		}
	}
	return n, nil
}

var errBoom = errors.New("boom")

func testIdentity(subject, role string) identity.Identity {
	id := identity.Identity{Subject: subject, Claims: map[string]any{}}
	if role != "" {
		id.Claims["publicMetadata"] = map[string]any{"role": role}
	}
	return id
}
