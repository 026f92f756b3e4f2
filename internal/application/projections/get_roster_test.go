package projections

import (
	"context"
	"testing"
	"time"

	"rollcall/internal/domain/attendance"
	"rollcall/internal/domain/person"
)

func TestQueryGetRoster(t *testing.T) {
	now := time.Now().UTC()
	members := &mockPersonStore{people: []person.Person{
		{ID: "m1", Cohort: person.CohortMember, Name: "Ama Mensah", Contact: strptr("0241111111"), Active: true},
		{ID: "m2", Cohort: person.CohortMember, Name: "Kwesi Boateng", Active: true},
		{ID: "m3", Cohort: person.CohortMember, Name: "Old Timer", Active: false},
	}}
	kids := &mockPersonStore{people: []person.Person{
		{ID: "k1", Cohort: person.CohortKid, Name: "Kofi Mensah", Active: true},
	}}
	att := &mockAttendanceStore{records: []attendance.Record{
		{ID: "a1", PersonID: "m1", Date: "2025-05-25", Present: true, MarkedBy: "u1", CreatedAt: now},
		{ID: "a2", PersonID: "m1", Date: "2025-06-01", Present: true, MarkedBy: "u1", CreatedAt: now},
		{ID: "a3", PersonID: "m2", Date: "2025-06-01", Present: false, MarkedBy: "u1", CreatedAt: now},
		{ID: "a4", PersonID: "k1", Date: "2025-06-01", Present: true, MarkedBy: "u1", CreatedAt: now},
	}}
	deps := GetRosterDeps{MemberStore: members, KidStore: kids, AttendanceStore: att}

	res, err := QueryGetRoster(context.Background(), GetRosterQuery{Date: "2025-06-01"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Date != "2025-06-01" {
		t.Errorf("expected date echoed, got %q", res.Date)
	}
	if len(res.Members) != 2 {
		t.Fatalf("expected 2 active members, got %d", len(res.Members))
	}
	if len(res.Kids) != 1 {
		t.Fatalf("expected 1 kid, got %d", len(res.Kids))
	}

	byID := map[string]RosterRow{}
	for _, r := range res.Members {
		byID[r.ID] = r
	}
	if !byID["m1"].Present {
		t.Error("m1 has a present record and should read present")
	}
	if byID["m2"].Present {
		t.Error("m2's record is absent and should read absent")
	}
	if la := byID["m1"].LastAttendance; la == nil || la.Date != "2025-06-01" || !la.Present {
		t.Errorf("m1 last attendance wrong: %+v", la)
	}
	if la := byID["m2"].LastAttendance; la == nil || la.Present {
		t.Errorf("m2 last attendance should be an absent record: %+v", la)
	}
	if !res.Kids[0].Present {
		t.Error("kid marked present should read present")
	}
}

func TestQueryGetRosterNoRecords(t *testing.T) {
	members := &mockPersonStore{people: []person.Person{
		{ID: "m1", Cohort: person.CohortMember, Name: "Ama Mensah", Active: true},
	}}
	deps := GetRosterDeps{MemberStore: members, KidStore: &mockPersonStore{}, AttendanceStore: &mockAttendanceStore{}}

	res, err := QueryGetRoster(context.Background(), GetRosterQuery{Date: "2025-06-01"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row := res.Members[0]
	if row.Present {
		t.Error("person with no record should read absent")
	}
	if row.LastAttendance != nil {
		t.Errorf("expected no last attendance, got %+v", row.LastAttendance)
	}
}

func TestQueryGetRosterBadDate(t *testing.T) {
	deps := GetRosterDeps{MemberStore: &mockPersonStore{}, KidStore: &mockPersonStore{}, AttendanceStore: &mockAttendanceStore{}}
	if _, err := QueryGetRoster(context.Background(), GetRosterQuery{Date: "June 1"}, deps); err == nil {
		t.Error("expected error for malformed date")
	}
}
