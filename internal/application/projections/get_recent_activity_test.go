package projections

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"rollcall/internal/domain/attendance"
	"rollcall/internal/domain/person"
)

func TestQueryGetRecentActivity(t *testing.T) {
	now := time.Now().UTC()
	members := &mockPersonStore{people: []person.Person{
		{ID: "m1", Cohort: person.CohortMember, Name: "Ama Mensah", Active: true},
	}}
	kids := &mockPersonStore{people: []person.Person{
		{ID: "k1", Cohort: person.CohortKid, Name: "Kofi Mensah", Active: true},
	}}
	att := &mockAttendanceStore{records: []attendance.Record{
		{ID: "a1", PersonID: "m1", Date: "2025-06-01", Present: true, MarkedBy: "u1", CreatedAt: now},
		{ID: "a2", PersonID: "k1", Date: "2025-06-01", Present: true, MarkedBy: "u1", CreatedAt: now.Add(time.Second)},
		{ID: "a3", PersonID: "ghost", Date: "2025-06-01", Present: false, MarkedBy: "u1", CreatedAt: now.Add(2 * time.Second)},
	}}
	deps := GetRecentActivityDeps{MemberStore: members, KidStore: kids, AttendanceStore: att}

	res, err := QueryGetRecentActivity(context.Background(), GetRecentActivityQuery{}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(res.Records))
	}
	if res.Records[0].ID != "a3" {
		t.Errorf("expected newest first, got %q", res.Records[0].ID)
	}
	if res.Records[0].PersonName != "Unknown" {
		t.Errorf("removed person should read Unknown, got %q", res.Records[0].PersonName)
	}
	if res.Records[1].PersonName != "Kofi Mensah" {
		t.Errorf("kid name not resolved: %q", res.Records[1].PersonName)
	}
	if res.Records[2].PersonName != "Ama Mensah" {
		t.Errorf("member name not resolved: %q", res.Records[2].PersonName)
	}
}

func TestQueryGetRecentActivityStoreErrorPropagates(t *testing.T) {
	att := &mockAttendanceStore{records: []attendance.Record{
		{ID: "a1", PersonID: "m1", Date: "2025-06-01", Present: true, MarkedBy: "u1", CreatedAt: time.Now().UTC()},
	}}
	deps := GetRecentActivityDeps{
		MemberStore:     &mockPersonStore{getErr: errBoom},
		KidStore:        &mockPersonStore{},
		AttendanceStore: att,
	}

	_, err := QueryGetRecentActivity(context.Background(), GetRecentActivityQuery{}, deps)
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected lookup failure to surface, got %v", err)
	}
}

func TestQueryGetRecentActivityLimitClamping(t *testing.T) {
	var records []attendance.Record
	for i := 0; i < 60; i++ {
		records = append(records, attendance.Record{
			ID:        fmt.Sprintf("a%d", i),
			PersonID:  "m1",
			Date:      "2025-06-01",
			Present:   true,
			MarkedBy:  "u1",
			CreatedAt: time.Now().UTC(),
		})
	}
	att := &mockAttendanceStore{records: records}
	deps := GetRecentActivityDeps{MemberStore: &mockPersonStore{}, KidStore: &mockPersonStore{}, AttendanceStore: att}

	cases := []struct {
		limit int
		want  int
	}{
		{0, 10},
		{-3, 1},
		{5, 5},
		{200, 50},
	}
	for _, tc := range cases {
		res, err := QueryGetRecentActivity(context.Background(), GetRecentActivityQuery{Limit: tc.limit}, deps)
		if err != nil {
			t.Fatalf("limit %d: %v", tc.limit, err)
		}
		if len(res.Records) != tc.want {
			t.Errorf("limit %d: expected %d rows, got %d", tc.limit, tc.want, len(res.Records))
		}
	}
}
