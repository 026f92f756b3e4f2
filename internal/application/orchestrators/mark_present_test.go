package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"rollcall/internal/domain/attendance"
	"rollcall/internal/domain/identity"
	"rollcall/internal/domain/person"
)

func markDeps(members, kids *mockPersonStore, att *mockAttendanceStore) MarkPresentDeps {
	return MarkPresentDeps{
		MemberStore:     members,
		KidStore:        kids,
		AttendanceStore: att,
		Now:             func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) },
	}
}

func TestExecuteMarkPresent(t *testing.T) {
	member := person.Person{ID: "m1", Cohort: person.CohortMember, Name: "Ama Mensah", Active: true}
	kid := person.Person{ID: "k1", Cohort: person.CohortKid, Name: "Kofi Mensah", Active: true}

	t.Run("creates record for member", func(t *testing.T) {
		att := newMockAttendanceStore()
		deps := markDeps(newMockPersonStore(member), newMockPersonStore(kid), att)

		id, err := ExecuteMarkPresent(context.Background(), MarkPresentInput{
			PersonID: "m1",
			Date:     "2025-06-01",
			Caller:   testIdentity("user_1", ""),
		}, deps)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id == "" {
			t.Fatal("expected a record ID")
		}
		rec, err := att.GetByPersonDate(context.Background(), "m1", "2025-06-01")
		if err != nil {
			t.Fatalf("record not saved: %v", err)
		}
		if !rec.Present || rec.MarkedBy != "user_1" {
			t.Errorf("got present=%v marked_by=%q", rec.Present, rec.MarkedBy)
		}
	})

	t.Run("finds kid when not a member", func(t *testing.T) {
		att := newMockAttendanceStore()
		deps := markDeps(newMockPersonStore(member), newMockPersonStore(kid), att)

		if _, err := ExecuteMarkPresent(context.Background(), MarkPresentInput{
			PersonID: "k1",
			Date:     "2025-06-01",
			Caller:   testIdentity("user_1", ""),
		}, deps); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("marking twice keeps one record", func(t *testing.T) {
		att := newMockAttendanceStore()
		deps := markDeps(newMockPersonStore(member), newMockPersonStore(kid), att)
		input := MarkPresentInput{PersonID: "m1", Date: "2025-06-01", Caller: testIdentity("user_1", "")}

		first, err := ExecuteMarkPresent(context.Background(), input, deps)
		if err != nil {
			t.Fatalf("first mark: %v", err)
		}
		input.Caller = testIdentity("user_2", "")
		second, err := ExecuteMarkPresent(context.Background(), input, deps)
		if err != nil {
			t.Fatalf("second mark: %v", err)
		}
		if first != second {
			t.Errorf("expected same record ID, got %q then %q", first, second)
		}
		if len(att.records) != 1 {
			t.Errorf("expected 1 record, got %d", len(att.records))
		}
		rec, _ := att.GetByPersonDate(context.Background(), "m1", "2025-06-01")
		if rec.MarkedBy != "user_2" {
			t.Errorf("expected marked_by refreshed, got %q", rec.MarkedBy)
		}
	})

	t.Run("unresolved caller", func(t *testing.T) {
		deps := markDeps(newMockPersonStore(member), newMockPersonStore(kid), newMockAttendanceStore())
		_, err := ExecuteMarkPresent(context.Background(), MarkPresentInput{
			PersonID: "m1",
			Date:     "2025-06-01",
		}, deps)
		if !errors.Is(err, identity.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("unknown person", func(t *testing.T) {
		deps := markDeps(newMockPersonStore(member), newMockPersonStore(kid), newMockAttendanceStore())
		_, err := ExecuteMarkPresent(context.Background(), MarkPresentInput{
			PersonID: "ghost",
			Date:     "2025-06-01",
			Caller:   testIdentity("user_1", ""),
		}, deps)
		if !errors.Is(err, person.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("malformed date", func(t *testing.T) {
		deps := markDeps(newMockPersonStore(member), newMockPersonStore(kid), newMockAttendanceStore())
		_, err := ExecuteMarkPresent(context.Background(), MarkPresentInput{
			PersonID: "m1",
			Date:     "06/01/2025",
			Caller:   testIdentity("user_1", ""),
		}, deps)
		if err == nil {
			t.Error("expected error for malformed date")
		}
	})
}

func TestExecuteUnmarkPresent(t *testing.T) {
	member := person.Person{ID: "m1", Cohort: person.CohortMember, Name: "Ama Mensah", Active: true}

	t.Run("patches existing record to absent", func(t *testing.T) {
		rec := attendance.Record{ID: "a1", PersonID: "m1", Date: "2025-06-01", Present: true, MarkedBy: "user_1", CreatedAt: time.Now().UTC()}
		att := newMockAttendanceStore(rec)
		deps := markDeps(newMockPersonStore(member), newMockPersonStore(), att)

		id, err := ExecuteUnmarkPresent(context.Background(), UnmarkPresentInput{
			PersonID: "m1",
			Date:     "2025-06-01",
			Caller:   testIdentity("user_2", ""),
		}, deps)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "a1" {
			t.Errorf("expected record ID a1, got %q", id)
		}
		got, _ := att.GetByPersonDate(context.Background(), "m1", "2025-06-01")
		if got.Present {
			t.Error("record still present")
		}
		if got.MarkedBy != "user_2" {
			t.Errorf("expected marked_by user_2, got %q", got.MarkedBy)
		}
	})

	t.Run("no record is a no-op", func(t *testing.T) {
		att := newMockAttendanceStore()
		deps := markDeps(newMockPersonStore(member), newMockPersonStore(), att)

		id, err := ExecuteUnmarkPresent(context.Background(), UnmarkPresentInput{
			PersonID: "m1",
			Date:     "2025-06-01",
			Caller:   testIdentity("user_1", ""),
		}, deps)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "" {
			t.Errorf("expected empty ID, got %q", id)
		}
		if len(att.records) != 0 {
			t.Error("no record should be created")
		}
	})

	t.Run("unresolved caller", func(t *testing.T) {
		deps := markDeps(newMockPersonStore(member), newMockPersonStore(), newMockAttendanceStore())
		_, err := ExecuteUnmarkPresent(context.Background(), UnmarkPresentInput{
			PersonID: "m1",
			Date:     "2025-06-01",
		}, deps)
		if !errors.Is(err, identity.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})
}
