package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"rollcall/internal/adapters/storage"
	domain "rollcall/internal/domain/attendance"
)

const selectColumns = "id, person_id, date, present, marked_by, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new AttendanceStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// scanRecord scans one row into a domain.Record.
func scanRecord(row interface{ Scan(dest ...any) error }) (domain.Record, error) {
	var entity domain.Record
	var createdStr string
	err := row.Scan(
		&entity.ID,
		&entity.PersonID,
		&entity.Date,
		&entity.Present,
		&entity.MarkedBy,
		&createdStr,
	)
	if err != nil {
		return domain.Record{}, err
	}
	entity.CreatedAt, err = parseStoredTime(createdStr)
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return entity, nil
}

// GetByPersonDate retrieves the record for one (person, date) cell.
// PRE: personID and date are non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByPersonDate(ctx context.Context, personID, date string) (domain.Record, error) {
	query := "SELECT " + selectColumns + " FROM attendance WHERE person_id = ? AND date = ?"
	entity, err := scanRecord(s.db.QueryRowContext(ctx, query, personID, date))
	if err == sql.ErrNoRows {
		return domain.Record{}, domain.ErrNotFound
	}
	return entity, err
}

// Save persists a Record to the database. The unique (person_id, date)
// index makes repeated saves for the same cell an update, never a
// duplicate insert.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	fields := []string{"id", "person_id", "date", "present", "marked_by", "created_at"}
	placeholders := []string{"?", "?", "?", "?", "?", "?"}
	updates := []string{"present=excluded.present", "marked_by=excluded.marked_by"}

	query := fmt.Sprintf(
		"INSERT INTO attendance (%s) VALUES (%s) ON CONFLICT(person_id, date) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	created := entity.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.PersonID,
		entity.Date,
		entity.Present,
		entity.MarkedBy,
		created.Format(time.RFC3339Nano),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ListByDate retrieves all records for a single roll-call date.
// PRE: date is non-empty
// POST: Returns records for the given date
func (s *SQLiteStore) ListByDate(ctx context.Context, date string) ([]domain.Record, error) {
	query := "SELECT " + selectColumns + " FROM attendance WHERE date = ?"
	return s.queryRecords(ctx, query, date)
}

// ListByPerson retrieves all records for a person, newest date first.
// PRE: personID is non-empty
// POST: Returns records ordered by date descending
func (s *SQLiteStore) ListByPerson(ctx context.Context, personID string) ([]domain.Record, error) {
	query := "SELECT " + selectColumns + " FROM attendance WHERE person_id = ? ORDER BY date DESC"
	return s.queryRecords(ctx, query, personID)
}

// LatestForPerson retrieves the chronologically most recent record for a
// person across all dates.
// PRE: personID is non-empty
// POST: Returns the entity or ErrNotFound when the person has no records
func (s *SQLiteStore) LatestForPerson(ctx context.Context, personID string) (domain.Record, error) {
	query := "SELECT " + selectColumns + " FROM attendance WHERE person_id = ? ORDER BY date DESC LIMIT 1"
	entity, err := scanRecord(s.db.QueryRowContext(ctx, query, personID))
	if err == sql.ErrNoRows {
		return domain.Record{}, domain.ErrNotFound
	}
	return entity, err
}

// ListRecent retrieves the most recently created records system-wide.
// Ordering uses rowid, which tracks insertion order exactly; the
// created_at text drops trailing fraction zeros, so sorting on it could
// misorder records created within the same second.
// PRE: limit > 0
// POST: Returns up to limit records, newest creation first
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]domain.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	query := "SELECT " + selectColumns + " FROM attendance ORDER BY rowid DESC LIMIT ?"
	return s.queryRecords(ctx, query, limit)
}

// CountByDate returns the total and present record counts for one date.
// PRE: date is non-empty
// POST: total >= present >= 0
func (s *SQLiteStore) CountByDate(ctx context.Context, date string) (total, present int, err error) {
	query := "SELECT COUNT(*), COALESCE(SUM(present), 0) FROM attendance WHERE date = ?"
	err = s.db.QueryRowContext(ctx, query, date).Scan(&total, &present)
	return total, present, err
}

// DeleteByPerson removes every record referencing a person. Used by the
// person-removal cascade so no dangling ledger rows survive a delete.
// PRE: personID is non-empty
// POST: All records for the person are removed; returns how many
func (s *SQLiteStore) DeleteByPerson(ctx context.Context, personID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM attendance WHERE person_id = ?", personID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// queryRecords runs a multi-row query and scans all records.
func (s *SQLiteStore) queryRecords(ctx context.Context, query string, args ...any) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Record
	for rows.Next() {
		entity, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// parseStoredTime parses a stored timestamp, accepting RFC3339 with or
// without sub-second precision.
func parseStoredTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
