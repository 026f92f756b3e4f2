package person

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"rollcall/internal/adapters/storage"
	domain "rollcall/internal/domain/person"
)

// SQLiteStore implements Store using SQLite. One instance is bound to one
// cohort table (members or kids); contact uniqueness is therefore scoped
// to the cohort by construction.
type SQLiteStore struct {
	db     storage.SQLDB
	cohort string
	table  string
}

// NewSQLiteStore creates a PersonStore bound to the given cohort.
// PRE: cohort is CohortMember or CohortKid
// POST: Returns a store reading and writing that cohort's table
func NewSQLiteStore(db storage.SQLDB, cohort string) *SQLiteStore {
	table := "members"
	if cohort == domain.CohortKid {
		table = "kids"
	}
	return &SQLiteStore{db: db, cohort: cohort, table: table}
}

// selectColumns returns the column list for SELECT statements. The kids
// table has no gender/department/status columns, so NULL literals keep
// the scan path identical for both cohorts.
func (s *SQLiteStore) selectColumns() string {
	if s.cohort == domain.CohortKid {
		return "id, name, contact, residence, NULL, NULL, NULL, active, created_by"
	}
	return "id, name, contact, residence, gender, department, status, active, created_by"
}

// scanPerson scans one row into a domain.Person.
func (s *SQLiteStore) scanPerson(row interface{ Scan(dest ...any) error }) (domain.Person, error) {
	var entity domain.Person
	var contact, residence, gender, department, status sql.NullString
	err := row.Scan(
		&entity.ID,
		&entity.Name,
		&contact,
		&residence,
		&gender,
		&department,
		&status,
		&entity.Active,
		&entity.CreatedBy,
	)
	if err != nil {
		return domain.Person{}, err
	}
	entity.Cohort = s.cohort
	entity.Contact = optional(contact)
	entity.Residence = optional(residence)
	entity.Gender = optional(gender)
	entity.Department = optional(department)
	entity.Status = optional(status)
	return entity, nil
}

// GetByID retrieves a Person by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Person, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", s.selectColumns(), s.table)
	entity, err := s.scanPerson(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return domain.Person{}, domain.ErrNotFound
	}
	return entity, err
}

// GetByContact retrieves a Person by contact within the cohort.
// PRE: contact is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByContact(ctx context.Context, contact string) (domain.Person, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE contact = ?", s.selectColumns(), s.table)
	entity, err := s.scanPerson(s.db.QueryRowContext(ctx, query, contact))
	if err == sql.ErrNoRows {
		return domain.Person{}, domain.ErrNotFound
	}
	return entity, err
}

// Save persists a Person to the database.
// PRE: entity has been validated and belongs to this store's cohort
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Person) error {
	if entity.Cohort != s.cohort {
		return fmt.Errorf("person cohort %q does not match store cohort %q", entity.Cohort, s.cohort)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	fields := []string{"id", "name", "contact", "residence", "active", "created_by"}
	args := []any{entity.ID, entity.Name, nullable(entity.Contact), nullable(entity.Residence), entity.Active, entity.CreatedBy}
	if s.cohort == domain.CohortMember {
		fields = append(fields, "gender", "department", "status")
		args = append(args, nullable(entity.Gender), nullable(entity.Department), nullable(entity.Status))
	}

	placeholders := make([]string, len(fields))
	updates := make([]string, 0, len(fields)-1)
	for i, f := range fields {
		placeholders[i] = "?"
		if f != "id" {
			updates = append(updates, f+"=excluded."+f)
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		s.table,
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a Person from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.table), id)
	return err
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Active != nil {
		where += " AND active = ?"
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		where += " AND name LIKE ?"
		args = append(args, "%"+filter.Search+"%")
	}
	return where, args
}

// sortClause returns a safe ORDER BY clause. Only allowed columns are accepted.
func sortClause(filter ListFilter) string {
	allowed := map[string]string{
		"name": "name", "residence": "residence",
	}
	col, ok := allowed[filter.Sort]
	if !ok {
		return " ORDER BY name ASC"
	}
	dir := "ASC"
	if filter.Dir == "desc" {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir
}

// Count returns the total number of persons matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+s.table+where, args...).Scan(&count)
	return count, err
}

// List retrieves a list of Persons based on the filter. A Limit of zero
// or below means no limit; the roster projection relies on that to see
// every active person.
// PRE: filter has valid parameters
// POST: Returns all matching entities unless filter.Limit > 0
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Person, error) {
	where, args := listWhereClause(filter)
	query := fmt.Sprintf("SELECT %s FROM %s", s.selectColumns(), s.table) + where
	query += sortClause(filter)

	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Person
	for rows.Next() {
		entity, err := s.scanPerson(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// nullable converts an optional string to a driver value.
func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// optional converts a scanned NullString to an optional string.
func optional(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
