package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"intake/internal/casefile"
)

// caseColumns is the list of columns to select for case queries.
const caseColumns = `id, guid, subject, category,
	person_relation_id, person_existing, business_relation_id, business_existing,
	step, created_at, updated_at, completed_at`

// caseRepository implements casefile.Repository using SQLite.
type caseRepository struct {
	db *sql.DB
}

// NewCaseRepository creates a case repository over an open database.
func NewCaseRepository(db *sql.DB) casefile.Repository {
	return &caseRepository{db: db}
}

var _ casefile.Repository = (*caseRepository)(nil)

func scanCase(scanner interface{ Scan(...any) error }) (*CaseModel, error) {
	var model CaseModel
	err := scanner.Scan(
		&model.ID, &model.GUID, &model.Subject, &model.Category,
		&model.PersonRelationID, &model.PersonExisting,
		&model.BusinessRelationID, &model.BusinessExisting,
		&model.Step, &model.CreatedAt, &model.UpdatedAt, &model.CompletedAt,
	)
	return &model, err
}

// Save persists a case. New cases (ID == 0) are inserted and get their ID
// set; existing cases are updated.
func (r *caseRepository) Save(c *casefile.Case) error {
	model := toCaseModel(c)

	if c.ID == 0 {
		result, err := r.db.Exec(
			`INSERT INTO cases (
				guid, subject, category,
				person_relation_id, person_existing, business_relation_id, business_existing,
				step, created_at, updated_at, completed_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			model.GUID, model.Subject, model.Category,
			model.PersonRelationID, model.PersonExisting,
			model.BusinessRelationID, model.BusinessExisting,
			model.Step, model.CreatedAt, model.UpdatedAt, model.CompletedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting case: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading case id: %w", err)
		}
		c.ID = id
		return nil
	}

	_, err := r.db.Exec(
		`UPDATE cases SET
			subject = ?, category = ?,
			person_relation_id = ?, person_existing = ?,
			business_relation_id = ?, business_existing = ?,
			step = ?, updated_at = ?, completed_at = ?
		WHERE id = ?`,
		model.Subject, model.Category,
		model.PersonRelationID, model.PersonExisting,
		model.BusinessRelationID, model.BusinessExisting,
		model.Step, model.UpdatedAt, model.CompletedAt,
		model.ID,
	)
	if err != nil {
		return fmt.Errorf("updating case: %w", err)
	}
	return nil
}

// GetByGUID loads one case by its GUID. Returns (nil, nil) when absent.
func (r *caseRepository) GetByGUID(guid string) (*casefile.Case, error) {
	row := r.db.QueryRow(`SELECT `+caseColumns+` FROM cases WHERE guid = ?`, guid)
	model, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading case %s: %w", guid, err)
	}
	return model.toCase(), nil
}

// List returns all cases, newest first.
func (r *caseRepository) List() ([]casefile.Case, error) {
	rows, err := r.db.Query(`SELECT ` + caseColumns + ` FROM cases ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cases []casefile.Case
	for rows.Next() {
		model, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning case row: %w", err)
		}
		cases = append(cases, *model.toCase())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating case rows: %w", err)
	}
	return cases, nil
}
