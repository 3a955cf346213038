// Package casefile holds the case entity built up by the intake wizard and
// its repository contract.
package casefile

import "time"

// Case is one housing case in progress or completed.
type Case struct {
	ID   int64
	GUID string

	Subject  string
	Category string

	// Duplicate-check outcomes. A RelationID is set when the agent picked
	// an existing relation; Existing=false with an empty ID means a new
	// relation will be created downstream.
	PersonRelationID   string
	PersonExisting     bool
	BusinessRelationID string
	BusinessExisting   bool

	// Step is the furthest wizard step reached, stored as its name.
	Step string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// Completed reports whether the case made it through the whole wizard.
func (c *Case) Completed() bool {
	return c.CompletedAt != nil
}

// Repository persists cases.
type Repository interface {
	// Save inserts a new case (ID == 0, assigning ID) or updates an
	// existing one.
	Save(c *Case) error

	// GetByGUID loads one case. Returns (nil, nil) when absent.
	GetByGUID(guid string) (*Case, error)

	// List returns all cases, newest first.
	List() ([]Case, error)
}
