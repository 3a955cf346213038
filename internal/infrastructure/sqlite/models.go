package sqlite

import (
	"time"

	"intake/internal/casefile"
)

// CaseModel is the database row for the cases table. Timestamps are Unix
// seconds; nullable columns are pointers.
type CaseModel struct {
	ID   int64
	GUID string

	Subject  string
	Category string

	PersonRelationID   *string
	PersonExisting     bool
	BusinessRelationID *string
	BusinessExisting   bool

	Step string

	CreatedAt   int64
	UpdatedAt   int64
	CompletedAt *int64
}

func toCaseModel(c *casefile.Case) *CaseModel {
	m := &CaseModel{
		ID:               c.ID,
		GUID:             c.GUID,
		Subject:          c.Subject,
		Category:         c.Category,
		PersonExisting:   c.PersonExisting,
		BusinessExisting: c.BusinessExisting,
		Step:             c.Step,
		CreatedAt:        c.CreatedAt.Unix(),
		UpdatedAt:        c.UpdatedAt.Unix(),
	}
	if c.PersonRelationID != "" {
		m.PersonRelationID = &c.PersonRelationID
	}
	if c.BusinessRelationID != "" {
		m.BusinessRelationID = &c.BusinessRelationID
	}
	if c.CompletedAt != nil {
		ts := c.CompletedAt.Unix()
		m.CompletedAt = &ts
	}
	return m
}

func (m *CaseModel) toCase() *casefile.Case {
	c := &casefile.Case{
		ID:               m.ID,
		GUID:             m.GUID,
		Subject:          m.Subject,
		Category:         m.Category,
		PersonExisting:   m.PersonExisting,
		BusinessExisting: m.BusinessExisting,
		Step:             m.Step,
		CreatedAt:        time.Unix(m.CreatedAt, 0),
		UpdatedAt:        time.Unix(m.UpdatedAt, 0),
	}
	if m.PersonRelationID != nil {
		c.PersonRelationID = *m.PersonRelationID
	}
	if m.BusinessRelationID != nil {
		c.BusinessRelationID = *m.BusinessRelationID
	}
	if m.CompletedAt != nil {
		t := time.Unix(*m.CompletedAt, 0)
		c.CompletedAt = &t
	}
	return c
}
