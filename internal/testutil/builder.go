package testutil

import (
	"time"

	"github.com/google/uuid"

	"intake/internal/casefile"
)

// CaseBuilder builds casefile.Case values for tests with sensible defaults.
type CaseBuilder struct {
	c casefile.Case
}

// NewCase starts a builder for a fresh, unsaved case.
func NewCase() *CaseBuilder {
	now := time.Now().Truncate(time.Second)
	return &CaseBuilder{c: casefile.Case{
		GUID:      uuid.NewString(),
		Subject:   "Leaking roof",
		Category:  "maintenance",
		Step:      "details",
		CreatedAt: now,
		UpdatedAt: now,
	}}
}

// WithSubject sets the case subject.
func (b *CaseBuilder) WithSubject(subject string) *CaseBuilder {
	b.c.Subject = subject
	return b
}

// WithPerson records a person duplicate-check outcome.
func (b *CaseBuilder) WithPerson(relationID string, existing bool) *CaseBuilder {
	b.c.PersonRelationID = relationID
	b.c.PersonExisting = existing
	return b
}

// WithBusiness records a business duplicate-check outcome.
func (b *CaseBuilder) WithBusiness(relationID string, existing bool) *CaseBuilder {
	b.c.BusinessRelationID = relationID
	b.c.BusinessExisting = existing
	return b
}

// Completed marks the case as finished now.
func (b *CaseBuilder) Completed() *CaseBuilder {
	now := time.Now().Truncate(time.Second)
	b.c.CompletedAt = &now
	b.c.Step = "confirm"
	return b
}

// Build returns the case.
func (b *CaseBuilder) Build() *casefile.Case {
	c := b.c
	return &c
}
