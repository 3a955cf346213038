package confirm

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"intake/internal/casefile"
	"intake/internal/flow"
	"intake/internal/step"
	"intake/internal/testutil"
)

// failingRepo rejects every save.
type failingRepo struct {
	err error
}

func (r failingRepo) Save(*casefile.Case) error                { return r.err }
func (r failingRepo) GetByGUID(string) (*casefile.Case, error) { return nil, nil }
func (r failingRepo) List() ([]casefile.Case, error)           { return nil, nil }

func draft() casefile.Case {
	return casefile.Case{
		GUID:             "guid-1",
		Subject:          "Leaking roof",
		Category:         "maintenance",
		PersonRelationID: "rel-1",
		PersonExisting:   true,
	}
}

func TestConfirm_EnterSavesDraft(t *testing.T) {
	repo := testutil.NewCaseRepo(t)
	m := New(step.Services{Cases: repo}, draft())

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.saving)
	require.NotNil(t, cmd)

	msg := cmd()
	saved, ok := msg.(SavedMsg)
	require.True(t, ok, "expected SavedMsg, got %T", msg)
	require.NotZero(t, saved.Case.ID)
	require.Equal(t, flow.StepConfirm.String(), saved.Case.Step)
	require.True(t, saved.Case.Completed())
	require.False(t, saved.Case.CreatedAt.IsZero())

	got, err := repo.GetByGUID("guid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Leaking roof", got.Subject)
}

func TestConfirm_EnterWhileSavingIsIgnored(t *testing.T) {
	m := New(step.Services{Cases: testutil.NewCaseRepo(t)}, draft())

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	_, cmd = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd, "a second enter must not start a second save")
}

func TestConfirm_SaveFailureSurfacesError(t *testing.T) {
	saveErr := errors.New("disk full")
	m := New(step.Services{Cases: failingRepo{err: saveErr}}, draft()).SetSize(80, 24)

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m, _ = m.Update(cmd())

	require.False(t, m.saving)
	require.ErrorIs(t, m.saveErr, saveErr)
	require.Contains(t, m.View(), "Save failed")
}

func TestConfirm_RetryAfterFailure(t *testing.T) {
	m := New(step.Services{Cases: failingRepo{err: errors.New("locked")}}, draft())

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(cmd())
	require.NotNil(t, m.saveErr)

	// swap in a working repository and retry
	m.services.Cases = testutil.NewCaseRepo(t)
	m, cmd = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, m.saveErr)
	require.IsType(t, SavedMsg{}, cmd())
}

func TestConfirm_EscGoesBack(t *testing.T) {
	m := New(step.Services{}, draft())

	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	require.IsType(t, step.BackMsg{}, cmd())
}

func TestConfirm_ViewShowsRelationOutcomes(t *testing.T) {
	d := draft()
	d.BusinessRelationID = ""
	m := New(step.Services{}, d).SetSize(80, 24)

	view := m.View()

	require.Contains(t, view, "Leaking roof")
	require.Contains(t, view, "rel-1 (existing)")
	require.Contains(t, view, "new relation will be created")
}

func TestConfirm_SavePreservesExistingCreatedAt(t *testing.T) {
	repo := testutil.NewCaseRepo(t)
	d := draft()
	created := time.Now().Add(-time.Hour)
	d.CreatedAt = created
	d.UpdatedAt = created
	require.NoError(t, repo.Save(&d))

	m := New(step.Services{Cases: repo}, d)
	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	msg := cmd()

	saved, ok := msg.(SavedMsg)
	require.True(t, ok, "expected SavedMsg, got %T", msg)
	require.Equal(t, d.ID, saved.Case.ID)
	require.Equal(t, created.Unix(), saved.Case.CreatedAt.Unix())
}