package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"intake/internal/config"
	"intake/internal/flags"
	"intake/internal/flow"
	"intake/internal/registry"
	"intake/internal/session"
	"intake/internal/step"
	"intake/internal/step/confirm"
	"intake/internal/testutil"
	"intake/internal/ui/toaster"
)

// stubSearcher replays a canned outcome.
type stubSearcher struct {
	matches []registry.Match
}

func (s stubSearcher) Search(registry.Kind, map[string]string) ([]registry.Match, error) {
	return s.matches, nil
}

func createTestApp(t *testing.T) Model {
	t.Helper()

	cfg := config.Defaults()
	services := step.Services{
		Config:   &cfg,
		Searcher: stubSearcher{},
		Cases:    testutil.NewCaseRepo(t),
		Flow:     flow.New(),
		Flags:    flags.New(cfg.Flags),
	}

	m := New(services)
	t.Cleanup(m.Close)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestApp_New(t *testing.T) {
	m := createTestApp(t)

	require.Equal(t, flow.StepDetails, m.services.Flow.Current())
	require.NotEmpty(t, m.draft.GUID)
}

func TestApp_AdvanceFromDetails_CopiesDraftFields(t *testing.T) {
	m := createTestApp(t)

	m, _ = update(t, m, keyRunes("Leaking roof"))
	m, _ = update(t, m, step.AdvanceMsg{})

	require.Equal(t, flow.StepPersonCheck, m.services.Flow.Current())
	require.Equal(t, "Leaking roof", m.draft.Subject)
	require.Equal(t, "maintenance", m.draft.Category)
}

func TestApp_SessionAdvance_WalksBothChecks(t *testing.T) {
	m := createTestApp(t)
	m, _ = update(t, m, keyRunes("Leaking roof"))
	m, _ = update(t, m, step.AdvanceMsg{})

	m, _ = update(t, m, session.AdvanceMsg{})
	require.Equal(t, flow.StepBusinessCheck, m.services.Flow.Current())

	m, _ = update(t, m, session.AdvanceMsg{})
	require.Equal(t, flow.StepConfirm, m.services.Flow.Current())
}

func TestApp_SessionAdvance_WithoutSelectionLeavesDraftEmpty(t *testing.T) {
	m := createTestApp(t)
	m, _ = update(t, m, keyRunes("Leaking roof"))
	m, _ = update(t, m, step.AdvanceMsg{})

	m, _ = update(t, m, session.AdvanceMsg{})

	require.Empty(t, m.draft.PersonRelationID)
	require.False(t, m.draft.PersonExisting)
}

func TestApp_BackFromBusinessCheck(t *testing.T) {
	m := createTestApp(t)
	m, _ = update(t, m, keyRunes("Leaking roof"))
	m, _ = update(t, m, step.AdvanceMsg{})
	m, _ = update(t, m, session.AdvanceMsg{})
	require.Equal(t, flow.StepBusinessCheck, m.services.Flow.Current())

	m, _ = update(t, m, step.BackMsg{})

	require.Equal(t, flow.StepPersonCheck, m.services.Flow.Current())
}

func TestApp_BackFromFirstStepIgnored(t *testing.T) {
	m := createTestApp(t)

	m, cmd := update(t, m, step.BackMsg{})

	require.Nil(t, cmd)
	require.Equal(t, flow.StepDetails, m.services.Flow.Current())
}

func TestApp_SaveAtConfirm_PersistsAndResets(t *testing.T) {
	m := createTestApp(t)
	m, _ = update(t, m, keyRunes("Leaking roof"))
	m, _ = update(t, m, step.AdvanceMsg{})
	m, _ = update(t, m, session.AdvanceMsg{})
	m, _ = update(t, m, session.AdvanceMsg{})
	require.Equal(t, flow.StepConfirm, m.services.Flow.Current())

	firstGUID := m.draft.GUID

	// Enter at confirm runs the save command; its result comes back as a
	// SavedMsg which resets the wizard for the next case.
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, confirm.SavedMsg{}, msg)

	m, _ = update(t, m, msg)
	require.Equal(t, flow.StepDetails, m.services.Flow.Current())
	require.NotEqual(t, firstGUID, m.draft.GUID, "a fresh case draft should be started")
	require.True(t, m.toaster.Visible())

	saved, err := m.services.Cases.GetByGUID(firstGUID)
	require.NoError(t, err)
	require.NotNil(t, saved, "the case should be persisted under its GUID")
	require.Equal(t, "Leaking roof", saved.Subject)
	require.True(t, saved.Completed())
}

func TestApp_NoticeShowsToast(t *testing.T) {
	m := createTestApp(t)

	m, cmd := update(t, m, step.ShowNoticeMsg{Message: "Subject is required", Style: toaster.StyleWarn})
	require.True(t, m.toaster.Visible())
	require.NotNil(t, cmd, "a dismiss should be scheduled")

	m, _ = update(t, m, toaster.DismissMsg{})
	require.False(t, m.toaster.Visible())
}

func TestApp_View_NotPanicsAcrossSteps(t *testing.T) {
	m := createTestApp(t)
	require.NotPanics(t, func() { _ = m.View() })

	m, _ = update(t, m, keyRunes("Leaking roof"))
	m, _ = update(t, m, step.AdvanceMsg{})
	require.NotPanics(t, func() { _ = m.View() })

	m, _ = update(t, m, session.AdvanceMsg{})
	require.NotPanics(t, func() { _ = m.View() })

	m, _ = update(t, m, session.AdvanceMsg{})
	require.NotPanics(t, func() { _ = m.View() })
}
