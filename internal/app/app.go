// Package app contains the root application model: it owns the wizard flow,
// the step controllers and the toaster, and routes messages between them.
package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"intake/internal/casefile"
	"intake/internal/flow"
	"intake/internal/log"
	"intake/internal/pubsub"
	"intake/internal/registry"
	"intake/internal/session"
	"intake/internal/step"
	"intake/internal/step/confirm"
	"intake/internal/step/details"
	"intake/internal/step/dupcheck"
	"intake/internal/ui/styles"
	"intake/internal/ui/toaster"
)

const toastDuration = 3 * time.Second

// Model is the root application state.
type Model struct {
	services step.Services

	// Step controllers. Only the one matching the flow's current step is
	// active; the duplicate-check steps are rebuilt on entry so their
	// sessions start clean.
	details       details.Model
	personCheck   dupcheck.Model
	businessCheck dupcheck.Model
	confirm       confirm.Model

	// draft accumulates the case as the wizard progresses.
	draft casefile.Case

	toaster toaster.Model

	eventsCtx      context.Context
	eventsCancel   context.CancelFunc
	eventsListener *pubsub.ContinuousListener[flow.Event]

	width  int
	height int
}

// New creates the application model.
func New(services step.Services) Model {
	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		services:       services,
		details:        details.New(services),
		draft:          casefile.Case{GUID: uuid.NewString()},
		toaster:        toaster.New(),
		eventsCtx:      ctx,
		eventsCancel:   cancel,
		eventsListener: pubsub.NewContinuousListener(ctx, services.Flow.Events()),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.details.Init(),
		m.eventsListener.Listen(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.details = m.details.SetSize(msg.Width, msg.Height-1)
		m.personCheck = m.personCheck.SetSize(msg.Width, msg.Height-1)
		m.businessCheck = m.businessCheck.SetSize(msg.Width, msg.Height-1)
		m.confirm = m.confirm.SetSize(msg.Width, msg.Height-1)

		return m, nil

	case step.AdvanceMsg:
		return m.advanceFromDetails()

	case session.AdvanceMsg:
		return m.advanceFromCheck()

	case step.BackMsg:
		return m.goBack()

	case confirm.SavedMsg:
		return m.handleSaved(msg)

	case step.ShowNoticeMsg:
		m.toaster = m.toaster.Show(msg.Message, msg.Style)
		return m, toaster.ScheduleDismiss(toastDuration)

	case toaster.DismissMsg:
		m.toaster = m.toaster.Hide()
		return m, nil

	case pubsub.Event[flow.Event]:
		log.Debug(log.CatFlow, "Wizard event", "type", msg.Type, "guid", msg.Payload.CaseGUID)
		return m, m.eventsListener.Listen()
	}

	// Delegate everything else to the active step controller.
	var cmd tea.Cmd
	switch m.services.Flow.Current() {
	case flow.StepDetails:
		m.details, cmd = m.details.Update(msg)
	case flow.StepPersonCheck:
		m.personCheck, cmd = m.personCheck.Update(msg)
	case flow.StepBusinessCheck:
		m.businessCheck, cmd = m.businessCheck.Update(msg)
	case flow.StepConfirm:
		m.confirm, cmd = m.confirm.Update(msg)
	}
	return m, cmd
}

// advanceFromDetails moves from the details form to the person check.
func (m Model) advanceFromDetails() (tea.Model, tea.Cmd) {
	if m.services.Flow.Current() != flow.StepDetails {
		return m, nil
	}
	if _, ok := m.services.Flow.Advance(); !ok {
		return m, nil
	}

	m.draft.Subject = m.details.Subject()
	m.draft.Category = m.details.Category()
	m.draft.Step = flow.StepPersonCheck.String()

	return m.enterPersonCheck(m.details.Prefill())
}

// advanceFromCheck handles the advance signal from a duplicate-check
// session: record its outcome on the draft and enter the next step.
func (m Model) advanceFromCheck() (tea.Model, tea.Cmd) {
	switch m.services.Flow.Current() {
	case flow.StepPersonCheck:
		sess := m.personCheck.Session()
		m.draft.PersonRelationID = sess.SelectedID()
		m.draft.PersonExisting = sess.ExistingSelected()
		m.personCheck = m.personCheck.Dispose()

		if _, ok := m.services.Flow.Advance(); !ok {
			return m, nil
		}
		m.draft.Step = flow.StepBusinessCheck.String()
		return m.enterBusinessCheck()

	case flow.StepBusinessCheck:
		sess := m.businessCheck.Session()
		m.draft.BusinessRelationID = sess.SelectedID()
		m.draft.BusinessExisting = sess.ExistingSelected()
		m.businessCheck = m.businessCheck.Dispose()

		if _, ok := m.services.Flow.Advance(); !ok {
			return m, nil
		}
		m.draft.Step = flow.StepConfirm.String()
		m.confirm = confirm.New(m.services, m.draft).SetSize(m.width, m.height-1)
		return m, m.confirm.Init()
	}
	return m, nil
}

// goBack moves the wizard back one step.
func (m Model) goBack() (tea.Model, tea.Cmd) {
	t, ok := m.services.Flow.Back()
	if !ok {
		return m, nil
	}

	// Retire the session of the check we are leaving.
	switch t.From {
	case flow.StepPersonCheck:
		m.personCheck = m.personCheck.Dispose()
	case flow.StepBusinessCheck:
		m.businessCheck = m.businessCheck.Dispose()
	}

	// Rebuild the check we are returning to so its session starts clean.
	switch t.To {
	case flow.StepPersonCheck:
		return m.enterPersonCheck(m.details.Prefill())
	case flow.StepBusinessCheck:
		return m.enterBusinessCheck()
	}
	return m, nil
}

func (m Model) enterPersonCheck(prefill map[string]string) (tea.Model, tea.Cmd) {
	m.personCheck = dupcheck.New(m.services, registry.PersonFields(), "Person details", prefill).
		SetSize(m.width, m.height-1)
	var primeCmd tea.Cmd
	m.personCheck, primeCmd = m.personCheck.Prime()
	return m, tea.Batch(m.personCheck.Init(), primeCmd)
}

func (m Model) enterBusinessCheck() (tea.Model, tea.Cmd) {
	m.businessCheck = dupcheck.New(m.services, registry.BusinessFields(), "Business details", nil).
		SetSize(m.width, m.height-1)
	var primeCmd tea.Cmd
	m.businessCheck, primeCmd = m.businessCheck.Prime()
	return m, tea.Batch(m.businessCheck.Init(), primeCmd)
}

// handleSaved resets the wizard for the next case after a successful save.
func (m Model) handleSaved(msg confirm.SavedMsg) (tea.Model, tea.Cmd) {
	log.Info(log.CatSession, "Case saved", "guid", msg.Case.GUID, "id", msg.Case.ID)
	m.services.Flow.NotifySaved(msg.Case.GUID)
	m.services.Flow.Reset()

	m.draft = casefile.Case{GUID: uuid.NewString()}
	m.details = details.New(m.services).SetSize(m.width, m.height-1)
	m.toaster = m.toaster.Show("Case saved", toaster.StyleSuccess)

	return m, tea.Batch(m.details.Init(), toaster.ScheduleDismiss(toastDuration))
}

// View implements tea.Model.
func (m Model) View() string {
	var view string
	switch m.services.Flow.Current() {
	case flow.StepPersonCheck:
		view = m.personCheck.View()
	case flow.StepBusinessCheck:
		view = m.businessCheck.View()
	case flow.StepConfirm:
		view = m.confirm.View()
	default:
		view = m.details.View()
	}

	view = m.breadcrumb() + "\n" + view

	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	return view
}

// breadcrumb renders the wizard position header.
func (m Model) breadcrumb() string {
	steps := []flow.Step{flow.StepDetails, flow.StepPersonCheck, flow.StepBusinessCheck, flow.StepConfirm}
	parts := make([]string, len(steps))
	for i, s := range steps {
		label := s.String()
		if s == m.services.Flow.Current() {
			parts[i] = styles.HighlightStyle.Render(label)
		} else {
			parts[i] = styles.SubtleStyle.Render(label)
		}
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += styles.SubtleStyle.Render(" › ") + p
	}
	return out
}

// Close releases resources held by the application.
func (m *Model) Close() {
	m.eventsCancel()
	m.services.Flow.Close()
}
