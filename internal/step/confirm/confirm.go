// Package confirm implements the final wizard step: a summary of the case
// draft and the save action.
package confirm

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"intake/internal/casefile"
	"intake/internal/flow"
	"intake/internal/log"
	"intake/internal/step"
	"intake/internal/ui/styles"
)

// SavedMsg reports a successful save to the app.
type SavedMsg struct {
	Case casefile.Case
}

// saveErrMsg reports a failed save.
type saveErrMsg struct {
	err error
}

// Model holds the confirm step state.
type Model struct {
	services step.Services
	draft    casefile.Case

	saving  bool
	saveErr error

	width  int
	height int
}

// New creates the confirm step for the given draft.
func New(services step.Services, draft casefile.Case) Model {
	return Model{
		services: services,
		draft:    draft,
	}
}

// Init is a no-op.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize handles terminal resize.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case saveErrMsg:
		m.saving = false
		m.saveErr = msg.err
		log.ErrorErr(log.CatDB, "case save failed", msg.err)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		return m, func() tea.Msg { return step.BackMsg{} }

	case "enter":
		if m.saving {
			return m, nil
		}
		m.saving = true
		m.saveErr = nil
		return m, m.save()
	}
	return m, nil
}

// save persists the draft off the event loop.
func (m Model) save() tea.Cmd {
	repo := m.services.Cases
	saved := m.draft

	return func() tea.Msg {
		now := time.Now()
		if saved.CreatedAt.IsZero() {
			saved.CreatedAt = now
		}
		saved.UpdatedAt = now
		saved.CompletedAt = &now
		saved.Step = flow.StepConfirm.String()

		if err := repo.Save(&saved); err != nil {
			return saveErrMsg{err: err}
		}
		return SavedMsg{Case: saved}
	}
}

// View renders the summary.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.row("Subject", m.draft.Subject))
	sb.WriteString(m.row("Category", m.draft.Category))
	sb.WriteString(m.row("Person", m.relationLine(m.draft.PersonRelationID, m.draft.PersonExisting)))
	sb.WriteString(m.row("Business", m.relationLine(m.draft.BusinessRelationID, m.draft.BusinessExisting)))
	sb.WriteString("\n")

	switch {
	case m.saveErr != nil:
		sb.WriteString(styles.ErrorStyle.Render("Save failed: " + m.saveErr.Error()))
		sb.WriteString("\n")
		sb.WriteString(styles.SubtleStyle.Render("enter to retry, esc to go back"))
	case m.saving:
		sb.WriteString(styles.SubtleStyle.Render("Saving…"))
	default:
		sb.WriteString(styles.SubtleStyle.Render("enter to save the case, esc to go back"))
	}

	return styles.TitleBorder(sb.String(), "Confirm", m.width, m.height, true)
}

func (m Model) row(label, value string) string {
	if value == "" {
		value = styles.SubtleStyle.Render("-")
	}
	return fmt.Sprintf("%s  %s\n", styles.LabelStyle.Render(fmt.Sprintf("%-10s", label)), value)
}

func (m Model) relationLine(relationID string, existing bool) string {
	if relationID == "" {
		return "new relation will be created"
	}
	if existing {
		return relationID + " (existing)"
	}
	return relationID
}
