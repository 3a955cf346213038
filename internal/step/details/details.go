// Package details implements the first wizard step: case subject, category
// and the reporter's basic details. The reporter fields seed the duplicate
// check criteria on the next step.
package details

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"intake/internal/step"
	"intake/internal/ui/styles"
	"intake/internal/ui/toaster"
)

// Categories a case can be filed under.
var categories = []string{"maintenance", "nuisance", "rent", "administration", "other"}

const (
	fieldSubject = iota
	fieldCategory
	fieldSurname
	fieldEmail
	fieldCount
)

// Model holds the details form state.
type Model struct {
	subject textinput.Model
	surname textinput.Model
	email   textinput.Model

	categoryIdx int
	focusIdx    int

	width  int
	height int
}

// New creates the details step.
func New(_ step.Services) Model {
	subject := textinput.New()
	subject.Placeholder = "Leaking roof in kitchen"
	subject.Prompt = ""
	subject.CharLimit = 120
	subject.Focus()

	surname := textinput.New()
	surname.Placeholder = "Jansen"
	surname.Prompt = ""
	surname.CharLimit = 80

	email := textinput.New()
	email.Placeholder = "reporter@example.com"
	email.Prompt = ""
	email.CharLimit = 120

	return Model{
		subject: subject,
		surname: surname,
		email:   email,
	}
}

// Init returns the cursor blink command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Subject returns the trimmed case subject.
func (m Model) Subject() string { return strings.TrimSpace(m.subject.Value()) }

// Category returns the selected category.
func (m Model) Category() string { return categories[m.categoryIdx] }

// Prefill returns duplicate-check criteria seeded from the reporter fields,
// keyed by wire key.
func (m Model) Prefill() map[string]string {
	prefill := make(map[string]string)
	if v := strings.TrimSpace(m.surname.Value()); v != "" {
		prefill["surname"] = v
	}
	if v := strings.TrimSpace(m.email.Value()); v != "" {
		prefill["email"] = v
	}
	return prefill
}

// SetSize handles terminal resize.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	inputWidth := max(width-8, 20)
	m.subject.Width = inputWidth
	m.surname.Width = inputWidth
	m.email.Width = inputWidth
	return m
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab", "down":
		m = m.setFocus((m.focusIdx + 1) % fieldCount)
		return m, nil

	case "shift+tab", "up":
		m = m.setFocus((m.focusIdx + fieldCount - 1) % fieldCount)
		return m, nil

	case "left":
		if m.focusIdx == fieldCategory {
			m.categoryIdx = (m.categoryIdx + len(categories) - 1) % len(categories)
			return m, nil
		}

	case "right":
		if m.focusIdx == fieldCategory {
			m.categoryIdx = (m.categoryIdx + 1) % len(categories)
			return m, nil
		}

	case "enter":
		if m.Subject() == "" {
			return m, func() tea.Msg {
				return step.ShowNoticeMsg{Message: "Subject is required", Style: toaster.StyleWarn}
			}
		}
		return m, func() tea.Msg { return step.AdvanceMsg{} }
	}

	var cmd tea.Cmd
	switch m.focusIdx {
	case fieldSubject:
		m.subject, cmd = m.subject.Update(msg)
	case fieldSurname:
		m.surname, cmd = m.surname.Update(msg)
	case fieldEmail:
		m.email, cmd = m.email.Update(msg)
	}
	return m, cmd
}

func (m Model) setFocus(idx int) Model {
	m.subject.Blur()
	m.surname.Blur()
	m.email.Blur()
	m.focusIdx = idx
	switch idx {
	case fieldSubject:
		m.subject.Focus()
	case fieldSurname:
		m.surname.Focus()
	case fieldEmail:
		m.email.Focus()
	}
	return m
}

// View renders the form.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(styles.LabelStyle.Render("Subject"))
	sb.WriteString("\n")
	sb.WriteString(m.subject.View())
	sb.WriteString("\n\n")

	sb.WriteString(styles.LabelStyle.Render("Category"))
	sb.WriteString("\n")
	sb.WriteString(m.renderCategory())
	sb.WriteString("\n\n")

	sb.WriteString(styles.LabelStyle.Render("Reporter surname"))
	sb.WriteString("\n")
	sb.WriteString(m.surname.View())
	sb.WriteString("\n\n")

	sb.WriteString(styles.LabelStyle.Render("Reporter email"))
	sb.WriteString("\n")
	sb.WriteString(m.email.View())
	sb.WriteString("\n\n")
	sb.WriteString(styles.SubtleStyle.Render("enter to continue"))

	return styles.TitleBorder(sb.String(), "New case", m.width, m.height, true)
}

func (m Model) renderCategory() string {
	parts := make([]string, len(categories))
	for i, c := range categories {
		if i == m.categoryIdx {
			if m.focusIdx == fieldCategory {
				parts[i] = styles.SelectionStyle.Render("[" + c + "]")
			} else {
				parts[i] = styles.HighlightStyle.Render(c)
			}
		} else {
			parts[i] = styles.SubtleStyle.Render(c)
		}
	}
	return strings.Join(parts, "  ")
}
