// Package dupcheck implements the duplicate-check wizard screens. One
// controller serves both the person and business checks; the field set is
// the only difference. All session behavior (debounce, single-flight
// lookups, countdown, transition gate) lives in the session engine.
package dupcheck

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"intake/internal/flags"
	"intake/internal/flow"
	"intake/internal/registry"
	"intake/internal/session"
	"intake/internal/step"
	"intake/internal/ui/styles"
	"intake/internal/ui/toaster"
)

// FocusPane represents which zone has keyboard focus.
type FocusPane int

const (
	FocusForm FocusPane = iota
	FocusResults
	FocusCreateNew
)

// flowGate adapts the wizard flow to the session engine's gate contract.
type flowGate struct {
	flow *flow.Flow
}

func (g flowGate) Permits() bool {
	return g.flow.Permits(flow.ActionNext)
}

// Model holds the duplicate-check screen state.
type Model struct {
	services step.Services
	fields   registry.FieldSet
	title    string

	sess   session.Engine
	inputs []textinput.Model

	resultsList list.Model

	focus       FocusPane
	focusIdx    int // focused input when focus == FocusForm
	selectedIdx int // highlighted row when focus == FocusResults

	confirmNew bool

	width  int
	height int
}

// New creates a duplicate-check screen for the given field set. prefill
// seeds criteria values by wire key (from the details step) and triggers an
// initial search from Init.
func New(services step.Services, fields registry.FieldSet, title string, prefill map[string]string) Model {
	inputs := make([]textinput.Model, len(fields.Fields))
	for i, f := range fields.Fields {
		in := textinput.New()
		in.Placeholder = f.Placeholder
		in.Prompt = ""
		in.CharLimit = 80
		if v, ok := prefill[f.Key]; ok {
			in.SetValue(v)
		}
		inputs[i] = in
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}

	fetch := func(criteria map[string]string) ([]registry.Match, error) {
		return services.Searcher.Search(fields.Kind, criteria)
	}
	opts := session.Options{
		Debounce:           services.Config.DebounceInterval(),
		Countdown:          services.Config.CountdownDuration(),
		DisableAutoAdvance: !services.Flags.Enabled(flags.FlagAutoAdvance),
	}

	resultsList := list.New([]list.Item{}, newMatchDelegate(fields.Kind), 0, 0)
	resultsList.SetShowTitle(false)
	resultsList.SetShowStatusBar(false)
	resultsList.SetShowHelp(false)
	resultsList.SetFilteringEnabled(false)

	return Model{
		services:    services,
		fields:      fields,
		title:       title,
		sess:        session.New(fields, fetch, flowGate{flow: services.Flow}, opts),
		inputs:      inputs,
		resultsList: resultsList,
	}
}

// Init returns the cursor blink command. The initial search for prefilled
// criteria goes through Prime so the session state survives value semantics.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Prime applies the prefilled criteria to the session and returns the
// updated model with the dispatch command.
func (m Model) Prime() (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.sess, cmd = m.sess.CriteriaChanged(m.values())
	return m, cmd
}

// Session exposes the engine for the app to read selection outputs.
func (m Model) Session() session.Engine {
	return m.sess
}

// Dispose retires the session's timers. Called when the wizard leaves this
// step.
func (m Model) Dispose() Model {
	m.sess = m.sess.Dispose()
	return m
}

// SetSize handles terminal resize.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	if width == 0 || height == 0 {
		return m
	}
	inputWidth := max(width/2-6, 10)
	for i := range m.inputs {
		m.inputs[i].Width = inputWidth
	}
	rightWidth := width - width/2 - 1
	m.resultsList.SetSize(rightWidth-4, height-4)
	return m
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(key)
	}

	// Everything else (debounce timers, lookup completions, countdown
	// ticks) belongs to the session engine.
	var cmd tea.Cmd
	m.sess, cmd = m.sess.Update(msg)
	m = m.syncResults()
	return m, cmd
}

// syncResults mirrors the session's result set into the list model.
func (m Model) syncResults() Model {
	results := m.sess.Results()
	if len(m.resultsList.Items()) == len(results) && len(results) == 0 {
		return m
	}
	items := make([]list.Item, len(results))
	for i, match := range results {
		items[i] = matchItem{match: match}
	}
	m.resultsList.SetItems(items)
	if m.selectedIdx >= len(results) {
		m.selectedIdx = 0
	}
	m.resultsList.Select(m.selectedIdx)
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.sess.State() == session.StateCountingDown {
			m.sess = m.sess.CancelCountdown()
			return m, nil
		}
		return m, func() tea.Msg { return step.BackMsg{} }

	case "tab":
		return m.cycleFocus(1), nil

	case "shift+tab":
		return m.cycleFocus(-1), nil
	}

	switch m.focus {
	case FocusForm:
		return m.handleFormKey(msg)
	case FocusResults:
		return m.handleResultsKey(msg)
	default:
		return m.handleCreateNewKey(msg)
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		// Explicit search: bypass the debounce delay.
		var cmd tea.Cmd
		m.sess, cmd = m.sess.SearchNow()
		return m, cmd

	case "up":
		if m.focusIdx > 0 {
			m.setFocusedInput(m.focusIdx - 1)
		}
		return m, nil

	case "down":
		if m.focusIdx < len(m.inputs)-1 {
			m.setFocusedInput(m.focusIdx + 1)
		} else {
			return m.cycleFocus(1), nil
		}
		return m, nil

	default:
		old := m.inputs[m.focusIdx].Value()
		var inputCmd tea.Cmd
		m.inputs[m.focusIdx], inputCmd = m.inputs[m.focusIdx].Update(msg)

		if m.inputs[m.focusIdx].Value() == old {
			return m, inputCmd
		}
		var sessCmd tea.Cmd
		m.sess, sessCmd = m.sess.CriteriaChanged(m.values())
		return m, tea.Batch(inputCmd, sessCmd)
	}
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	results := m.sess.Results()
	switch msg.String() {
	case "j", "down":
		if m.selectedIdx < len(results)-1 {
			m.selectedIdx++
			m.resultsList.Select(m.selectedIdx)
		}
		return m, nil

	case "k", "up":
		if m.selectedIdx > 0 {
			m.selectedIdx--
			m.resultsList.Select(m.selectedIdx)
		}
		return m, nil

	case "enter":
		if m.selectedIdx >= 0 && m.selectedIdx < len(results) {
			var cmd tea.Cmd
			m.sess, cmd = m.sess.SelectMatch(results[m.selectedIdx].ID)
			return m, cmd
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleCreateNewKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case " ", "space":
		m.confirmNew = !m.confirmNew
		m.sess = m.sess.CancelCountdown()
		return m, nil

	case "enter":
		if !m.confirmNew {
			return m, func() tea.Msg {
				return step.ShowNoticeMsg{Message: "Tick the checkbox to continue without a match", Style: toaster.StyleWarn}
			}
		}
		var cmd tea.Cmd
		m.sess, cmd = m.sess.RequestAdvance()
		return m, cmd
	}
	return m, nil
}

func (m Model) cycleFocus(dir int) Model {
	zones := 3
	next := (int(m.focus) + dir + zones) % zones
	m.blurInputs()
	m.focus = FocusPane(next)
	if m.focus == FocusForm {
		m.setFocusedInput(m.focusIdx)
	}
	return m
}

func (m *Model) setFocusedInput(idx int) {
	m.blurInputs()
	m.focusIdx = idx
	m.inputs[idx].Focus()
}

func (m *Model) blurInputs() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m Model) values() []string {
	values := make([]string, len(m.inputs))
	for i := range m.inputs {
		values[i] = m.inputs[i].Value()
	}
	return values
}

// View renders the split criteria/results layout.
func (m Model) View() string {
	gap := 1
	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - gap

	left := styles.TitleBorder(m.renderForm(), m.title, leftWidth, m.height-1, m.focus == FocusForm)
	right := styles.TitleBorder(m.renderResults(), m.resultsTitle(), rightWidth, m.height-1, m.focus != FocusForm)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", gap), right)
	return body + "\n" + m.renderStatusLine()
}

func (m Model) renderForm() string {
	var sb strings.Builder
	for i, f := range m.fields.Fields {
		sb.WriteString(styles.LabelStyle.Render(f.Label))
		sb.WriteString("\n")
		sb.WriteString(m.inputs[i].View())
		if i < len(m.fields.Fields)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m Model) resultsTitle() string {
	if n := len(m.sess.Results()); n > 0 {
		return fmt.Sprintf("Possible duplicates (%d)", n)
	}
	return "Possible duplicates"
}

func (m Model) renderResults() string {
	results := m.sess.Results()

	switch {
	case m.sess.Err() != nil:
		// Failures and zero matches share one control path; only this
		// message differs.
		return styles.ErrorStyle.Render("Lookup failed, continuing as if no match was found")
	case len(results) > 0:
		return m.resultsList.View()
	case m.sess.State() == session.StateFetching || m.sess.State() == session.StateFetchingPendingRefetch:
		return styles.SubtleStyle.Render("Searching…")
	case m.sess.Fetched():
		return styles.SubtleStyle.Render("No matching relations found")
	default:
		return styles.SubtleStyle.Render("Enter criteria to search the relation registry")
	}
}

func (m Model) renderStatusLine() string {
	checkbox := "[ ]"
	if m.confirmNew {
		checkbox = "[x]"
	}
	createNew := fmt.Sprintf("%s Create new relation", checkbox)
	if m.focus == FocusCreateNew {
		createNew = styles.SelectionStyle.Render(createNew + "  (enter to continue)")
	} else {
		createNew = styles.SubtleStyle.Render(createNew)
	}

	if m.sess.State() == session.StateCountingDown {
		banner := fmt.Sprintf("No matches - continuing in %ds (esc to stay)", m.sess.Remaining())
		return styles.CountdownStyle.Render(banner) + "  " + createNew
	}
	return createNew
}

// matchItem wraps a registry match for the results list.
type matchItem struct {
	match registry.Match
}

func (i matchItem) FilterValue() string { return i.match.Name }

// matchDelegate renders one candidate per row.
type matchDelegate struct {
	kind registry.Kind
}

func newMatchDelegate(kind registry.Kind) matchDelegate {
	return matchDelegate{kind: kind}
}

// Height returns the height of a single list item.
func (d matchDelegate) Height() int { return 1 }

// Spacing returns the spacing between list items.
func (d matchDelegate) Spacing() int { return 0 }

// Update handles updates for list items (no-op for read-only display).
func (d matchDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render renders a single list item.
func (d matchDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	match := item.(matchItem).match

	selected := index == m.Index()
	prefix := "  "
	if selected {
		prefix = styles.SelectionStyle.Render("> ")
	}

	detail := match.Email
	if detail == "" {
		detail = match.Address
	}
	if d.kind == registry.KindBusiness && match.KvkNumber != "" {
		detail = "KvK " + match.KvkNumber
	}

	name := match.Name
	if selected {
		name = styles.SelectionStyle.Render(name)
	}
	fmt.Fprintf(w, "%s%s %s", prefix, name, styles.SubtleStyle.Render(detail))
}
