// Package step defines the wizard step controller contract and the shared
// services injected into every step.
package step

import (
	tea "github.com/charmbracelet/bubbletea"

	"intake/internal/casefile"
	"intake/internal/config"
	"intake/internal/flags"
	"intake/internal/flow"
	"intake/internal/registry"
	"intake/internal/ui/toaster"
)

// Controller is implemented by every wizard step.
type Controller interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Controller, tea.Cmd)
	View() string
	SetSize(width, height int) Controller
}

// Services contains shared dependencies injected into step controllers.
type Services struct {
	Config   *config.Config
	Searcher registry.Searcher
	Cases    casefile.Repository
	Flow     *flow.Flow
	Flags    *flags.Registry
}

// AdvanceMsg asks the app to move the wizard forward. Emitted by the simple
// steps; the duplicate-check steps go through their session engine's gate
// instead.
type AdvanceMsg struct{}

// BackMsg asks the app to move the wizard back one step.
type BackMsg struct{}

// ShowNoticeMsg asks the app to show a toast.
type ShowNoticeMsg struct {
	Message string
	Style   toaster.Style
}
