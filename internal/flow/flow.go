// Package flow models the case-intake wizard: its ordered steps, the set of
// actions the host currently permits, and step transitions. Screen
// controllers never advance the wizard themselves; they emit an advance
// signal and the app asks the flow.
package flow

import (
	"intake/internal/log"
	"intake/internal/pubsub"
)

// Step identifies one wizard screen.
type Step int

const (
	StepDetails Step = iota
	StepPersonCheck
	StepBusinessCheck
	StepConfirm
)

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepPersonCheck:
		return "person_check"
	case StepBusinessCheck:
		return "business_check"
	case StepConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// Action is a named capability token exposed by the flow.
type Action string

const (
	ActionNext Action = "NEXT"
	ActionBack Action = "BACK"
)

// Transition records one completed step change.
type Transition struct {
	From Step
	To   Step
}

// Event is published on the flow broker. Transition is set for step events;
// CaseGUID only for case_saved events.
type Event struct {
	Transition Transition
	CaseGUID   string
}

// Flow tracks the wizard's current step and which actions it permits.
type Flow struct {
	current Step
	blocked map[Step]bool
	events  *pubsub.Broker[Event]
}

// New creates a flow positioned at the first step.
func New() *Flow {
	return &Flow{
		blocked: make(map[Step]bool),
		events:  pubsub.NewBroker[Event](),
	}
}

// Events exposes the broker carrying wizard events.
func (f *Flow) Events() *pubsub.Broker[Event] {
	return f.events
}

// Close shuts down the event broker.
func (f *Flow) Close() {
	f.events.Close()
}

// Current returns the active step.
func (f *Flow) Current() Step {
	return f.current
}

// AvailableActions returns the capability tokens currently permitted.
// The duplicate-check transition gate checks ActionNext membership here
// before emitting its advance signal.
func (f *Flow) AvailableActions() map[Action]struct{} {
	actions := make(map[Action]struct{}, 2)
	if f.current < StepConfirm && !f.blocked[f.current] {
		actions[ActionNext] = struct{}{}
	}
	if f.current > StepDetails {
		actions[ActionBack] = struct{}{}
	}
	return actions
}

// Permits reports whether the named action is currently available.
func (f *Flow) Permits(a Action) bool {
	_, ok := f.AvailableActions()[a]
	return ok
}

// Reset returns the flow to the first step for a new case.
func (f *Flow) Reset() {
	f.current = StepDetails
	f.blocked = make(map[Step]bool)
}

// SetBlocked marks a step as unable to advance (e.g. its form is invalid).
func (f *Flow) SetBlocked(s Step, blocked bool) {
	f.blocked[s] = blocked
}

// Advance moves to the next step if permitted.
func (f *Flow) Advance() (Transition, bool) {
	if !f.Permits(ActionNext) {
		return Transition{}, false
	}
	t := Transition{From: f.current, To: f.current + 1}
	f.current = t.To
	log.Info(log.CatFlow, "Step advanced", "from", t.From, "to", t.To)
	f.events.Publish(pubsub.StepAdvancedEvent, Event{Transition: t})
	return t, true
}

// Back moves to the previous step if permitted.
func (f *Flow) Back() (Transition, bool) {
	if !f.Permits(ActionBack) {
		return Transition{}, false
	}
	t := Transition{From: f.current, To: f.current - 1}
	f.current = t.To
	log.Info(log.CatFlow, "Step moved back", "from", t.From, "to", t.To)
	f.events.Publish(pubsub.StepAdvancedEvent, Event{Transition: t})
	return t, true
}

// NotifySaved publishes a case_saved event.
func (f *Flow) NotifySaved(guid string) {
	f.events.Publish(pubsub.CaseSavedEvent, Event{CaseGUID: guid})
}
