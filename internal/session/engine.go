// Package session implements the duplicate-check search session shared by
// the person and business screens. As the user edits search criteria the
// engine debounces input, keeps at most one registry lookup in flight
// (queueing at most one refetch for criteria that changed mid-flight), runs
// a visible countdown when a completed lookup finds nothing, and guarantees
// the wizard-advance signal is emitted at most once per session no matter
// which path triggers it.
//
// The engine runs entirely inside the Bubble Tea update loop: timers are
// tea.Tick commands and lookup completions arrive as messages, so there is
// no shared-memory concurrency. Superseded timers are retired by version
// counters rather than cancellation; a tick or completion carrying a stale
// version is inert.
package session

import (
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"intake/internal/log"
	"intake/internal/registry"
)

// State identifies the session's position in its lifecycle.
type State int

const (
	// StateIdle: no timer live, no lookup in flight. Also the resting
	// state after an empty result whose countdown was cancelled or whose
	// expiry the flow refused.
	StateIdle State = iota
	// StateDebouncing: an input change is waiting out the quiet period.
	StateDebouncing
	// StateFetching: one lookup is in flight, criteria unchanged since
	// dispatch.
	StateFetching
	// StateFetchingPendingRefetch: one lookup is in flight and newer
	// criteria are queued for an immediate refetch on completion.
	StateFetchingPendingRefetch
	// StateAwaitingSelection: the last lookup found matches; waiting for
	// a row pick or an explicit create-new advance.
	StateAwaitingSelection
	// StateCountingDown: the last lookup found nothing; auto-advance
	// countdown is running.
	StateCountingDown
	// StateTransitioned: the advance signal has been emitted. Terminal.
	StateTransitioned
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateFetching:
		return "fetching"
	case StateFetchingPendingRefetch:
		return "fetching+pending"
	case StateAwaitingSelection:
		return "awaiting_selection"
	case StateCountingDown:
		return "counting_down"
	case StateTransitioned:
		return "transitioned"
	default:
		return "unknown"
	}
}

// FetchFunc issues one registry lookup for the given criteria.
type FetchFunc func(criteria map[string]string) ([]registry.Match, error)

// Gate reports whether the hosting workflow currently permits advancing.
type Gate interface {
	Permits() bool
}

// AdvanceMsg is the payload-free wizard-advance signal. Emitted at most once
// per session; the app consumes it and moves the flow forward.
type AdvanceMsg struct{}

// Options tunes session timing. Zero values fall back to the defaults.
type Options struct {
	Debounce  time.Duration // quiet period after input, default 100ms
	Countdown time.Duration // auto-advance wait on empty result, default 5s

	// DisableAutoAdvance skips the countdown entirely: an empty result
	// rests in StateIdle until the user acts.
	DisableAutoAdvance bool
}

const (
	defaultDebounce  = 100 * time.Millisecond
	defaultCountdown = 5 * time.Second

	// sigSeparator joins field values into a signature. An unlikely rune
	// in user input keeps adjacent fields from colliding.
	sigSeparator = "\x1f"
)

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = defaultDebounce
	}
	if o.Countdown <= 0 {
		o.Countdown = defaultCountdown
	}
	return o
}

// Internal messages. The owner field ties a message to the engine instance
// that scheduled it; version fields guard against superseded timers within
// that instance.

type debounceMsg struct {
	owner   uint64
	version int
}

type fetchDoneMsg struct {
	owner   uint64
	sig     string
	matches []registry.Match
	err     error
}

type countdownTickMsg struct {
	owner   uint64
	version int
}

// engineSeq hands out instance ids. A tea.Tick cannot be cancelled, so a
// retired engine's timers may outlive it; the id keeps them from landing in
// a replacement engine whose version counters start over.
var engineSeq atomic.Uint64

// Engine is the session state machine. Value semantics: Update returns the
// modified engine, Bubble Tea style.
type Engine struct {
	id uint64 // instance id stamped onto every message this engine schedules

	fields registry.FieldSet
	fetch  FetchFunc
	gate   Gate
	opts   Options

	state  State
	values []string

	// Timer generations. Bumping one retires every outstanding timer of
	// that kind; this is the single disposal mechanism for the session.
	searchVersion    int
	countdownVersion int

	outstanding bool
	pendingSig  string
	hasPending  bool

	fetched   bool
	results   []registry.Match
	lookupErr error

	remaining int

	fired            bool
	existingSelected bool
	selectedID       string
}

// New creates a session engine over the given field set.
func New(fields registry.FieldSet, fetch FetchFunc, gate Gate, opts Options) Engine {
	return Engine{
		id:     engineSeq.Add(1),
		fields: fields,
		fetch:  fetch,
		gate:   gate,
		opts:   opts.withDefaults(),
		values: make([]string, len(fields.Fields)),
	}
}

// State returns the current lifecycle state.
func (e Engine) State() State { return e.state }

// Results returns the outcome of the most recently surfaced lookup.
func (e Engine) Results() []registry.Match { return e.results }

// Fetched reports whether at least one lookup outcome has been surfaced.
func (e Engine) Fetched() bool { return e.fetched }

// Err returns the failure of the last surfaced lookup, if any.
func (e Engine) Err() error { return e.lookupErr }

// Remaining returns the countdown seconds left, zero when not counting down.
func (e Engine) Remaining() int { return e.remaining }

// Fired reports whether the advance signal has been emitted.
func (e Engine) Fired() bool { return e.fired }

// ExistingSelected reports whether the session ended on an existing relation.
func (e Engine) ExistingSelected() bool { return e.existingSelected }

// SelectedID returns the identifier of the selected relation, if any.
func (e Engine) SelectedID() string { return e.selectedID }

// Signature derives the canonical equality key over the current criteria.
// Pure: identical field values always yield the identical signature.
func (e Engine) Signature() string {
	return strings.Join(e.values, sigSeparator)
}

// Criteria returns the current non-empty criteria as a wire map.
func (e Engine) Criteria() map[string]string {
	criteria := make(map[string]string, len(e.values))
	for i, f := range e.fields.Fields {
		if v := strings.TrimSpace(e.values[i]); v != "" {
			criteria[f.Key] = v
		}
	}
	return criteria
}

func (e Engine) allEmpty() bool {
	for _, v := range e.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// CriteriaChanged records the new field values and schedules work: a
// debounced dispatch when nothing is in flight, or a pending refetch
// (latest wins) when a lookup is outstanding. Clearing every field cancels
// all scheduled work.
func (e Engine) CriteriaChanged(values []string) (Engine, tea.Cmd) {
	if e.fired {
		return e, nil
	}

	e.values = make([]string, len(e.fields.Fields))
	copy(e.values, values)

	// Any competing event tears down a running countdown before the
	// session moves on.
	e = e.cancelCountdown()
	e.searchVersion++ // last write wins: retire any pending debounce timer

	if e.allEmpty() {
		e.hasPending = false
		e.pendingSig = ""
		e.results = nil
		e.fetched = false
		e.lookupErr = nil
		if e.outstanding {
			// The in-flight lookup completes into cleared criteria
			// and is discarded there.
			e.state = StateFetching
		} else {
			e.state = StateIdle
		}
		return e, nil
	}

	if e.outstanding {
		e.pendingSig = e.Signature()
		e.hasPending = true
		e.state = StateFetchingPendingRefetch
		log.Debug(log.CatSession, "Refetch queued", "sig_len", len(e.pendingSig))
		return e, nil
	}

	e.state = StateDebouncing
	owner, version := e.id, e.searchVersion
	return e, tea.Tick(e.opts.Debounce, func(time.Time) tea.Msg {
		return debounceMsg{owner: owner, version: version}
	})
}

// SearchNow dispatches a lookup immediately, bypassing the debounce delay.
// Cancels any running countdown first.
func (e Engine) SearchNow() (Engine, tea.Cmd) {
	if e.fired || e.allEmpty() {
		return e, nil
	}
	e = e.cancelCountdown()
	e.searchVersion++
	if e.outstanding {
		e.pendingSig = e.Signature()
		e.hasPending = true
		e.state = StateFetchingPendingRefetch
		return e, nil
	}
	return e.dispatch()
}

// CancelCountdown stops a running countdown without advancing: the session
// rests on the empty result until the user acts again.
func (e Engine) CancelCountdown() Engine {
	if e.state != StateCountingDown {
		return e
	}
	e = e.cancelCountdown()
	e.state = StateIdle
	return e
}

// Dispose retires every live timer. Used on session teardown; any timer
// message that arrives afterwards is dropped by its version guard.
func (e Engine) Dispose() Engine {
	e.searchVersion++
	e = e.cancelCountdown()
	return e
}

// Update handles the engine's own timer and completion messages. Messages
// the engine does not own are ignored.
func (e Engine) Update(msg tea.Msg) (Engine, tea.Cmd) {
	switch msg := msg.(type) {
	case debounceMsg:
		if msg.owner != e.id || msg.version != e.searchVersion || e.fired {
			return e, nil // another engine's timer, or superseded
		}
		if e.outstanding || e.allEmpty() {
			return e, nil
		}
		return e.dispatch()

	case fetchDoneMsg:
		if msg.owner != e.id {
			return e, nil // completion for a retired engine
		}
		return e.handleFetchDone(msg)

	case countdownTickMsg:
		if msg.owner != e.id {
			return e, nil
		}
		return e.handleCountdownTick(msg)
	}

	return e, nil
}

// SelectMatch records the picked relation as the session's selection output
// and requests the advance. Cancels any running countdown first.
func (e Engine) SelectMatch(id string) (Engine, tea.Cmd) {
	if e.fired {
		return e, nil
	}
	e = e.cancelCountdown()
	e.existingSelected = true
	e.selectedID = id
	log.Info(log.CatSession, "Existing relation selected", "id", id)
	return e.requestAdvance()
}

// RequestAdvance is the explicit create-new path: no existing relation is
// selected and the wizard is asked to move on.
func (e Engine) RequestAdvance() (Engine, tea.Cmd) {
	if e.fired {
		return e, nil
	}
	e = e.cancelCountdown()
	e.existingSelected = false
	e.selectedID = ""
	return e.requestAdvance()
}

// dispatch issues the lookup for the current criteria. The completion
// message carries the dispatched signature so stale completions can be
// recognized.
func (e Engine) dispatch() (Engine, tea.Cmd) {
	if e.outstanding {
		// Upstream debouncing prevents this; re-checked so the
		// single-flight invariant survives any future caller.
		return e, nil
	}

	owner := e.id
	sig := e.Signature()
	criteria := e.Criteria()
	fetch := e.fetch

	e.outstanding = true
	e.state = StateFetching
	log.Debug(log.CatSession, "Lookup dispatched", "kind", e.fields.Kind, "fields", len(criteria))

	return e, func() tea.Msg {
		matches, err := fetch(criteria)
		return fetchDoneMsg{owner: owner, sig: sig, matches: matches, err: err}
	}
}

func (e Engine) handleFetchDone(msg fetchDoneMsg) (Engine, tea.Cmd) {
	e.outstanding = false

	if e.allEmpty() {
		// Criteria were cleared mid-flight; the outcome is stale and
		// nothing new should be issued.
		e.hasPending = false
		e.pendingSig = ""
		e.state = StateIdle
		return e, nil
	}

	if e.hasPending || msg.sig != e.Signature() {
		// Criteria moved on while this call was in flight. Refetch
		// immediately with the latest signature; the user only ever
		// sees an outcome matching what they typed last.
		e.hasPending = false
		e.pendingSig = ""
		return e.dispatch()
	}

	e.fetched = true
	e.lookupErr = msg.err

	if msg.err != nil {
		// Failures follow the empty-result path; only the message the
		// user sees differs.
		log.ErrorErr(log.CatSession, "Lookup failed", msg.err)
		e.results = []registry.Match{}
	} else {
		e.results = msg.matches
	}

	if len(e.results) > 0 {
		e = e.cancelCountdown()
		e.state = StateAwaitingSelection
		return e, nil
	}

	if e.opts.DisableAutoAdvance || e.fired {
		e.state = StateIdle
		return e, nil
	}
	return e.startCountdown()
}

func (e Engine) startCountdown() (Engine, tea.Cmd) {
	e.countdownVersion++
	e.remaining = int(e.opts.Countdown / time.Second)
	e.state = StateCountingDown

	owner, version := e.id, e.countdownVersion
	return e, tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownTickMsg{owner: owner, version: version}
	})
}

func (e Engine) handleCountdownTick(msg countdownTickMsg) (Engine, tea.Cmd) {
	if msg.version != e.countdownVersion || e.state != StateCountingDown {
		return e, nil // countdown was cancelled or superseded
	}

	e.remaining--
	if e.remaining > 0 {
		owner, version := e.id, e.countdownVersion
		return e, tea.Tick(time.Second, func(time.Time) tea.Msg {
			return countdownTickMsg{owner: owner, version: version}
		})
	}

	// Natural expiry: the timer is spent before the gate is consulted, so
	// a refused advance leaves no live timer and no automatic retry.
	e = e.cancelCountdown()
	before := e.fired
	e, cmd := e.requestAdvance()
	if !before && !e.fired {
		log.Debug(log.CatSession, "Countdown expired but flow refused advance")
		e.state = StateIdle
	}
	return e, cmd
}

// requestAdvance is the transition gate: idempotent, exactly-once. Countdown
// expiry, row selection, and the explicit create-new action all funnel here.
func (e Engine) requestAdvance() (Engine, tea.Cmd) {
	if e.fired {
		return e, nil
	}
	if e.gate != nil && !e.gate.Permits() {
		return e, nil
	}
	e.fired = true
	e.state = StateTransitioned
	log.Info(log.CatSession, "Advance signal emitted", "kind", e.fields.Kind, "existing", e.existingSelected)
	return e, func() tea.Msg { return AdvanceMsg{} }
}

func (e Engine) cancelCountdown() Engine {
	e.countdownVersion++
	e.remaining = 0
	return e
}
