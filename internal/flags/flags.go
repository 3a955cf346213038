// Package flags provides feature flag support for controlled feature rollout.
// Flags are read-only after initialization and unknown flags default to off.
package flags

import (
	"maps"

	"intake/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagLookupCache controls whether registry lookups are cached by
	// criteria signature.
	FlagLookupCache = "lookup-cache"

	// FlagAutoAdvance controls whether an empty duplicate-check result
	// starts the auto-advance countdown. When disabled the user must
	// advance explicitly.
	FlagAutoAdvance = "auto-advance"
)

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map.
// A nil map yields an empty registry (all flags disabled).
func New(flags map[string]bool) *Registry {
	if flags == nil {
		flags = make(map[string]bool)
	}
	r := &Registry{flags: flags}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(flags), "flags", r.All())
	return r
}

// Enabled returns true if the named flag is enabled.
// Returns false for unknown flags and on a nil registry.
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		return false
	}
	return value
}

// All returns a copy of all flags for debugging and logging.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	result := make(map[string]bool, len(r.flags))
	maps.Copy(result, r.flags)
	return result
}
