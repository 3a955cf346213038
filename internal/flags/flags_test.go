package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	r := New(map[string]bool{
		FlagLookupCache: true,
		FlagAutoAdvance: false,
	})

	require.True(t, r.Enabled(FlagLookupCache))
	require.False(t, r.Enabled(FlagAutoAdvance))
}

func TestRegistry_UnknownFlagDefaultsOff(t *testing.T) {
	r := New(map[string]bool{FlagLookupCache: true})

	require.False(t, r.Enabled("nonexistent-flag"))
}

func TestRegistry_NilMap(t *testing.T) {
	r := New(nil)

	require.False(t, r.Enabled(FlagLookupCache))
	require.Empty(t, r.All())
}

func TestRegistry_NilReceiver(t *testing.T) {
	var r *Registry

	require.False(t, r.Enabled(FlagLookupCache))
	require.Empty(t, r.All())
}

func TestRegistry_AllReturnsCopy(t *testing.T) {
	r := New(map[string]bool{FlagLookupCache: true})

	all := r.All()
	all[FlagLookupCache] = false

	require.True(t, r.Enabled(FlagLookupCache), "mutating the copy must not affect the registry")
}
