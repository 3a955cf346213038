package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"intake/internal/cachemanager"
)

// countingSearcher records every pass-through call.
type countingSearcher struct {
	calls   int
	matches []Match
}

func (s *countingSearcher) Search(Kind, map[string]string) ([]Match, error) {
	s.calls++
	return s.matches, nil
}

func newLookupCache() cachemanager.CacheManager[string, []Match] {
	return cachemanager.NewInMemoryCacheManager[string, []Match](
		"lookup-test", time.Minute, time.Minute)
}

func TestCachedSearcher_SecondLookupHitsCache(t *testing.T) {
	next := &countingSearcher{matches: []Match{{ID: "rel-1"}}}
	s := NewCachedSearcher(next, newLookupCache(), time.Minute, true)

	criteria := map[string]string{"surname": "Jansen"}

	first, err := s.Search(KindPerson, criteria)
	require.NoError(t, err)
	second, err := s.Search(KindPerson, criteria)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, next.calls, "repeat criteria should be served from cache")
}

func TestCachedSearcher_DistinctCriteriaMiss(t *testing.T) {
	next := &countingSearcher{}
	s := NewCachedSearcher(next, newLookupCache(), time.Minute, true)

	_, err := s.Search(KindPerson, map[string]string{"surname": "Jansen"})
	require.NoError(t, err)
	_, err = s.Search(KindPerson, map[string]string{"surname": "de Vries"})
	require.NoError(t, err)

	require.Equal(t, 2, next.calls)
}

func TestCachedSearcher_KindPartOfKey(t *testing.T) {
	next := &countingSearcher{}
	s := NewCachedSearcher(next, newLookupCache(), time.Minute, true)

	criteria := map[string]string{"email": "info@devries.nl"}

	_, err := s.Search(KindPerson, criteria)
	require.NoError(t, err)
	_, err = s.Search(KindBusiness, criteria)
	require.NoError(t, err)

	require.Equal(t, 2, next.calls, "person and business lookups must not share entries")
}

func TestCachedSearcher_DisabledPassesThrough(t *testing.T) {
	next := &countingSearcher{}
	s := NewCachedSearcher(next, newLookupCache(), time.Minute, false)

	criteria := map[string]string{"surname": "Jansen"}
	for i := 0; i < 3; i++ {
		_, err := s.Search(KindPerson, criteria)
		require.NoError(t, err)
	}

	require.Equal(t, 3, next.calls)
}

func TestCacheKey_StableAcrossMapOrder(t *testing.T) {
	a := cacheKey(KindPerson, map[string]string{"surname": "Jansen", "email": "j@x.nl", "postcode": "1234 AB"})
	b := cacheKey(KindPerson, map[string]string{"postcode": "1234 AB", "email": "j@x.nl", "surname": "Jansen"})

	require.Equal(t, a, b)
}

func TestCacheKey_DistinguishesValues(t *testing.T) {
	a := cacheKey(KindPerson, map[string]string{"surname": "Jansen"})
	b := cacheKey(KindPerson, map[string]string{"surname": "Jansens"})

	require.NotEqual(t, a, b)
}
