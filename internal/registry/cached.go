package registry

import (
	"sort"
	"strings"
	"time"

	"intake/internal/cachemanager"
)

// CachedSearcher layers a signature-keyed read-through cache over another
// Searcher. The session's single-flight behavior is unaffected; this only
// short-circuits repeat lookups for criteria the user already tried.
type CachedSearcher struct {
	rt  *cachemanager.ReadThroughCache[string, []Match, searchInput]
	ttl time.Duration
}

type searchInput struct {
	kind     Kind
	criteria map[string]string
}

// NewCachedSearcher wraps next with a lookup cache. enabled=false passes
// every call straight through.
func NewCachedSearcher(next Searcher, cache cachemanager.CacheManager[string, []Match], ttl time.Duration, enabled bool) *CachedSearcher {
	fn := func(in searchInput) ([]Match, error) {
		return next.Search(in.kind, in.criteria)
	}
	return &CachedSearcher{
		rt:  cachemanager.NewReadThroughCache(cache, fn, !enabled),
		ttl: ttl,
	}
}

// Search implements Searcher.
func (s *CachedSearcher) Search(kind Kind, criteria map[string]string) ([]Match, error) {
	return s.rt.Get(cacheKey(kind, criteria), searchInput{kind: kind, criteria: criteria}, s.ttl)
}

// cacheKey derives a stable key from the criteria map. The map carries only
// non-empty fields, so key order must be pinned explicitly.
func cacheKey(kind Kind, criteria map[string]string) string {
	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(string(kind))
	for _, k := range keys {
		sb.WriteByte(0x1f)
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(criteria[k])
	}
	return sb.String()
}
