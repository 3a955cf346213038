// Package registry provides the client for the remote relation registry,
// the duplicate-check field sets, and the response envelope parser.
package registry

// Kind distinguishes person relations from business relations.
type Kind string

const (
	KindPerson   Kind = "person"
	KindBusiness Kind = "business"
)

// Match is a single relation returned by a registry lookup.
type Match struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"kind,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	KvkNumber string `json:"kvk_number,omitempty"`
}

// Searcher issues a lookup against the relation registry.
// Implemented by Client and by CachedSearcher.
type Searcher interface {
	Search(kind Kind, criteria map[string]string) ([]Match, error)
}
