package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractMatches_BareArray(t *testing.T) {
	body := `[{"id":"rel-1","name":"P. Jansen"},{"id":"rel-2","name":"K. de Vries"}]`

	matches, err := ExtractMatches([]byte(body))

	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, "rel-1", matches[0].ID)
	require.Equal(t, "K. de Vries", matches[1].Name)
}

func TestExtractMatches_EnvelopeKeys(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"results", `{"results":[{"id":"rel-1"}]}`},
		{"records", `{"records":[{"id":"rel-1"}]}`},
		{"data", `{"data":[{"id":"rel-1"}]}`},
		{"items", `{"items":[{"id":"rel-1"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := ExtractMatches([]byte(tt.body))
			require.NoError(t, err)
			require.Len(t, matches, 1)
			require.Equal(t, "rel-1", matches[0].ID)
		})
	}
}

func TestExtractMatches_KeyOrderBeatsDocumentOrder(t *testing.T) {
	// "data" appears first in the document but "results" outranks it.
	body := `{"data":[{"id":"wrong"}],"results":[{"id":"right"}]}`

	matches, err := ExtractMatches([]byte(body))

	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "right", matches[0].ID)
}

func TestExtractMatches_KnownKeyWinsEvenWhenNotArray(t *testing.T) {
	// The first present conventional key is authoritative: a malformed
	// value there is an error, not a reason to fall through.
	body := `{"results":"oops","records":[{"id":"rel-1"}]}`

	_, err := ExtractMatches([]byte(body))

	require.ErrorIs(t, err, ErrUnknownShape)
}

func TestExtractMatches_FallbackFirstArrayProperty(t *testing.T) {
	body := `{"meta":{"took":12},"count":2,"hits":[{"id":"rel-1"},{"id":"rel-2"}],"other":[{"id":"x"}]}`

	matches, err := ExtractMatches([]byte(body))

	require.NoError(t, err)
	require.Len(t, matches, 2, "first array-valued property in document order should win")
	require.Equal(t, "rel-1", matches[0].ID)
}

func TestExtractMatches_EmptyEnvelopeArray(t *testing.T) {
	matches, err := ExtractMatches([]byte(`{"results":[]}`))

	require.NoError(t, err)
	require.Empty(t, matches, "zero matches is a legitimate outcome, not an error")
}

func TestExtractMatches_UnknownShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"whitespace only", `   `},
		{"scalar", `42`},
		{"string", `"hello"`},
		{"object without arrays", `{"count":0,"meta":{"took":3}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractMatches([]byte(tt.body))
			require.ErrorIs(t, err, ErrUnknownShape)
		})
	}
}

func TestExtractMatches_MalformedJSON(t *testing.T) {
	_, err := ExtractMatches([]byte(`[{"id":`))
	require.Error(t, err)

	_, err = ExtractMatches([]byte(`{"results":[{"id":}]}`))
	require.Error(t, err)
}

func TestExtractMatches_FieldMapping(t *testing.T) {
	body := `{"results":[{
		"id":"rel-9","kind":"business","name":"Dakdekkers BV",
		"email":"info@dak.nl","phone":"020-1234567",
		"address":"Keizersgracht 1, Amsterdam","kvk_number":"12345678"
	}]}`

	matches, err := ExtractMatches([]byte(body))

	require.NoError(t, err)
	require.Len(t, matches, 1)
	m := matches[0]
	require.Equal(t, KindBusiness, m.Kind)
	require.Equal(t, "Dakdekkers BV", m.Name)
	require.Equal(t, "info@dak.nl", m.Email)
	require.Equal(t, "12345678", m.KvkNumber)
}
