package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// envelopeKeys is the ordered list of conventional envelope properties the
// registry is known to wrap its match sequence in. Checked in order; the
// first present key wins even if a later one also holds an array.
var envelopeKeys = []string{"results", "records", "data", "items"}

// ErrUnknownShape is returned when a response is neither a bare match array
// nor an envelope containing one.
var ErrUnknownShape = errors.New("registry: unrecognized response shape")

// ExtractMatches unwraps a registry response body into its match sequence.
// Accepted shapes, in order:
//
//  1. a bare JSON array of matches
//  2. an object with one of the conventional envelope keys
//  3. an object whose first array-valued property (in document order) holds
//     the matches
//
// A nil error with a zero-length result is a legitimate "no matches" outcome.
func ExtractMatches(body []byte) ([]Match, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrUnknownShape)
	}

	switch trimmed[0] {
	case '[':
		var matches []Match
		if err := json.Unmarshal(trimmed, &matches); err != nil {
			return nil, fmt.Errorf("decoding match array: %w", err)
		}
		return matches, nil

	case '{':
		return extractFromEnvelope(trimmed)

	default:
		return nil, ErrUnknownShape
	}
}

// extractFromEnvelope scans the envelope object's properties in document
// order, so the "first array-valued property" fallback is deterministic.
func extractFromEnvelope(body []byte) ([]Match, error) {
	keys, values, err := objectProperties(body)
	if err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}

	for _, candidate := range envelopeKeys {
		for i, key := range keys {
			if key == candidate {
				return decodeMatchValue(key, values[i])
			}
		}
	}

	// Fallback: first property whose value is itself an array.
	for i, raw := range values {
		if isArray(raw) {
			return decodeMatchValue(keys[i], raw)
		}
	}

	return nil, ErrUnknownShape
}

// objectProperties decodes a JSON object into parallel key/value slices,
// preserving document order. json.Unmarshal into a map would lose it.
func objectProperties(body []byte) ([]string, []json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, ErrUnknownShape
	}

	var (
		keys   []string
		values []json.RawMessage
	)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, ErrUnknownShape
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, raw)
	}
	return keys, values, nil
}

func decodeMatchValue(key string, raw json.RawMessage) ([]Match, error) {
	if !isArray(raw) {
		return nil, fmt.Errorf("%w: property %q is not an array", ErrUnknownShape, key)
	}
	var matches []Match
	if err := json.Unmarshal(raw, &matches); err != nil {
		return nil, fmt.Errorf("decoding matches under %q: %w", key, err)
	}
	return matches, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
