package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"intake/internal/log"
)

// Client talks HTTP to the relation registry.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a registry client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Search posts the criteria map to the registry's search endpoint for the
// given relation kind and unwraps whatever envelope comes back.
func (c *Client) Search(kind Kind, criteria map[string]string) ([]Match, error) {
	payload, err := json.Marshal(criteria)
	if err != nil {
		return nil, fmt.Errorf("encoding criteria: %w", err)
	}

	url := c.searchURL(kind)
	log.Debug(log.CatLookup, "Registry search", "url", url, "fields", len(criteria))

	resp, err := c.httpc.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.ErrorErr(log.CatLookup, "Registry request failed", err, "url", url)
		return nil, fmt.Errorf("registry request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading registry response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error(log.CatLookup, "Registry returned non-OK status", "status", resp.StatusCode)
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	matches, err := ExtractMatches(body)
	if err != nil {
		return nil, err
	}
	log.Debug(log.CatLookup, "Registry search completed", "matches", len(matches))
	return matches, nil
}

func (c *Client) searchURL(kind Kind) string {
	switch kind {
	case KindBusiness:
		return c.baseURL + "/relations/businesses/search"
	default:
		return c.baseURL + "/relations/persons/search"
	}
}
