// Package homeassistant is a thin REST client for a Home Assistant
// instance: entity state snapshots, service calls for device control, and a
// latency-measured ping used by the system health probe.
package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mlee0412/frok-server/internal/model"
)

// knownDomains are the entity domains surfaced as their own device type;
// everything else maps to "other".
var knownDomains = map[string]struct{}{
	"light":        {},
	"switch":       {},
	"climate":      {},
	"cover":        {},
	"media_player": {},
	"sensor":       {},
	"scene":        {},
	"script":       {},
}

// Client talks to the Home Assistant REST API.
type Client struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

type entityState struct {
	EntityID   string         `json:"entity_id"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// States fetches all entity states and maps them to device snapshots.
func (c *Client) States(ctx context.Context) ([]model.Device, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/states", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("home assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("home assistant returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var states []entityState
	if err := json.NewDecoder(resp.Body).Decode(&states); err != nil {
		return nil, fmt.Errorf("could not decode states: %w", err)
	}

	devices := make([]model.Device, 0, len(states))
	for _, s := range states {
		devices = append(devices, mapDevice(s))
	}
	return devices, nil
}

// CallService invokes a Home Assistant service (e.g. light.turn_on) against
// a single entity. Extra service data is passed through untouched.
func (c *Client) CallService(ctx context.Context, domain, service, entityID string, data map[string]any) error {
	payload := map[string]any{"entity_id": entityID}
	for k, v := range data {
		payload[k] = v
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not marshal service payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/services/"+domain+"/"+service, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("home assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("home assistant returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

// Ping checks API reachability and reports the round-trip latency.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/", nil)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return time.Since(start), fmt.Errorf("home assistant unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Since(start), fmt.Errorf("home assistant returned status %d", resp.StatusCode)
	}
	return time.Since(start), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func mapDevice(s entityState) model.Device {
	domain, _, _ := strings.Cut(s.EntityID, ".")
	if _, ok := knownDomains[domain]; !ok {
		domain = "other"
	}

	d := model.Device{
		ID:    s.EntityID,
		Name:  s.EntityID,
		Type:  domain,
		State: s.State,
		Attrs: s.Attributes,
	}
	if name, ok := s.Attributes["friendly_name"].(string); ok && name != "" {
		d.Name = name
	}
	if area, ok := s.Attributes["area"].(string); ok {
		d.Area = area
	}
	// Only an explicitly unreachable entity is marked offline; devices
	// without the flag are treated as online everywhere downstream.
	if s.State == "unavailable" || s.State == "unknown" {
		offline := false
		d.Online = &offline
	}
	return d
}
