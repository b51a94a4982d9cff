// Package stream implements the line-delimited wire protocol spoken by the
// agent endpoint: newline-separated frames where only lines prefixed with
// `data: ` carry payload, and each payload is a JSON object whose key
// presence, not an event "type" field, determines handling.
package stream

import (
	"encoding/json"
	"strings"

	"github.com/mlee0412/frok-server/internal/model"
)

// Event is one decoded unit of the agent stream. A single payload line may
// combine several keys (e.g. metrics together with a completion flag), so
// decoding a line yields a slice of events in the dispatch order below.
type Event interface {
	event()
}

// ErrorEvent is fatal for the turn: processing stops, already-rendered
// content is kept, and the message is surfaced to the user.
type ErrorEvent struct {
	Message string `json:"error"`
}

// MetadataEvent carries routing/telemetry info resolved before generation
// or updated mid-stream. It replaces, never merges with, prior metadata.
type MetadataEvent struct {
	Metadata model.StreamMetadata `json:"metadata"`
}

// DeltaEvent is an incremental text fragment appended to the running buffer.
type DeltaEvent struct {
	Text string `json:"delta"`
}

// ContentEvent is a full-content snapshot that replaces the running buffer
// wholesale. Backends emit either deltas or content snapshots, never both,
// but the decoder supports whichever arrives.
type ContentEvent struct {
	Text string `json:"content"`
}

// MetricsEvent carries run-level measurements applied to the final message.
type MetricsEvent struct {
	Metrics model.RunMetrics `json:"metrics"`
}

// ToolsEvent lists the tools actually invoked during the turn. When
// non-empty it is authoritative over the pre-dispatch metadata.tools plan.
type ToolsEvent struct {
	Tools []string `json:"tools"`
}

// DoneEvent signals the logical end of generation. It is not the end of the
// byte stream: readers keep reading until the transport reports exhaustion.
type DoneEvent struct {
	Done bool `json:"done"`
}

func (ErrorEvent) event()    {}
func (MetadataEvent) event() {}
func (DeltaEvent) event()    {}
func (ContentEvent) event()  {}
func (MetricsEvent) event()  {}
func (ToolsEvent) event()    {}
func (DoneEvent) event()     {}

// DecodeLine decodes the JSON remainder of one `data: ` line into events,
// checking fields in the fixed order
// error -> metadata -> delta -> metrics -> tools -> content -> done.
func DecodeLine(data []byte) ([]Event, error) {
	var raw struct {
		Error    *string               `json:"error"`
		Metadata *model.StreamMetadata `json:"metadata"`
		Delta    *string               `json:"delta"`
		Metrics  *model.RunMetrics     `json:"metrics"`
		Tools    []string              `json:"tools"`
		Content  *string               `json:"content"`
		Done     json.RawMessage       `json:"done"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var events []Event
	if raw.Error != nil {
		events = append(events, ErrorEvent{Message: *raw.Error})
	}
	if raw.Metadata != nil {
		events = append(events, MetadataEvent{Metadata: *raw.Metadata})
	}
	if raw.Delta != nil {
		events = append(events, DeltaEvent{Text: *raw.Delta})
	}
	if raw.Metrics != nil {
		events = append(events, MetricsEvent{Metrics: *raw.Metrics})
	}
	if raw.Tools != nil {
		events = append(events, ToolsEvent{Tools: raw.Tools})
	}
	if raw.Content != nil {
		events = append(events, ContentEvent{Text: *raw.Content})
	}
	if truthy(raw.Done) {
		events = append(events, DoneEvent{Done: true})
	}
	return events, nil
}

// truthy interprets the `done` flag the way loosely-typed producers emit it:
// any value other than absent, null, false, zero or an empty string is done.
func truthy(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
