package model

import (
	"time"
)

// Thread stores metadata about a conversation.
type Thread struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Tags         []string  `json:"tags,omitempty"`
	Folder       string    `json:"folder,omitempty"`
	Pinned       bool      `json:"pinned"`
	Archived     bool      `json:"archived"`
	EnabledTools []string  `json:"enabledTools,omitempty"`
	Model        string    `json:"model,omitempty"`
	AgentStyle   string    `json:"agentStyle,omitempty"`
	ShareToken   string    `json:"shareToken,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Message stores a single turn in a thread. The enrichment fields are only
// ever set on assistant messages, after their stream has completed.
type Message struct {
	ID         string    `json:"id"`
	ThreadID   string    `json:"thread_id,omitempty"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	ToolsUsed  []string  `json:"toolsUsed,omitempty"`
	LatencyMs  int64     `json:"latencyMs,omitempty"`
	Model      string    `json:"model,omitempty"`
	Complexity string    `json:"complexity,omitempty"`
	Routing    string    `json:"routing,omitempty"`
	ToolSource string    `json:"toolSource,omitempty"`
}

// FullThread includes the thread metadata and all its messages.
type FullThread struct {
	Thread
	Messages []Message `json:"messages"`
}

// StreamMetadata is the routing/telemetry object carried on a `metadata`
// stream line. It is ephemeral: the last one received before stream end is
// what gets attached to the persisted assistant message.
type StreamMetadata struct {
	Model         string            `json:"model,omitempty"`
	Complexity    string            `json:"complexity,omitempty"`
	Routing       string            `json:"routing,omitempty"`
	Tools         []string          `json:"tools,omitempty"`
	ToolSource    string            `json:"toolSource,omitempty"`
	HistoryLength int               `json:"historyLength,omitempty"`
	Models        map[string]string `json:"models,omitempty"`
}

// RunMetrics carries run-level measurements from a `metrics` stream line.
type RunMetrics struct {
	DurationMs int64  `json:"durationMs,omitempty"`
	Model      string `json:"model,omitempty"`
	Route      string `json:"route,omitempty"`
}

// Device is a Home Assistant entity snapshot. Snapshots are never mutated
// individually; a new full list replaces the prior one on every tick.
type Device struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Type   string         `json:"type"`
	Area   string         `json:"area,omitempty"`
	State  string         `json:"state"`
	Online *bool          `json:"online,omitempty"`
	Attrs  map[string]any `json:"attrs,omitempty"`
}

// IsOnline is the canonical online predicate: a device is online unless the
// flag is explicitly false. An absent (nil) flag counts as online.
func (d Device) IsOnline() bool {
	return d.Online == nil || *d.Online
}

// DeviceSnapshot is one full device-list emission on the devices stream.
type DeviceSnapshot struct {
	TS    int64    `json:"ts"`
	Items []Device `json:"items"`
}

// SystemHealth is one emission on the system stream.
type SystemHealth struct {
	TS          int64 `json:"ts"`
	UptimeS     int64 `json:"uptime_s"`
	HAOk        bool  `json:"ha_ok"`
	HALatencyMs int64 `json:"ha_latency_ms"`
	DBOk        bool  `json:"db_ok"`
	DBLatencyMs int64 `json:"db_latency_ms"`
}
