package stream

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/mlee0412/frok-server/internal/model"
)

// maxLineBytes bounds a single stream line. The protocol does not specify a
// maximum delta size; 1 MiB comfortably covers full-content snapshots while
// keeping a runaway producer from exhausting memory.
const maxLineBytes = 1 << 20

var dataPrefix = []byte("data: ")

// Reader incrementally decodes a `data: `-framed byte stream. The body is
// never buffered whole: each call to Next consumes exactly as many lines as
// needed to produce the next batch of events.
type Reader struct {
	sc *bufio.Scanner
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{sc: sc}
}

// Next returns the events decoded from the next payload line. Lines without
// the `data: ` prefix are ignored, and lines whose JSON fails to parse are
// logged and skipped without aborting the stream. Returns io.EOF once the
// underlying stream is exhausted.
func (r *Reader) Next() ([]Event, error) {
	for r.sc.Scan() {
		rest, ok := bytes.CutPrefix(r.sc.Bytes(), dataPrefix)
		if !ok {
			continue
		}
		events, err := DecodeLine(rest)
		if err != nil {
			slog.Warn("Skipping malformed stream line", "error", err)
			continue
		}
		if len(events) == 0 {
			continue
		}
		return events, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Accumulator folds events into the running state of one turn: the text
// buffer, the last metadata object, the authoritative tool list and the run
// metrics. It applies events strictly in arrival order.
type Accumulator struct {
	content  strings.Builder
	metadata *model.StreamMetadata
	metrics  *model.RunMetrics
	tools    []string
	done     bool
	errMsg   string
	failed   bool
}

func (a *Accumulator) Apply(ev Event) {
	switch e := ev.(type) {
	case ErrorEvent:
		a.errMsg = e.Message
		a.failed = true
	case MetadataEvent:
		md := e.Metadata
		a.metadata = &md
	case DeltaEvent:
		a.content.WriteString(e.Text)
	case ContentEvent:
		a.content.Reset()
		a.content.WriteString(e.Text)
	case MetricsEvent:
		m := e.Metrics
		a.metrics = &m
	case ToolsEvent:
		if len(e.Tools) > 0 {
			a.tools = e.Tools
		}
	case DoneEvent:
		a.done = true
	}
}

// Content returns the accumulated text buffer.
func (a *Accumulator) Content() string { return a.content.String() }

// Metadata returns the last metadata object received, or nil.
func (a *Accumulator) Metadata() *model.StreamMetadata { return a.metadata }

// Metrics returns the run metrics, or nil when none arrived.
func (a *Accumulator) Metrics() *model.RunMetrics { return a.metrics }

// ToolsUsed returns the tool list for the persisted message: a non-empty
// post-hoc `tools` line wins over the pre-dispatch metadata plan.
func (a *Accumulator) ToolsUsed() []string {
	if len(a.tools) > 0 {
		return a.tools
	}
	if a.metadata != nil {
		return a.metadata.Tools
	}
	return nil
}

// Done reports whether the logical completion marker arrived.
func (a *Accumulator) Done() bool { return a.done }

// Failed reports whether a fatal `error` line arrived, and its message.
func (a *Accumulator) Failed() (string, bool) { return a.errMsg, a.failed }

// Consume drains a stream, folding every event into a fresh Accumulator and
// forwarding each to emit when emit is non-nil. It keeps reading past the
// logical `done` marker until the byte stream itself is exhausted. A fatal
// `error` line stops processing immediately; the accumulated state up to
// that point is kept, never rolled back.
//
// Cancellation is cooperative: the context is checked at every suspension
// point, and a canceled turn returns the context error so callers can tell
// a user-initiated abort apart from a genuine transport failure.
func Consume(ctx context.Context, r io.Reader, emit func(Event)) (*Accumulator, error) {
	acc := &Accumulator{}
	rd := NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return acc, err
		}
		events, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return acc, nil
		}
		if err != nil {
			// Aborting the request surfaces as a read error on the
			// body; report it as a cancellation, not a failure.
			if ctx.Err() != nil {
				return acc, ctx.Err()
			}
			return acc, err
		}
		for _, ev := range events {
			acc.Apply(ev)
			if emit != nil {
				emit(ev)
			}
			if _, failed := acc.Failed(); failed {
				return acc, nil
			}
		}
	}
}
