package stream_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlee0412/frok-server/internal/stream"
)

// frame joins payloads into the wire format the agent endpoint emits.
func frame(lines ...string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString("data: ")
		b.WriteString(l)
		b.WriteString("\n\n")
	}
	return b.String()
}

func TestConsume_DeltaAccumulation(t *testing.T) {
	body := frame(
		`{"delta":"Hel"}`,
		`{"delta":"lo, "}`,
		`{"delta":"world"}`,
		`{"done":true}`,
	)

	acc, err := stream.Consume(context.Background(), strings.NewReader(body), nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", acc.Content())
	assert.True(t, acc.Done())
}

func TestConsume_ContentReplacesDeltas(t *testing.T) {
	body := frame(
		`{"delta":"abc"}`,
		`{"content":"xyz"}`,
		`{"done":true}`,
	)

	acc, err := stream.Consume(context.Background(), strings.NewReader(body), nil)
	require.NoError(t, err)
	assert.Equal(t, "xyz", acc.Content())
}

func TestConsume_ToolsPrecedence(t *testing.T) {
	t.Run("post-hoc tools win over metadata plan", func(t *testing.T) {
		body := frame(
			`{"metadata":{"tools":["a","b"]}}`,
			`{"delta":"hi"}`,
			`{"tools":["c"]}`,
			`{"done":true}`,
		)

		acc, err := stream.Consume(context.Background(), strings.NewReader(body), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"c"}, acc.ToolsUsed())
	})

	t.Run("empty tools line falls back to metadata", func(t *testing.T) {
		body := frame(
			`{"metadata":{"tools":["a","b"]}}`,
			`{"tools":[]}`,
			`{"done":true}`,
		)

		acc, err := stream.Consume(context.Background(), strings.NewReader(body), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, acc.ToolsUsed())
	})
}

func TestConsume_MalformedLineIsSkipped(t *testing.T) {
	body := "data: {\"delta\":\"one \"}\n\ndata: {not json}\n\ndata: {\"delta\":\"two\"}\n\n"

	acc, err := stream.Consume(context.Background(), strings.NewReader(body), nil)
	require.NoError(t, err)
	assert.Equal(t, "one two", acc.Content())
}

func TestConsume_NonDataLinesIgnored(t *testing.T) {
	body := "event: message\nretry: 3000\ndata: {\"delta\":\"ok\"}\n\n: keepalive\n\n"

	acc, err := stream.Consume(context.Background(), strings.NewReader(body), nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", acc.Content())
}

// The logical completion marker is not the physical end of the stream: lines
// after `done` must still be processed until the transport is exhausted.
func TestConsume_ReadsPastDone(t *testing.T) {
	body := frame(
		`{"delta":"partial"}`,
		`{"done":true}`,
		`{"metrics":{"durationMs":1200,"model":"gpt-x","route":"direct"}}`,
	)

	acc, err := stream.Consume(context.Background(), strings.NewReader(body), nil)
	require.NoError(t, err)
	assert.True(t, acc.Done())
	require.NotNil(t, acc.Metrics())
	assert.Equal(t, int64(1200), acc.Metrics().DurationMs)
}

func TestConsume_FatalErrorStopsProcessing(t *testing.T) {
	body := frame(
		`{"delta":"kept "}`,
		`{"error":"model overloaded"}`,
		`{"delta":"never applied"}`,
	)

	acc, err := stream.Consume(context.Background(), strings.NewReader(body), nil)
	require.NoError(t, err)

	msg, failed := acc.Failed()
	assert.True(t, failed)
	assert.Equal(t, "model overloaded", msg)
	// Content already rendered before the error is not rolled back.
	assert.Equal(t, "kept ", acc.Content())
}

// A single line can combine several keys; each must be handled, in the
// documented dispatch order.
func TestDecodeLine_CombinedKeys(t *testing.T) {
	events, err := stream.DecodeLine([]byte(`{"metrics":{"durationMs":5},"done":true}`))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.IsType(t, stream.MetricsEvent{}, events[0])
	assert.IsType(t, stream.DoneEvent{}, events[1])
}

func TestDecodeLine_DoneTruthiness(t *testing.T) {
	for _, tc := range []struct {
		payload string
		done    bool
	}{
		{`{"done":true}`, true},
		{`{"done":1}`, true},
		{`{"done":"yes"}`, true},
		{`{"done":false}`, false},
		{`{"done":null}`, false},
		{`{"done":0}`, false},
		{`{}`, false},
	} {
		events, err := stream.DecodeLine([]byte(tc.payload))
		require.NoError(t, err, tc.payload)
		if tc.done {
			require.Len(t, events, 1, tc.payload)
			assert.IsType(t, stream.DoneEvent{}, events[0], tc.payload)
		} else {
			assert.Empty(t, events, tc.payload)
		}
	}
}

// slowReader delivers one framed line, then blocks until its context dies,
// simulating an in-flight stream the user aborts.
type slowReader struct {
	ctx  context.Context
	sent bool
}

func (r *slowReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, "data: {\"delta\":\"partial\"}\n\n"), nil
	}
	<-r.ctx.Done()
	return 0, r.ctx.Err()
}

func TestConsume_CancellationIsDistinguishable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	acc, err := stream.Consume(ctx, &slowReader{ctx: ctx}, nil)
	require.ErrorIs(t, err, context.Canceled)
	// Partial content is available but the caller must not persist it.
	assert.Equal(t, "partial", acc.Content())
	_, failed := acc.Failed()
	assert.False(t, failed)
}

func TestReader_EOF(t *testing.T) {
	rd := stream.NewReader(strings.NewReader(""))
	_, err := rd.Next()
	assert.ErrorIs(t, err, io.EOF)
}
