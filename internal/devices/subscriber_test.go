package devices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriber_DispatchesNamedEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		_, _ = w.Write([]byte("event: devices\ndata: {\"ts\":1,\"items\":[]}\n\n"))
		_, _ = w.Write([]byte("data: {\"ts\":2}\n\n"))
		flusher.Flush()
		// Hold the stream open until the client goes away.
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type dispatched struct {
		event string
		data  string
	}
	got := make(chan dispatched, 2)

	sub := NewSubscriber(server.URL, &recordingNotifier{})
	go func() {
		_ = sub.Run(ctx, func(event string, data []byte) {
			got <- dispatched{event: event, data: string(data)}
		})
	}()

	first := <-got
	assert.Equal(t, "devices", first.event)
	assert.Equal(t, `{"ts":1,"items":[]}`, first.data)

	second := <-got
	assert.Equal(t, "message", second.event, "unnamed events dispatch as the default type")
}

// One notification per connection edge: dropping the stream repeatedly while
// the server is down must yield a single "disconnected", and the first
// successful reconnect a single "reconnected".
func TestSubscriber_ConnectionEdgeNotifications(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: {\"ts\":1}\n\n"))
		w.(http.Flusher).Flush()
		// Hold the stream open while healthy; returning drops it.
		for healthy.Load() {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(5 * time.Millisecond):
			}
		}
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	sub := NewSubscriber(server.URL, notifier)
	sub.retry = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan struct{}, 64)
	go func() {
		_ = sub.Run(ctx, func(string, []byte) { events <- struct{}{} })
	}()

	// First successful connection: no notification at all.
	<-events

	// Take the server down and let several reconnect attempts fail.
	healthy.Store(false)
	require.Eventually(t, func() bool {
		return len(notifier.all()) >= 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	notes := notifier.all()
	require.Len(t, notes, 1, "repeated failed retries must not re-notify")
	assert.Contains(t, notes[0].Title, "disconnected")

	// Bring it back: exactly one "reconnected".
	healthy.Store(true)
	require.Eventually(t, func() bool {
		return len(notifier.all()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, notifier.all()[1].Title, "reconnected")
}

func TestSubscriber_StopsOnContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub := NewSubscriber(server.URL, &recordingNotifier{})

	done := make(chan error, 1)
	go func() {
		done <- sub.Run(ctx, func(string, []byte) {})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop on cancel")
	}
}
