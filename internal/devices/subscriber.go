package devices

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// defaultRetry mirrors the browser EventSource reconnection delay.
const defaultRetry = 3 * time.Second

// Subscriber is a client for a server-push event channel. It auto-retries
// on transport error the way a browser EventSource does, and tracks the
// connected/disconnected state so the pair of notifications fires once per
// edge, never once per retry attempt.
type Subscriber struct {
	client   *http.Client
	url      string
	notifier Notifier
	retry    time.Duration
}

func NewSubscriber(url string, n Notifier) *Subscriber {
	return &Subscriber{
		client:   &http.Client{},
		url:      url,
		notifier: n,
		retry:    defaultRetry,
	}
}

// Run subscribes and dispatches named events to handle until ctx is
// canceled. Transport errors are swallowed: the channel reconnects on its
// own, and only the disconnected/reconnected edges are user-visible.
func (s *Subscriber) Run(ctx context.Context, handle func(event string, data []byte)) error {
	hadConnection := false
	lost := false

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.connectOnce(ctx, func() {
			if lost {
				s.notifier.Notify(Notification{Severity: SeverityInfo, Title: "Live updates reconnected"})
				lost = false
			}
			hadConnection = true
		}, handle)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			slog.Debug("Push channel dropped, will retry", "url", s.url, "error", err)
		}
		if hadConnection && !lost {
			s.notifier.Notify(Notification{Severity: SeverityWarning, Title: "Live updates disconnected"})
			lost = true
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.retry):
		}
	}
}

// connectOnce holds one subscription until the stream drops. onOpen fires
// after a successful connect, before any event is dispatched.
func (s *Subscriber) connectOnce(ctx context.Context, onOpen func(), handle func(event string, data []byte)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push channel returned status %d", resp.StatusCode)
	}

	onOpen()

	// Minimal event-stream parse: `event:` names the next dispatch,
	// `data:` lines accumulate, a blank line dispatches. Everything else
	// (comments, ids, retry hints) is ignored.
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	eventName := ""
	var data []string
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if len(data) > 0 {
				name := eventName
				if name == "" {
					name = "message"
				}
				handle(name, []byte(strings.Join(data, "\n")))
			}
			eventName = ""
			data = nil
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return fmt.Errorf("push channel closed")
}
