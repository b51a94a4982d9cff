package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mlee0412/frok-server/internal/agent"
	apperrors "github.com/mlee0412/frok-server/internal/errors"
	"github.com/mlee0412/frok-server/internal/model"
	"github.com/mlee0412/frok-server/internal/repository"
	"github.com/mlee0412/frok-server/internal/stream"
)

// ChatService orchestrates generation turns: it persists the user's message,
// relays the upstream agent stream to the caller event by event, and commits
// the final assistant message with its enrichment once the stream ends.
type ChatService struct {
	repo     repository.Repository
	cache    repository.MessageCache
	provider agent.Provider
	inflight *inflightRegistry
}

// TurnRequest is a new generation turn from the client. The body mirrors
// the upstream agent payload, so a client can speak the same shape to both.
type TurnRequest struct {
	ThreadID     string   `json:"thread_id" validate:"required"`
	InputAsText  string   `json:"input_as_text" validate:"required"`
	Images       []string `json:"images,omitempty"`
	Model        string   `json:"model,omitempty"`
	EnabledTools []string `json:"enabled_tools,omitempty"`
}

// RegenerateRequest re-runs the turn that produced an assistant message.
type RegenerateRequest struct {
	ThreadID  string `json:"thread_id" validate:"required"`
	MessageID string `json:"message_id" validate:"required"`
}

// EditRequest rewrites a user message and replays the thread from there.
type EditRequest struct {
	ThreadID  string `json:"thread_id" validate:"required"`
	MessageID string `json:"message_id" validate:"required"`
	Content   string `json:"content" validate:"required"`
}

func NewChatService(repo repository.Repository, cache repository.MessageCache, provider agent.Provider) *ChatService {
	return &ChatService{
		repo:     repo,
		cache:    cache,
		provider: provider,
		inflight: newInflightRegistry(),
	}
}

// GetMessages returns the thread's messages in chronological order, reading
// through the cache.
func (s *ChatService) GetMessages(ctx context.Context, threadID string) ([]model.Message, error) {
	if messages, ok := s.cache.Get(ctx, threadID); ok {
		return messages, nil
	}
	messages, err := s.repo.GetMessages(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("could not get messages: %w", err)
	}
	s.cache.Set(ctx, threadID, messages)
	return messages, nil
}

// AppendMessage persists one client-authored message, assigning its id and
// timestamp server-side.
func (s *ChatService) AppendMessage(ctx context.Context, threadID, role, content string) (*model.Message, error) {
	if role != "user" && role != "assistant" {
		return nil, fmt.Errorf("%w: role must be user or assistant", apperrors.ErrValidation)
	}
	if _, err := s.repo.GetThread(ctx, threadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: thread %s", apperrors.ErrNotFound, threadID)
		}
		return nil, fmt.Errorf("could not get thread: %w", err)
	}

	message := &model.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	if err := s.repo.AddMessage(ctx, threadID, message); err != nil {
		return nil, fmt.Errorf("could not add message: %w", err)
	}
	s.cache.Invalidate(ctx, threadID)
	return message, nil
}

// HandleTurn runs one generation turn, sending every stream event to events
// as it arrives. It always closes events. Starting a turn supersedes any
// turn already in flight for the same thread; a superseded or user-aborted
// turn discards its partial content and persists nothing.
func (s *ChatService) HandleTurn(ctx context.Context, req *TurnRequest, events chan<- stream.Event) {
	defer close(events)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	tok := s.inflight.begin(req.ThreadID, cancel)
	defer s.inflight.end(req.ThreadID, tok)

	thread, err := s.repo.GetThread(ctx, req.ThreadID)
	if err != nil {
		slog.Error("Could not load thread for turn", "thread_id", req.ThreadID, "error", err)
		sendEvent(ctx, events, stream.ErrorEvent{Message: "Could not find thread"})
		return
	}

	userMessage := &model.Message{
		ID:        uuid.NewString(),
		Role:      "user",
		Content:   req.InputAsText,
		Timestamp: time.Now(),
	}
	if err := s.repo.AddMessage(ctx, req.ThreadID, userMessage); err != nil {
		slog.Error("Could not save user message", "thread_id", req.ThreadID, "error", err)
		sendEvent(ctx, events, stream.ErrorEvent{Message: "Could not save message"})
		return
	}
	s.cache.Invalidate(ctx, req.ThreadID)

	turnReq := &agent.TurnRequest{
		InputAsText:  req.InputAsText,
		Images:       req.Images,
		Model:        pickModel(req.Model, thread.Model),
		EnabledTools: pickTools(req.EnabledTools, thread.EnabledTools),
		ThreadID:     thread.ID,
	}
	s.runAndPersist(ctx, thread.ID, turnReq, events)
}

// Regenerate re-runs the turn behind an assistant message and overwrites
// that message in place. Nothing after it is touched, and a failed or
// canceled re-run leaves the original message intact.
func (s *ChatService) Regenerate(ctx context.Context, req *RegenerateRequest, events chan<- stream.Event) {
	defer close(events)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	tok := s.inflight.begin(req.ThreadID, cancel)
	defer s.inflight.end(req.ThreadID, tok)

	target, err := s.repo.GetMessage(ctx, req.MessageID)
	if err != nil || target.Role != "assistant" {
		slog.Error("Could not load assistant message to regenerate", "message_id", req.MessageID, "error", err)
		sendEvent(ctx, events, stream.ErrorEvent{Message: "Could not find message"})
		return
	}

	thread, err := s.repo.GetThread(ctx, req.ThreadID)
	if err != nil {
		slog.Error("Could not load thread for regenerate", "thread_id", req.ThreadID, "error", err)
		sendEvent(ctx, events, stream.ErrorEvent{Message: "Could not find thread"})
		return
	}

	prompt, err := s.precedingUserContent(ctx, req.ThreadID, req.MessageID)
	if err != nil {
		slog.Error("Could not find the prompt behind the message", "message_id", req.MessageID, "error", err)
		sendEvent(ctx, events, stream.ErrorEvent{Message: "Could not find the original prompt"})
		return
	}

	turnReq := &agent.TurnRequest{
		InputAsText:  prompt,
		Model:        thread.Model,
		EnabledTools: thread.EnabledTools,
		ThreadID:     thread.ID,
	}
	acc, err := s.provider.StreamTurn(ctx, turnReq, func(ev stream.Event) {
		sendEvent(ctx, events, ev)
	})
	if err != nil {
		if isCanceled(err) {
			slog.Info("Regenerate canceled, original message kept", "message_id", req.MessageID)
			return
		}
		slog.Error("Agent stream failed during regenerate", "message_id", req.MessageID, "error", err)
		sendEvent(ctx, events, stream.ErrorEvent{Message: "The assistant is unavailable right now"})
		return
	}
	if _, failed := acc.Failed(); failed {
		// Error line already forwarded; keep the original message.
		return
	}

	replacement := composeAssistant(acc)
	replacement.ID = target.ID
	replacement.ThreadID = req.ThreadID
	replacement.Timestamp = target.Timestamp
	if err := s.repo.ReplaceMessage(ctx, replacement); err != nil {
		slog.Error("CRITICAL: failed to overwrite regenerated message", "message_id", target.ID, "error", err)
		return
	}
	s.cache.Invalidate(ctx, req.ThreadID)
}

// EditReplay updates a user message's content, deletes every message after
// it, and re-runs the turn with the new content.
func (s *ChatService) EditReplay(ctx context.Context, req *EditRequest, events chan<- stream.Event) {
	defer close(events)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	tok := s.inflight.begin(req.ThreadID, cancel)
	defer s.inflight.end(req.ThreadID, tok)

	target, err := s.repo.GetMessage(ctx, req.MessageID)
	if err != nil || target.Role != "user" {
		slog.Error("Could not load user message to edit", "message_id", req.MessageID, "error", err)
		sendEvent(ctx, events, stream.ErrorEvent{Message: "Could not find message"})
		return
	}

	thread, err := s.repo.GetThread(ctx, req.ThreadID)
	if err != nil {
		slog.Error("Could not load thread for edit", "thread_id", req.ThreadID, "error", err)
		sendEvent(ctx, events, stream.ErrorEvent{Message: "Could not find thread"})
		return
	}

	target.Content = req.Content
	if err := s.repo.ReplaceMessage(ctx, target); err != nil {
		slog.Error("Could not update edited message", "message_id", req.MessageID, "error", err)
		sendEvent(ctx, events, stream.ErrorEvent{Message: "Could not save edit"})
		return
	}
	if err := s.repo.DeleteMessagesAfter(ctx, req.ThreadID, req.MessageID); err != nil {
		slog.Error("Could not truncate thread after edited message", "message_id", req.MessageID, "error", err)
		sendEvent(ctx, events, stream.ErrorEvent{Message: "Could not save edit"})
		return
	}
	s.cache.Invalidate(ctx, req.ThreadID)

	turnReq := &agent.TurnRequest{
		InputAsText:  req.Content,
		Model:        thread.Model,
		EnabledTools: thread.EnabledTools,
		ThreadID:     thread.ID,
	}
	s.runAndPersist(ctx, thread.ID, turnReq, events)
}

// runAndPersist streams one turn and appends the resulting assistant message
// to the thread. Cancellation discards the partial turn silently.
func (s *ChatService) runAndPersist(ctx context.Context, threadID string, req *agent.TurnRequest, events chan<- stream.Event) {
	acc, err := s.provider.StreamTurn(ctx, req, func(ev stream.Event) {
		sendEvent(ctx, events, ev)
	})
	if err != nil {
		if isCanceled(err) {
			slog.Info("Turn canceled, partial content discarded", "thread_id", threadID)
			return
		}
		slog.Error("Agent stream failed", "thread_id", threadID, "error", err)
		sendEvent(ctx, events, stream.ErrorEvent{Message: "The assistant is unavailable right now"})
		return
	}

	var assistant *model.Message
	if errMsg, failed := acc.Failed(); failed {
		// Keep the failed turn in history as an assistant message
		// carrying the error text. The error line itself was already
		// forwarded live.
		assistant = &model.Message{
			ID:        uuid.NewString(),
			Role:      "assistant",
			Content:   errMsg,
			Timestamp: time.Now(),
		}
	} else {
		assistant = composeAssistant(acc)
	}

	if err := s.repo.AddMessage(ctx, threadID, assistant); err != nil {
		slog.Error("CRITICAL: failed to save assistant message", "thread_id", threadID, "error", err)
		return
	}
	if messages, err := s.repo.GetMessages(ctx, threadID); err == nil {
		s.cache.Set(ctx, threadID, messages)
	} else {
		s.cache.Invalidate(ctx, threadID)
	}
}

// precedingUserContent finds the user message immediately before the given
// assistant message in the thread.
func (s *ChatService) precedingUserContent(ctx context.Context, threadID, messageID string) (string, error) {
	messages, err := s.repo.GetMessages(ctx, threadID)
	if err != nil {
		return "", err
	}
	at := -1
	for i, m := range messages {
		if m.ID == messageID {
			at = i
			break
		}
	}
	if at < 0 {
		return "", fmt.Errorf("%w: message %s", apperrors.ErrNotFound, messageID)
	}
	for i := at - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content, nil
		}
	}
	return "", fmt.Errorf("%w: no user message precedes %s", apperrors.ErrNotFound, messageID)
}

// composeAssistant merges the accumulated content with the enrichment fields
// for the persisted message. Metrics win over metadata for the model name.
func composeAssistant(acc *stream.Accumulator) *model.Message {
	msg := &model.Message{
		ID:        uuid.NewString(),
		Role:      "assistant",
		Content:   acc.Content(),
		Timestamp: time.Now(),
		ToolsUsed: acc.ToolsUsed(),
	}
	if md := acc.Metadata(); md != nil {
		msg.Model = md.Model
		msg.Complexity = md.Complexity
		msg.Routing = md.Routing
		msg.ToolSource = md.ToolSource
	}
	if m := acc.Metrics(); m != nil {
		msg.LatencyMs = m.DurationMs
		if m.Model != "" {
			msg.Model = m.Model
		}
	}
	return msg
}

// sendEvent forwards ev unless the turn's context is already gone; a closed
// consumer must not wedge the turn goroutine.
func sendEvent(ctx context.Context, events chan<- stream.Event, ev stream.Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

func pickModel(requested, threadDefault string) string {
	if requested != "" {
		return requested
	}
	return threadDefault
}

// pickTools prefers the turn's explicit tool selection. An empty non-nil
// slice is a deliberate "no tools" and also overrides the thread default.
func pickTools(requested, threadDefault []string) []string {
	if requested != nil {
		return requested
	}
	return threadDefault
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
