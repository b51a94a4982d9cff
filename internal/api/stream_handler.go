package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mlee0412/frok-server/internal/service"
	"github.com/mlee0412/frok-server/internal/stream"
)

// Streaming endpoints re-emit the agent's `data: `-framed protocol verbatim:
// each decoded event marshals back to the wire shape it arrived in, so the
// browser-side consumer dispatches on key presence exactly as it would
// against the upstream service.

// HandleSmartStream godoc
// @Summary      Run a generation turn
// @Description  Streams the agent's response for one turn. Events carry routing metadata, text deltas, tool usage, run metrics and a completion marker; the final assistant message is persisted once the stream ends.
// @Tags         Agent
// @Accept       json
// @Produce      text/event-stream
// @Param        turn  body  service.TurnRequest  true  "Turn input"
// @Success      200  {string}  string  "data-framed event stream"
// @Failure      400  {object}  ErrorResponse  "Sent as a stream error event"
// @Router       /agent/smart-stream [post]
func (h *ChatHandler) HandleSmartStream(w http.ResponseWriter, r *http.Request) {
	setStreamHeaders(w)

	var req service.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Error decoding turn request body", "error", err)
		sendStreamError(w, "Invalid request body")
		return
	}
	if err := validateRequest(req); err != nil {
		sendStreamError(w, err.Error())
		return
	}

	events := make(chan stream.Event)
	go h.chat.HandleTurn(r.Context(), &req, events)

	h.relay(w, r, events)
}

// HandleRegenerate godoc
// @Summary      Regenerate an assistant message
// @Description  Re-runs the turn behind an assistant message and overwrites it in place. Messages after it are untouched.
// @Tags         Agent
// @Produce      text/event-stream
// @Param        threadID   path  string  true  "Thread ID"
// @Param        messageID  path  string  true  "Assistant message ID"
// @Success      200  {string}  string  "data-framed event stream"
// @Router       /chat/threads/{threadID}/messages/{messageID}/regenerate [post]
func (h *ChatHandler) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	setStreamHeaders(w)

	req := &service.RegenerateRequest{
		ThreadID:  chi.URLParam(r, "threadID"),
		MessageID: chi.URLParam(r, "messageID"),
	}

	events := make(chan stream.Event)
	go h.chat.Regenerate(r.Context(), req, events)

	h.relay(w, r, events)
}

// EditMessageRequest is the DTO for rewriting a user message.
type EditMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// HandleEditMessage godoc
// @Summary      Edit a user message and replay
// @Description  Rewrites the message's content, deletes every message after it and re-runs the turn.
// @Tags         Agent
// @Accept       json
// @Produce      text/event-stream
// @Param        threadID   path  string              true  "Thread ID"
// @Param        messageID  path  string              true  "User message ID"
// @Param        edit       body  EditMessageRequest  true  "New content"
// @Success      200  {string}  string  "data-framed event stream"
// @Failure      400  {object}  ErrorResponse  "Sent as a stream error event"
// @Router       /chat/threads/{threadID}/messages/{messageID}/edit [post]
func (h *ChatHandler) HandleEditMessage(w http.ResponseWriter, r *http.Request) {
	setStreamHeaders(w)

	var body EditMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		slog.Error("Error decoding edit request body", "error", err)
		sendStreamError(w, "Invalid request body")
		return
	}
	if err := validateRequest(body); err != nil {
		sendStreamError(w, err.Error())
		return
	}

	req := &service.EditRequest{
		ThreadID:  chi.URLParam(r, "threadID"),
		MessageID: chi.URLParam(r, "messageID"),
		Content:   body.Content,
	}

	events := make(chan stream.Event)
	go h.chat.EditReplay(r.Context(), req, events)

	h.relay(w, r, events)
}

// relay forwards turn events to the client until the service closes the
// channel. When the client goes away the request context aborts the turn;
// relay keeps draining so the service goroutine can finish and clean up.
func (h *ChatHandler) relay(w http.ResponseWriter, r *http.Request, events <-chan stream.Event) {
	for ev := range events {
		if r.Context().Err() != nil {
			slog.Info("Client disconnected from turn stream")
			continue
		}
		if err := writeStreamEvent(w, ev); err != nil {
			slog.Warn("Failed to write turn event, client might have disconnected", "error", err)
		}
	}
}
