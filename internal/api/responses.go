package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	app_errors "github.com/mlee0412/frok-server/internal/errors"
	"github.com/mlee0412/frok-server/internal/model"
)

// This file contains shared DTOs (Data Transfer Objects) for API responses
// and helper functions for sending consistent HTTP responses.
//
// Every JSON response carries the `ok` envelope: clients treat `ok: false`
// as a soft failure and roll back optimistic state.

// ErrorResponse is the standard envelope for failed requests.
type ErrorResponse struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error"`
}

// StatusResponse is the envelope for operations with no resource to return.
type StatusResponse struct {
	Ok bool `json:"ok"`
}

// ThreadResponse wraps a single thread.
type ThreadResponse struct {
	Ok     bool          `json:"ok"`
	Thread *model.Thread `json:"thread"`
}

// ThreadsResponse wraps the thread list.
type ThreadsResponse struct {
	Ok      bool            `json:"ok"`
	Threads []*model.Thread `json:"threads"`
}

// FullThreadResponse wraps a thread with its messages.
type FullThreadResponse struct {
	Ok     bool              `json:"ok"`
	Thread *model.FullThread `json:"thread"`
}

// MessageResponse wraps one persisted message.
type MessageResponse struct {
	Ok      bool           `json:"ok"`
	Message *model.Message `json:"message"`
}

// MessagesResponse wraps a thread's message list.
type MessagesResponse struct {
	Ok       bool            `json:"ok"`
	Messages []model.Message `json:"messages"`
}

// TitleResponse wraps a suggested title.
type TitleResponse struct {
	Ok    bool   `json:"ok"`
	Title string `json:"title"`
}

// ShareResponse wraps a thread's share token.
type ShareResponse struct {
	Ok         bool   `json:"ok"`
	ShareToken string `json:"shareToken"`
}

// DevicesResponse wraps a full device snapshot.
type DevicesResponse struct {
	Ok    bool           `json:"ok"`
	TS    int64          `json:"ts"`
	Items []model.Device `json:"items"`
}

// respondWithError is the centralized error handling function for the API
// layer. It maps business-layer sentinels to HTTP status codes and formats
// a standard `ok: false` response.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		// For validation errors, the error message from the service layer
		// is already descriptive and user-friendly.
		message = err.Error()
	case errors.Is(err, app_errors.ErrUpstream):
		statusCode = http.StatusBadGateway
		message = "A dependency failed while handling the request."
	case errors.Is(err, app_errors.ErrCanceled):
		// Aborts are user-initiated and never reported as failures; the
		// client already moved on.
		statusCode = 499
		message = "Request canceled."
	default:
		// Any unhandled error is considered an internal server error.
		// This prevents leaking implementation details to the client.
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	// The original, more detailed error is logged for debugging purposes,
	// while a generic message is sent to the client.
	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Ok: false, Error: message})
}

// respondWithJSON is a low-level helper for marshaling a payload to JSON
// and writing it to the http.ResponseWriter with a given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// setStreamHeaders prepares the response for Server-Sent Events.
func setStreamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// sendStreamError sends a `data: {"error": ...}` line over an open stream so
// consumers handle the failure through their normal event dispatch.
func sendStreamError(w http.ResponseWriter, message string) {
	slog.Warn("Sending stream error to client", "message", message)
	if err := writeStreamEvent(w, struct {
		Error string `json:"error"`
	}{Error: message}); err != nil {
		slog.Warn("Failed to write stream error, client might have disconnected", "error", err)
	}
}

// writeStreamEvent marshals data and writes it as one `data: ` frame. It
// returns an error on write failure, which is a signal that the client has
// disconnected.
func writeStreamEvent(w http.ResponseWriter, data interface{}) error {
	return writeNamedStreamEvent(w, "", data)
}

// writeNamedStreamEvent is writeStreamEvent with an SSE event name, used by
// the devices and system streams whose consumers register named listeners.
func writeNamedStreamEvent(w http.ResponseWriter, event string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to marshal stream data to JSON", "error", err)
		// The stream is still usable; the issue is with this one payload.
		return nil
	}

	if event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
			return fmt.Errorf("failed to write event name to stream: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", string(jsonData)); err != nil {
		// A write failure here is a strong indicator of a closed connection.
		return fmt.Errorf("failed to write data to stream: %w", err)
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
