package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mlee0412/frok-server/internal/interfaces"
	"github.com/mlee0412/frok-server/internal/service"
)

// ChatHandler handles HTTP requests for threads and messages.
type ChatHandler struct {
	threads interfaces.ThreadService
	chat    interfaces.ChatService
}

func NewChatHandler(threads interfaces.ThreadService, chat interfaces.ChatService) *ChatHandler {
	return &ChatHandler{threads: threads, chat: chat}
}

// AppendMessageRequest is the DTO for persisting one client-authored message.
type AppendMessageRequest struct {
	ThreadID string `json:"thread_id" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=user assistant"`
	Content  string `json:"content" validate:"required"`
}

// HandleCreateThread godoc
// @Summary      Create a thread
// @Description  Creates a new conversation thread with a server-assigned id.
// @Tags         Threads
// @Accept       json
// @Produce      json
// @Param        thread  body  service.CreateThreadRequest  true  "New thread"
// @Success      201  {object}  ThreadResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /chat/threads [post]
func (h *ChatHandler) HandleCreateThread(w http.ResponseWriter, r *http.Request) {
	var req service.CreateThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Ok: false, Error: "Invalid request payload"})
		return
	}
	thread, err := h.threads.CreateThread(r.Context(), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, ThreadResponse{Ok: true, Thread: thread})
}

// HandleListThreads godoc
// @Summary      List threads
// @Description  Lists all threads, pinned first, most recently updated next.
// @Tags         Threads
// @Produce      json
// @Success      200  {object}  ThreadsResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /chat/threads [get]
func (h *ChatHandler) HandleListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.threads.ListThreads(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ThreadsResponse{Ok: true, Threads: threads})
}

// HandleGetThread godoc
// @Summary      Get a thread
// @Description  Returns a thread's metadata together with all its messages.
// @Tags         Threads
// @Produce      json
// @Param        threadID  path  string  true  "Thread ID"
// @Success      200  {object}  FullThreadResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /chat/threads/{threadID} [get]
func (h *ChatHandler) HandleGetThread(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	full, err := h.threads.GetFullThread(r.Context(), threadID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, FullThreadResponse{Ok: true, Thread: full})
}

// HandlePatchThread godoc
// @Summary      Patch a thread
// @Description  Applies a partial update; absent fields are left untouched.
// @Tags         Threads
// @Accept       json
// @Produce      json
// @Param        threadID  path  string               true  "Thread ID"
// @Param        patch     body  service.ThreadPatch  true  "Fields to update"
// @Success      200  {object}  ThreadResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /chat/threads/{threadID} [patch]
func (h *ChatHandler) HandlePatchThread(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	var patch service.ThreadPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Ok: false, Error: "Invalid request payload"})
		return
	}
	thread, err := h.threads.PatchThread(r.Context(), threadID, &patch)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ThreadResponse{Ok: true, Thread: thread})
}

// HandleDeleteThread godoc
// @Summary      Delete a thread
// @Description  Deletes a thread along with all its messages.
// @Tags         Threads
// @Produce      json
// @Param        threadID  path  string  true  "Thread ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /chat/threads/{threadID} [delete]
func (h *ChatHandler) HandleDeleteThread(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	if err := h.threads.DeleteThread(r.Context(), threadID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Ok: true})
}

// HandleSuggestTitle godoc
// @Summary      Suggest a thread title
// @Description  Asks the agent's support model for a short title based on the opening exchange and saves it.
// @Tags         Threads
// @Produce      json
// @Param        threadID  path  string  true  "Thread ID"
// @Success      200  {object}  TitleResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /chat/threads/{threadID}/suggest-title [post]
func (h *ChatHandler) HandleSuggestTitle(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	title, err := h.threads.SuggestTitle(r.Context(), threadID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, TitleResponse{Ok: true, Title: title})
}

// HandleShareThread godoc
// @Summary      Share a thread
// @Description  Returns the thread's share token, minting it on first use. The token never rotates.
// @Tags         Threads
// @Produce      json
// @Param        threadID  path  string  true  "Thread ID"
// @Success      200  {object}  ShareResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /chat/threads/{threadID}/share [post]
func (h *ChatHandler) HandleShareThread(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	token, err := h.threads.Share(r.Context(), threadID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ShareResponse{Ok: true, ShareToken: token})
}

// HandleGetMessages godoc
// @Summary      List messages
// @Description  Returns a thread's messages in chronological order.
// @Tags         Messages
// @Produce      json
// @Param        thread_id  query  string  true  "Thread ID"
// @Success      200  {object}  MessagesResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /chat/messages [get]
func (h *ChatHandler) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	threadID := r.URL.Query().Get("thread_id")
	if threadID == "" {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Ok: false, Error: "thread_id query parameter is required"})
		return
	}
	messages, err := h.chat.GetMessages(r.Context(), threadID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessagesResponse{Ok: true, Messages: messages})
}

// HandleAppendMessage godoc
// @Summary      Append a message
// @Description  Persists one message, assigning its id and timestamp server-side.
// @Tags         Messages
// @Accept       json
// @Produce      json
// @Param        message  body  AppendMessageRequest  true  "Message to persist"
// @Success      201  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /chat/messages [post]
func (h *ChatHandler) HandleAppendMessage(w http.ResponseWriter, r *http.Request) {
	var req AppendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Ok: false, Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}
	message, err := h.chat.AppendMessage(r.Context(), req.ThreadID, req.Role, req.Content)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, MessageResponse{Ok: true, Message: message})
}
