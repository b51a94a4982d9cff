package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mlee0412/frok-server/internal/agent"
	apperrors "github.com/mlee0412/frok-server/internal/errors"
	"github.com/mlee0412/frok-server/internal/model"
	"github.com/mlee0412/frok-server/internal/repository"
)

// ThreadService owns thread lifecycle: CRUD, title suggestion and sharing.
type ThreadService struct {
	repo     repository.Repository
	cache    repository.MessageCache
	provider agent.Provider
}

// CreateThreadRequest is the payload for a new thread.
type CreateThreadRequest struct {
	Title        string   `json:"title"`
	Tags         []string `json:"tags,omitempty"`
	Folder       string   `json:"folder,omitempty"`
	EnabledTools []string `json:"enabledTools,omitempty"`
	Model        string   `json:"model,omitempty"`
	AgentStyle   string   `json:"agentStyle,omitempty"`
}

// ThreadPatch carries partial updates; nil fields are left untouched.
type ThreadPatch struct {
	Title        *string   `json:"title,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	Folder       *string   `json:"folder,omitempty"`
	Pinned       *bool     `json:"pinned,omitempty"`
	Archived     *bool     `json:"archived,omitempty"`
	EnabledTools *[]string `json:"enabledTools,omitempty"`
	Model        *string   `json:"model,omitempty"`
	AgentStyle   *string   `json:"agentStyle,omitempty"`
}

func NewThreadService(repo repository.Repository, cache repository.MessageCache, provider agent.Provider) *ThreadService {
	return &ThreadService{repo: repo, cache: cache, provider: provider}
}

// CreateThread creates a thread with a server-assigned id. An empty title is
// allowed; the client typically asks for a suggestion after the first turn.
func (s *ThreadService) CreateThread(ctx context.Context, req *CreateThreadRequest) (*model.Thread, error) {
	now := time.Now()
	thread := &model.Thread{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Tags:         req.Tags,
		Folder:       req.Folder,
		EnabledTools: req.EnabledTools,
		Model:        req.Model,
		AgentStyle:   req.AgentStyle,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateThread(ctx, thread); err != nil {
		return nil, fmt.Errorf("could not create thread: %w", err)
	}
	return thread, nil
}

// ListThreads returns all threads, pinned first, most recently updated next.
func (s *ThreadService) ListThreads(ctx context.Context) ([]*model.Thread, error) {
	return s.repo.ListThreads(ctx)
}

// GetFullThread returns a thread's metadata with all its messages.
func (s *ThreadService) GetFullThread(ctx context.Context, threadID string) (*model.FullThread, error) {
	thread, err := s.getThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	messages, ok := s.cache.Get(ctx, threadID)
	if !ok {
		messages, err = s.repo.GetMessages(ctx, threadID)
		if err != nil {
			return nil, fmt.Errorf("could not get messages: %w", err)
		}
		s.cache.Set(ctx, threadID, messages)
	}
	return &model.FullThread{Thread: *thread, Messages: messages}, nil
}

// PatchThread applies the non-nil patch fields and returns the result.
func (s *ThreadService) PatchThread(ctx context.Context, threadID string, patch *ThreadPatch) (*model.Thread, error) {
	thread, err := s.getThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidation)
		}
		thread.Title = *patch.Title
	}
	if patch.Tags != nil {
		thread.Tags = *patch.Tags
	}
	if patch.Folder != nil {
		thread.Folder = *patch.Folder
	}
	if patch.Pinned != nil {
		thread.Pinned = *patch.Pinned
	}
	if patch.Archived != nil {
		thread.Archived = *patch.Archived
	}
	if patch.EnabledTools != nil {
		thread.EnabledTools = *patch.EnabledTools
	}
	if patch.Model != nil {
		thread.Model = *patch.Model
	}
	if patch.AgentStyle != nil {
		thread.AgentStyle = *patch.AgentStyle
	}
	thread.UpdatedAt = time.Now()

	if err := s.repo.UpdateThread(ctx, thread); err != nil {
		return nil, fmt.Errorf("could not update thread: %w", err)
	}
	return thread, nil
}

// DeleteThread removes the thread, its messages and its cache entry.
func (s *ThreadService) DeleteThread(ctx context.Context, threadID string) error {
	slog.Info("Deleting thread", "thread_id", threadID)
	if err := s.repo.DeleteThread(ctx, threadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: thread %s", apperrors.ErrNotFound, threadID)
		}
		return fmt.Errorf("could not delete thread: %w", err)
	}
	s.cache.Invalidate(ctx, threadID)
	return nil
}

// SuggestTitle asks the agent's support model for a short title based on the
// thread's opening exchange, saves it and returns it.
func (s *ThreadService) SuggestTitle(ctx context.Context, threadID string) (string, error) {
	thread, err := s.getThread(ctx, threadID)
	if err != nil {
		return "", err
	}
	messages, err := s.repo.GetMessages(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("could not get messages: %w", err)
	}

	var userQuery, assistantReply string
	for _, m := range messages {
		if userQuery == "" && m.Role == "user" {
			userQuery = m.Content
		}
		if assistantReply == "" && m.Role == "assistant" {
			assistantReply = m.Content
		}
		if userQuery != "" && assistantReply != "" {
			break
		}
	}
	if userQuery == "" {
		return "", fmt.Errorf("%w: thread has no user message to title", apperrors.ErrValidation)
	}

	prompt := fmt.Sprintf(
		"You are an expert at creating short, concise titles for conversations. Respond with only the title, and nothing else.\n\nBased on the following conversation, what would be a good title?\n\n---\nUser: %s\n\nAssistant: %s\n---",
		truncate(userQuery, 150),
		truncate(assistantReply, 200),
	)
	out, err := s.provider.Complete(ctx, &agent.CompletionRequest{InputAsText: prompt})
	if err != nil {
		if isCanceled(err) {
			return "", fmt.Errorf("%w: title suggestion aborted: %v", apperrors.ErrCanceled, err)
		}
		return "", fmt.Errorf("%w: title completion failed: %v", apperrors.ErrUpstream, err)
	}

	title := strings.TrimSpace(out)
	title = strings.Trim(title, `"'`)
	if title == "" {
		return "", fmt.Errorf("%w: empty title from agent", apperrors.ErrUpstream)
	}

	thread.Title = truncate(title, 80)
	thread.UpdatedAt = time.Now()
	if err := s.repo.UpdateThread(ctx, thread); err != nil {
		return "", fmt.Errorf("could not save suggested title: %w", err)
	}
	slog.Info("Suggested title for thread", "thread_id", threadID, "title", thread.Title)
	return thread.Title, nil
}

// Share returns the thread's share token, minting one on first use. The
// token never rotates: sharing twice returns the same link.
func (s *ThreadService) Share(ctx context.Context, threadID string) (string, error) {
	thread, err := s.getThread(ctx, threadID)
	if err != nil {
		return "", err
	}
	if thread.ShareToken != "" {
		return thread.ShareToken, nil
	}

	thread.ShareToken = uuid.NewString()
	thread.UpdatedAt = time.Now()
	if err := s.repo.UpdateThread(ctx, thread); err != nil {
		return "", fmt.Errorf("could not save share token: %w", err)
	}
	return thread.ShareToken, nil
}

func (s *ThreadService) getThread(ctx context.Context, threadID string) (*model.Thread, error) {
	thread, err := s.repo.GetThread(ctx, threadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: thread %s", apperrors.ErrNotFound, threadID)
		}
		return nil, fmt.Errorf("could not get thread: %w", err)
	}
	return thread, nil
}

// truncate shortens a string to at most n runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
