package repository

import (
	"context"

	"github.com/mlee0412/frok-server/internal/model"
)

// Repository defines the interface for thread and message storage.
type Repository interface {
	CreateThread(ctx context.Context, thread *model.Thread) error
	GetThread(ctx context.Context, threadID string) (*model.Thread, error)
	ListThreads(ctx context.Context) ([]*model.Thread, error)
	UpdateThread(ctx context.Context, thread *model.Thread) error
	DeleteThread(ctx context.Context, threadID string) error

	AddMessage(ctx context.Context, threadID string, message *model.Message) error
	GetMessages(ctx context.Context, threadID string) ([]model.Message, error)
	GetMessage(ctx context.Context, messageID string) (*model.Message, error)

	// ReplaceMessage overwrites a message in place; regeneration keeps the
	// message slot and id while replacing content and enrichment.
	ReplaceMessage(ctx context.Context, message *model.Message) error

	// DeleteMessagesAfter removes every message in the thread strictly
	// after the given one; editing a message discards its trailing turns
	// before regenerating.
	DeleteMessagesAfter(ctx context.Context, threadID, messageID string) error
}
