package interfaces

import (
	"context"

	"github.com/mlee0412/frok-server/internal/model"
	"github.com/mlee0412/frok-server/internal/service"
	"github.com/mlee0412/frok-server/internal/stream"
)

// This file defines the interfaces for our core services.
// Depending on these interfaces, instead of concrete implementations, allows for
// decoupling (e.g., API layer from Service layer) and easier testing via mocking.

// ChatService defines the contract for turn orchestration and messages.
type ChatService interface {
	GetMessages(ctx context.Context, threadID string) ([]model.Message, error)
	AppendMessage(ctx context.Context, threadID, role, content string) (*model.Message, error)
	HandleTurn(ctx context.Context, req *service.TurnRequest, events chan<- stream.Event)
	Regenerate(ctx context.Context, req *service.RegenerateRequest, events chan<- stream.Event)
	EditReplay(ctx context.Context, req *service.EditRequest, events chan<- stream.Event)
}

// ThreadService defines the contract for thread lifecycle logic.
type ThreadService interface {
	CreateThread(ctx context.Context, req *service.CreateThreadRequest) (*model.Thread, error)
	ListThreads(ctx context.Context) ([]*model.Thread, error)
	GetFullThread(ctx context.Context, threadID string) (*model.FullThread, error)
	PatchThread(ctx context.Context, threadID string, patch *service.ThreadPatch) (*model.Thread, error)
	DeleteThread(ctx context.Context, threadID string) error
	SuggestTitle(ctx context.Context, threadID string) (string, error)
	Share(ctx context.Context, threadID string) (string, error)
}

// DeviceService defines the contract for device state and commands.
type DeviceService interface {
	Devices() model.DeviceSnapshot
	SubscribeDevices() (<-chan model.DeviceSnapshot, func())
	SubscribeSystem() (<-chan model.SystemHealth, func())
	SystemHealth() *model.SystemHealth
	Command(ctx context.Context, deviceID string, req *service.CommandRequest) error
}
