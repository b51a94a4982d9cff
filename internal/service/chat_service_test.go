package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mlee0412/frok-server/internal/agent"
	mock_agent "github.com/mlee0412/frok-server/internal/agent/mocks"
	"github.com/mlee0412/frok-server/internal/model"
	"github.com/mlee0412/frok-server/internal/repository"
	mock_repo "github.com/mlee0412/frok-server/internal/repository/mocks"
	"github.com/mlee0412/frok-server/internal/service"
	"github.com/mlee0412/frok-server/internal/stream"
)

type chatMocks struct {
	repo     *mock_repo.MockRepository
	cache    *mock_repo.MockMessageCache
	provider *mock_agent.MockProvider
}

func setupChatService(t *testing.T) (*service.ChatService, chatMocks) {
	mocks := chatMocks{
		repo:     mock_repo.NewMockRepository(t),
		cache:    mock_repo.NewMockMessageCache(t),
		provider: mock_agent.NewMockProvider(t),
	}
	return service.NewChatService(mocks.repo, mocks.cache, mocks.provider), mocks
}

// accFrom folds events into an accumulator the way a real stream would.
func accFrom(events ...stream.Event) *stream.Accumulator {
	acc := &stream.Accumulator{}
	for _, ev := range events {
		acc.Apply(ev)
	}
	return acc
}

func drainEvents(ch <-chan stream.Event) []stream.Event {
	var out []stream.Event
	for ev := range ch {
		out = append(out, ev)
	}
	return out
}

func isUserMessage(m *model.Message) bool      { return m.Role == "user" }
func isAssistantMessage(m *model.Message) bool { return m.Role == "assistant" }

func TestChatService_GetMessages(t *testing.T) {
	ctx := context.Background()
	threadID := "thread1"

	t.Run("Cache hit skips the repository", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		cached := []model.Message{{ID: "msg1"}}
		mocks.cache.On("Get", ctx, threadID).Return(cached, true).Once()

		messages, err := chatService.GetMessages(ctx, threadID)
		require.NoError(t, err)
		assert.Equal(t, cached, messages)
	})

	t.Run("Cache miss reads through and warms the cache", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		stored := []model.Message{{ID: "msg1"}, {ID: "msg2"}}
		mocks.cache.On("Get", ctx, threadID).Return(nil, false).Once()
		mocks.repo.On("GetMessages", ctx, threadID).Return(stored, nil).Once()
		mocks.cache.On("Set", ctx, threadID, stored).Return().Once()

		messages, err := chatService.GetMessages(ctx, threadID)
		require.NoError(t, err)
		assert.Equal(t, stored, messages)
	})
}

func TestChatService_AppendMessage(t *testing.T) {
	ctx := context.Background()
	threadID := "thread1"

	t.Run("Assigns id and timestamp", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("GetThread", ctx, threadID).Return(&model.Thread{ID: threadID}, nil).Once()
		mocks.repo.On("AddMessage", ctx, threadID, mock.MatchedBy(isUserMessage)).Return(nil).Once()
		mocks.cache.On("Invalidate", ctx, threadID).Return().Once()

		msg, err := chatService.AppendMessage(ctx, threadID, "user", "hello")
		require.NoError(t, err)
		assert.NotEmpty(t, msg.ID)
		assert.False(t, msg.Timestamp.IsZero())
		assert.Equal(t, "hello", msg.Content)
	})

	t.Run("Rejects unknown role", func(t *testing.T) {
		chatService, _ := setupChatService(t)
		_, err := chatService.AppendMessage(ctx, threadID, "system", "hello")
		assert.Error(t, err)
	})

	t.Run("Missing thread", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("GetThread", ctx, threadID).Return(nil, repository.ErrNotFound).Once()

		_, err := chatService.AppendMessage(ctx, threadID, "user", "hello")
		assert.ErrorContains(t, err, "not found")
	})
}

func TestChatService_HandleTurn(t *testing.T) {
	ctx := context.Background()
	threadID := "thread1"
	req := &service.TurnRequest{ThreadID: threadID, InputAsText: "turn the lights on"}

	t.Run("Happy path persists the enriched assistant message", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		thread := &model.Thread{ID: threadID, Model: "grok-4", EnabledTools: []string{"homeassistant"}}

		turnEvents := []stream.Event{
			stream.MetadataEvent{Metadata: model.StreamMetadata{Model: "grok-4", Routing: "direct", Tools: []string{"planned"}}},
			stream.DeltaEvent{Text: "Lights "},
			stream.DeltaEvent{Text: "are on."},
			stream.ToolsEvent{Tools: []string{"homeassistant"}},
			stream.MetricsEvent{Metrics: model.RunMetrics{DurationMs: 420}},
			stream.DoneEvent{Done: true},
		}

		mocks.repo.On("GetThread", mock.Anything, threadID).Return(thread, nil).Once()
		mocks.repo.On("AddMessage", mock.Anything, threadID, mock.MatchedBy(isUserMessage)).Return(nil).Once()
		mocks.cache.On("Invalidate", mock.Anything, threadID).Return().Once()

		mocks.provider.On("StreamTurn", mock.Anything,
			mock.MatchedBy(func(r *agent.TurnRequest) bool {
				return r.InputAsText == req.InputAsText && r.Model == "grok-4" && r.ThreadID == threadID
			}),
			mock.Anything).
			Return(func(_ context.Context, _ *agent.TurnRequest, emit func(stream.Event)) (*stream.Accumulator, error) {
				for _, ev := range turnEvents {
					emit(ev)
				}
				return accFrom(turnEvents...), nil
			}).Once()

		var saved *model.Message
		mocks.repo.On("AddMessage", mock.Anything, threadID, mock.MatchedBy(isAssistantMessage)).
			Run(func(args mock.Arguments) {
				saved = args.Get(2).(*model.Message)
			}).Return(nil).Once()
		mocks.repo.On("GetMessages", mock.Anything, threadID).Return([]model.Message{}, nil).Once()
		mocks.cache.On("Set", mock.Anything, threadID, mock.Anything).Return().Once()

		events := make(chan stream.Event, 16)
		chatService.HandleTurn(ctx, req, events)

		assert.Len(t, drainEvents(events), len(turnEvents))
		require.NotNil(t, saved)
		assert.Equal(t, "Lights are on.", saved.Content)
		assert.Equal(t, []string{"homeassistant"}, saved.ToolsUsed)
		assert.Equal(t, int64(420), saved.LatencyMs)
		assert.Equal(t, "grok-4", saved.Model)
		assert.Equal(t, "direct", saved.Routing)
	})

	t.Run("Per-turn tool selection overrides the thread default", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		thread := &model.Thread{ID: threadID, EnabledTools: []string{"homeassistant", "search"}}
		turnReq := &service.TurnRequest{
			ThreadID:     threadID,
			InputAsText:  "what's new",
			EnabledTools: []string{"search"},
		}

		mocks.repo.On("GetThread", mock.Anything, threadID).Return(thread, nil).Once()
		mocks.repo.On("AddMessage", mock.Anything, threadID, mock.MatchedBy(isUserMessage)).Return(nil).Once()
		mocks.cache.On("Invalidate", mock.Anything, threadID).Return().Once()

		done := []stream.Event{stream.DeltaEvent{Text: "done"}, stream.DoneEvent{Done: true}}
		mocks.provider.On("StreamTurn", mock.Anything,
			mock.MatchedBy(func(r *agent.TurnRequest) bool {
				return assert.ObjectsAreEqual([]string{"search"}, r.EnabledTools)
			}),
			mock.Anything).
			Return(accFrom(done...), nil).Once()

		mocks.repo.On("AddMessage", mock.Anything, threadID, mock.MatchedBy(isAssistantMessage)).Return(nil).Once()
		mocks.repo.On("GetMessages", mock.Anything, threadID).Return([]model.Message{}, nil).Once()
		mocks.cache.On("Set", mock.Anything, threadID, mock.Anything).Return().Once()

		events := make(chan stream.Event, 4)
		chatService.HandleTurn(ctx, turnReq, events)
		drainEvents(events)
	})

	t.Run("Missing thread emits an error event and persists nothing", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("GetThread", mock.Anything, threadID).Return(nil, repository.ErrNotFound).Once()

		events := make(chan stream.Event, 1)
		chatService.HandleTurn(ctx, req, events)

		got := drainEvents(events)
		require.Len(t, got, 1)
		assert.IsType(t, stream.ErrorEvent{}, got[0])
	})

	t.Run("Cancellation discards partial content", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		thread := &model.Thread{ID: threadID}

		mocks.repo.On("GetThread", mock.Anything, threadID).Return(thread, nil).Once()
		mocks.repo.On("AddMessage", mock.Anything, threadID, mock.MatchedBy(isUserMessage)).Return(nil).Once()
		mocks.cache.On("Invalidate", mock.Anything, threadID).Return().Once()

		mocks.provider.On("StreamTurn", mock.Anything, mock.Anything, mock.Anything).
			Return(func(_ context.Context, _ *agent.TurnRequest, emit func(stream.Event)) (*stream.Accumulator, error) {
				emit(stream.DeltaEvent{Text: "partial"})
				return accFrom(stream.DeltaEvent{Text: "partial"}), context.Canceled
			}).Once()

		events := make(chan stream.Event, 4)
		chatService.HandleTurn(ctx, req, events)

		// No assistant AddMessage expectation was registered: persisting
		// the partial message would fail the mock.
		assert.Len(t, drainEvents(events), 1)
	})

	t.Run("Fatal stream error is kept as an assistant message", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		thread := &model.Thread{ID: threadID}

		mocks.repo.On("GetThread", mock.Anything, threadID).Return(thread, nil).Once()
		mocks.repo.On("AddMessage", mock.Anything, threadID, mock.MatchedBy(isUserMessage)).Return(nil).Once()
		mocks.cache.On("Invalidate", mock.Anything, threadID).Return().Once()

		failure := []stream.Event{
			stream.DeltaEvent{Text: "thinking"},
			stream.ErrorEvent{Message: "model overloaded"},
		}
		mocks.provider.On("StreamTurn", mock.Anything, mock.Anything, mock.Anything).
			Return(func(_ context.Context, _ *agent.TurnRequest, emit func(stream.Event)) (*stream.Accumulator, error) {
				for _, ev := range failure {
					emit(ev)
				}
				return accFrom(failure...), nil
			}).Once()

		var saved *model.Message
		mocks.repo.On("AddMessage", mock.Anything, threadID, mock.MatchedBy(isAssistantMessage)).
			Run(func(args mock.Arguments) {
				saved = args.Get(2).(*model.Message)
			}).Return(nil).Once()
		mocks.repo.On("GetMessages", mock.Anything, threadID).Return([]model.Message{}, nil).Once()
		mocks.cache.On("Set", mock.Anything, threadID, mock.Anything).Return().Once()

		events := make(chan stream.Event, 4)
		chatService.HandleTurn(ctx, req, events)

		drainEvents(events)
		require.NotNil(t, saved)
		assert.Equal(t, "model overloaded", saved.Content)
	})

	t.Run("New turn supersedes the in-flight one for the same thread", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		thread := &model.Thread{ID: threadID}

		mocks.repo.On("GetThread", mock.Anything, threadID).Return(thread, nil).Twice()
		mocks.repo.On("AddMessage", mock.Anything, threadID, mock.MatchedBy(isUserMessage)).Return(nil).Twice()
		mocks.cache.On("Invalidate", mock.Anything, threadID).Return().Twice()

		started := make(chan struct{})
		mocks.provider.On("StreamTurn", mock.Anything,
			mock.MatchedBy(func(r *agent.TurnRequest) bool { return r.InputAsText == "first" }),
			mock.Anything).
			Return(func(ctx context.Context, _ *agent.TurnRequest, emit func(stream.Event)) (*stream.Accumulator, error) {
				close(started)
				<-ctx.Done()
				return accFrom(), ctx.Err()
			}).Once()

		second := []stream.Event{stream.DeltaEvent{Text: "second answer"}, stream.DoneEvent{Done: true}}
		mocks.provider.On("StreamTurn", mock.Anything,
			mock.MatchedBy(func(r *agent.TurnRequest) bool { return r.InputAsText == "second" }),
			mock.Anything).
			Return(func(_ context.Context, _ *agent.TurnRequest, emit func(stream.Event)) (*stream.Accumulator, error) {
				for _, ev := range second {
					emit(ev)
				}
				return accFrom(second...), nil
			}).Once()

		// Only the second turn is allowed to persist an assistant message.
		var saved *model.Message
		mocks.repo.On("AddMessage", mock.Anything, threadID, mock.MatchedBy(isAssistantMessage)).
			Run(func(args mock.Arguments) {
				saved = args.Get(2).(*model.Message)
			}).Return(nil).Once()
		mocks.repo.On("GetMessages", mock.Anything, threadID).Return([]model.Message{}, nil).Once()
		mocks.cache.On("Set", mock.Anything, threadID, mock.Anything).Return().Once()

		firstDone := make(chan struct{})
		go func() {
			defer close(firstDone)
			events := make(chan stream.Event, 4)
			chatService.HandleTurn(ctx, &service.TurnRequest{ThreadID: threadID, InputAsText: "first"}, events)
			drainEvents(events)
		}()

		<-started
		events := make(chan stream.Event, 4)
		chatService.HandleTurn(ctx, &service.TurnRequest{ThreadID: threadID, InputAsText: "second"}, events)
		assert.Len(t, drainEvents(events), len(second))

		select {
		case <-firstDone:
		case <-time.After(2 * time.Second):
			t.Fatal("superseded turn never finished")
		}
		require.NotNil(t, saved)
		assert.Equal(t, "second answer", saved.Content)
	})
}

func TestChatService_Regenerate(t *testing.T) {
	ctx := context.Background()
	threadID := "thread1"
	req := &service.RegenerateRequest{ThreadID: threadID, MessageID: "msg2"}
	history := []model.Message{
		{ID: "msg1", Role: "user", Content: "what's the weather"},
		{ID: "msg2", Role: "assistant", Content: "old answer"},
	}

	t.Run("Overwrites the message in place", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		original := history[1]
		mocks.repo.On("GetMessage", mock.Anything, "msg2").Return(&original, nil).Once()
		mocks.repo.On("GetThread", mock.Anything, threadID).Return(&model.Thread{ID: threadID}, nil).Once()
		mocks.repo.On("GetMessages", mock.Anything, threadID).Return(history, nil).Once()

		rerun := []stream.Event{stream.DeltaEvent{Text: "new answer"}, stream.DoneEvent{Done: true}}
		mocks.provider.On("StreamTurn", mock.Anything,
			mock.MatchedBy(func(r *agent.TurnRequest) bool { return r.InputAsText == "what's the weather" }),
			mock.Anything).
			Return(func(_ context.Context, _ *agent.TurnRequest, emit func(stream.Event)) (*stream.Accumulator, error) {
				for _, ev := range rerun {
					emit(ev)
				}
				return accFrom(rerun...), nil
			}).Once()

		var replaced *model.Message
		mocks.repo.On("ReplaceMessage", mock.Anything, mock.MatchedBy(isAssistantMessage)).
			Run(func(args mock.Arguments) {
				replaced = args.Get(1).(*model.Message)
			}).Return(nil).Once()
		mocks.cache.On("Invalidate", mock.Anything, threadID).Return().Once()

		events := make(chan stream.Event, 4)
		chatService.Regenerate(ctx, req, events)

		drainEvents(events)
		require.NotNil(t, replaced)
		assert.Equal(t, "msg2", replaced.ID)
		assert.Equal(t, "new answer", replaced.Content)
	})

	t.Run("Failed re-run keeps the original message", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		original := history[1]
		mocks.repo.On("GetMessage", mock.Anything, "msg2").Return(&original, nil).Once()
		mocks.repo.On("GetThread", mock.Anything, threadID).Return(&model.Thread{ID: threadID}, nil).Once()
		mocks.repo.On("GetMessages", mock.Anything, threadID).Return(history, nil).Once()

		mocks.provider.On("StreamTurn", mock.Anything, mock.Anything, mock.Anything).
			Return(func(_ context.Context, _ *agent.TurnRequest, emit func(stream.Event)) (*stream.Accumulator, error) {
				ev := stream.ErrorEvent{Message: "boom"}
				emit(ev)
				return accFrom(ev), nil
			}).Once()

		events := make(chan stream.Event, 4)
		chatService.Regenerate(ctx, req, events)
		drainEvents(events)
		// No ReplaceMessage expectation: replacing would fail the mock.
	})

	t.Run("Refuses to regenerate a user message", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		user := history[0]
		mocks.repo.On("GetMessage", mock.Anything, "msg2").Return(&user, nil).Once()

		events := make(chan stream.Event, 1)
		chatService.Regenerate(ctx, req, events)

		got := drainEvents(events)
		require.Len(t, got, 1)
		assert.IsType(t, stream.ErrorEvent{}, got[0])
	})
}

func TestChatService_EditReplay(t *testing.T) {
	ctx := context.Background()
	threadID := "thread1"
	req := &service.EditRequest{ThreadID: threadID, MessageID: "msg1", Content: "edited prompt"}

	t.Run("Updates, truncates and replays", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		target := model.Message{ID: "msg1", Role: "user", Content: "original prompt"}
		mocks.repo.On("GetMessage", mock.Anything, "msg1").Return(&target, nil).Once()
		mocks.repo.On("GetThread", mock.Anything, threadID).Return(&model.Thread{ID: threadID}, nil).Once()

		mocks.repo.On("ReplaceMessage", mock.Anything, mock.MatchedBy(func(m *model.Message) bool {
			return m.ID == "msg1" && m.Content == "edited prompt"
		})).Return(nil).Once()
		mocks.repo.On("DeleteMessagesAfter", mock.Anything, threadID, "msg1").Return(nil).Once()
		mocks.cache.On("Invalidate", mock.Anything, threadID).Return().Once()

		replay := []stream.Event{stream.DeltaEvent{Text: "fresh answer"}, stream.DoneEvent{Done: true}}
		mocks.provider.On("StreamTurn", mock.Anything,
			mock.MatchedBy(func(r *agent.TurnRequest) bool { return r.InputAsText == "edited prompt" }),
			mock.Anything).
			Return(func(_ context.Context, _ *agent.TurnRequest, emit func(stream.Event)) (*stream.Accumulator, error) {
				for _, ev := range replay {
					emit(ev)
				}
				return accFrom(replay...), nil
			}).Once()

		mocks.repo.On("AddMessage", mock.Anything, threadID, mock.MatchedBy(isAssistantMessage)).Return(nil).Once()
		mocks.repo.On("GetMessages", mock.Anything, threadID).Return([]model.Message{}, nil).Once()
		mocks.cache.On("Set", mock.Anything, threadID, mock.Anything).Return().Once()

		events := make(chan stream.Event, 4)
		chatService.EditReplay(ctx, req, events)
		assert.Len(t, drainEvents(events), len(replay))
	})

	t.Run("Truncation failure stops the replay", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		target := model.Message{ID: "msg1", Role: "user", Content: "original prompt"}
		mocks.repo.On("GetMessage", mock.Anything, "msg1").Return(&target, nil).Once()
		mocks.repo.On("GetThread", mock.Anything, threadID).Return(&model.Thread{ID: threadID}, nil).Once()
		mocks.repo.On("ReplaceMessage", mock.Anything, mock.Anything).Return(nil).Once()
		mocks.repo.On("DeleteMessagesAfter", mock.Anything, threadID, "msg1").Return(errors.New("db error")).Once()

		events := make(chan stream.Event, 4)
		chatService.EditReplay(ctx, req, events)

		got := drainEvents(events)
		require.Len(t, got, 1)
		assert.IsType(t, stream.ErrorEvent{}, got[0])
	})
}
