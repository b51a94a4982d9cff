package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlee0412/frok-server/internal/model"
)

func setupRepo(t *testing.T) (Repository, sqlmock.Sqlmock, *sql.DB) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db), mockDB, db
}

func TestSQLiteRepository_CreateThread(t *testing.T) {
	repo, mockDB, _ := setupRepo(t)
	ctx := context.Background()

	mockDB.ExpectExec("INSERT INTO threads").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateThread(ctx, &model.Thread{
		ID:        "t1",
		Title:     "Kitchen lights",
		Tags:      []string{"home"},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	assert.NoError(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLiteRepository_GetThread_NotFound(t *testing.T) {
	repo, mockDB, _ := setupRepo(t)

	mockDB.ExpectQuery("SELECT (.+) FROM threads WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetThread(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

// AddMessage must insert the message and touch the thread timestamp inside
// one transaction.
func TestSQLiteRepository_AddMessage_Transactional(t *testing.T) {
	repo, mockDB, _ := setupRepo(t)
	ctx := context.Background()

	mockDB.ExpectBegin()
	mockDB.ExpectExec("INSERT INTO messages").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mockDB.ExpectExec("UPDATE threads SET updated_at").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mockDB.ExpectCommit()

	err := repo.AddMessage(ctx, "t1", &model.Message{
		ID:        "m1",
		Role:      "user",
		Content:   "turn on the lights",
		Timestamp: time.Now(),
	})
	assert.NoError(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLiteRepository_AddMessage_RollsBackOnInsertFailure(t *testing.T) {
	repo, mockDB, _ := setupRepo(t)

	mockDB.ExpectBegin()
	mockDB.ExpectExec("INSERT INTO messages").
		WillReturnError(sql.ErrConnDone)
	mockDB.ExpectRollback()

	err := repo.AddMessage(context.Background(), "t1", &model.Message{ID: "m1", Role: "user"})
	assert.Error(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLiteRepository_ReplaceMessage_NotFound(t *testing.T) {
	repo, mockDB, _ := setupRepo(t)

	mockDB.ExpectExec("UPDATE messages").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ReplaceMessage(context.Background(), &model.Message{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteRepository_DeleteMessagesAfter(t *testing.T) {
	repo, mockDB, _ := setupRepo(t)

	// The compare must carry the rowid tiebreaker: a message whose
	// timestamp exactly ties the edited one is still after it.
	mockDB.ExpectExec(`DELETE FROM messages\s+WHERE thread_id = \?\s+AND \(timestamp, rowid\) >`).
		WithArgs("t1", "m2", "t1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.DeleteMessagesAfter(context.Background(), "t1", "m2")
	assert.NoError(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLiteRepository_GetMessages_ScansEnrichment(t *testing.T) {
	repo, mockDB, _ := setupRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "thread_id", "role", "content", "timestamp",
		"tools_used", "latency_ms", "model", "complexity", "routing", "tool_source",
	}).
		AddRow("m1", "t1", "user", "hi", now, nil, nil, nil, nil, nil, nil).
		AddRow("m2", "t1", "assistant", "hello", now, `["ha_control"]`, 1200, "gpt-x", "simple", "direct", "builtin")

	mockDB.ExpectQuery("SELECT (.+) FROM messages WHERE thread_id").
		WithArgs("t1").
		WillReturnRows(rows)

	messages, err := repo.GetMessages(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Empty(t, messages[0].ToolsUsed)
	assert.Equal(t, []string{"ha_control"}, messages[1].ToolsUsed)
	assert.Equal(t, int64(1200), messages[1].LatencyMs)
	assert.Equal(t, "direct", messages[1].Routing)
}
