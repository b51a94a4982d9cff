package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mlee0412/frok-server/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateThread(ctx context.Context, thread *model.Thread) error {
	query := `
		INSERT INTO threads (id, title, tags, folder, pinned, archived, enabled_tools, model, agent_style, share_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		thread.ID,
		thread.Title,
		encodeStrings(thread.Tags),
		nullable(thread.Folder),
		thread.Pinned,
		thread.Archived,
		encodeStrings(thread.EnabledTools),
		nullable(thread.Model),
		nullable(thread.AgentStyle),
		nullable(thread.ShareToken),
		thread.CreatedAt,
		thread.UpdatedAt,
	)
	return err
}

func (r *sqliteRepository) GetThread(ctx context.Context, threadID string) (*model.Thread, error) {
	query := `
		SELECT id, title, tags, folder, pinned, archived, enabled_tools, model, agent_style, share_token, created_at, updated_at
		FROM threads WHERE id = ?
	`
	thread, err := scanThread(r.db.QueryRowContext(ctx, query, threadID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return thread, nil
}

func (r *sqliteRepository) ListThreads(ctx context.Context) ([]*model.Thread, error) {
	query := `
		SELECT id, title, tags, folder, pinned, archived, enabled_tools, model, agent_style, share_token, created_at, updated_at
		FROM threads ORDER BY pinned DESC, updated_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []*model.Thread
	for rows.Next() {
		thread, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		threads = append(threads, thread)
	}
	return threads, rows.Err()
}

func (r *sqliteRepository) UpdateThread(ctx context.Context, thread *model.Thread) error {
	query := `
		UPDATE threads
		SET title = ?, tags = ?, folder = ?, pinned = ?, archived = ?, enabled_tools = ?, model = ?, agent_style = ?, share_token = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		thread.Title,
		encodeStrings(thread.Tags),
		nullable(thread.Folder),
		thread.Pinned,
		thread.Archived,
		encodeStrings(thread.EnabledTools),
		nullable(thread.Model),
		nullable(thread.AgentStyle),
		nullable(thread.ShareToken),
		time.Now().UTC(),
		thread.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sqliteRepository) DeleteThread(ctx context.Context, threadID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM threads WHERE id = ?", threadID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// AddMessage inserts the message and touches the thread timestamp in one
// transaction so thread ordering never drifts from its messages.
func (r *sqliteRepository) AddMessage(ctx context.Context, threadID string, message *model.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO messages (id, thread_id, role, content, timestamp, tools_used, latency_ms, model, complexity, routing, tool_source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, insertQuery,
		message.ID,
		threadID,
		message.Role,
		message.Content,
		message.Timestamp,
		encodeStrings(message.ToolsUsed),
		nullableInt(message.LatencyMs),
		nullable(message.Model),
		nullable(message.Complexity),
		nullable(message.Routing),
		nullable(message.ToolSource),
	)
	if err != nil {
		return fmt.Errorf("could not insert message: %w", err)
	}

	_, err = tx.ExecContext(ctx, "UPDATE threads SET updated_at = ? WHERE id = ?", time.Now().UTC(), threadID)
	if err != nil {
		return fmt.Errorf("could not update thread timestamp: %w", err)
	}

	return tx.Commit()
}

func (r *sqliteRepository) GetMessages(ctx context.Context, threadID string) ([]model.Message, error) {
	query := `
		SELECT id, thread_id, role, content, timestamp, tools_used, latency_ms, model, complexity, routing, tool_source
		FROM messages WHERE thread_id = ? ORDER BY timestamp ASC, rowid ASC
	`
	rows, err := r.db.QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

func (r *sqliteRepository) GetMessage(ctx context.Context, messageID string) (*model.Message, error) {
	query := `
		SELECT id, thread_id, role, content, timestamp, tools_used, latency_ms, model, complexity, routing, tool_source
		FROM messages WHERE id = ?
	`
	msg, err := scanMessage(r.db.QueryRowContext(ctx, query, messageID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return msg, nil
}

func (r *sqliteRepository) ReplaceMessage(ctx context.Context, message *model.Message) error {
	query := `
		UPDATE messages
		SET content = ?, timestamp = ?, tools_used = ?, latency_ms = ?, model = ?, complexity = ?, routing = ?, tool_source = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		message.Content,
		message.Timestamp,
		encodeStrings(message.ToolsUsed),
		nullableInt(message.LatencyMs),
		nullable(message.Model),
		nullable(message.Complexity),
		nullable(message.Routing),
		nullable(message.ToolSource),
		message.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sqliteRepository) DeleteMessagesAfter(ctx context.Context, threadID, messageID string) error {
	// rowid breaks timestamp ties, matching the insertion order GetMessages
	// falls back to, so a message written in the same instant as the anchor
	// still counts as after it.
	query := `
		DELETE FROM messages
		WHERE thread_id = ?
		  AND (timestamp, rowid) > (SELECT timestamp, rowid FROM messages WHERE id = ? AND thread_id = ?)
	`
	_, err := r.db.ExecContext(ctx, query, threadID, messageID, threadID)
	return err
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanThread(row rowScanner) (*model.Thread, error) {
	var thread model.Thread
	var tags, folder, enabledTools, modelName, agentStyle, shareToken sql.NullString

	err := row.Scan(
		&thread.ID, &thread.Title, &tags, &folder, &thread.Pinned, &thread.Archived,
		&enabledTools, &modelName, &agentStyle, &shareToken, &thread.CreatedAt, &thread.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	thread.Tags = decodeStrings(tags)
	thread.EnabledTools = decodeStrings(enabledTools)
	if folder.Valid {
		thread.Folder = folder.String
	}
	if modelName.Valid {
		thread.Model = modelName.String
	}
	if agentStyle.Valid {
		thread.AgentStyle = agentStyle.String
	}
	if shareToken.Valid {
		thread.ShareToken = shareToken.String
	}
	return &thread, nil
}

func scanMessage(row rowScanner) (*model.Message, error) {
	var msg model.Message
	var toolsUsed, modelName, complexity, routing, toolSource sql.NullString
	var latencyMs sql.NullInt64

	err := row.Scan(
		&msg.ID, &msg.ThreadID, &msg.Role, &msg.Content, &msg.Timestamp,
		&toolsUsed, &latencyMs, &modelName, &complexity, &routing, &toolSource,
	)
	if err != nil {
		return nil, err
	}

	msg.ToolsUsed = decodeStrings(toolsUsed)
	if latencyMs.Valid {
		msg.LatencyMs = latencyMs.Int64
	}
	if modelName.Valid {
		msg.Model = modelName.String
	}
	if complexity.Valid {
		msg.Complexity = complexity.String
	}
	if routing.Valid {
		msg.Routing = routing.String
	}
	if toolSource.Valid {
		msg.ToolSource = toolSource.String
	}
	return &msg, nil
}

func encodeStrings(values []string) sql.NullString {
	if len(values) == 0 {
		return sql.NullString{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(encoded), Valid: true}
}

func decodeStrings(value sql.NullString) []string {
	if !value.Valid || value.String == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(value.String), &values); err != nil {
		return nil
	}
	return values
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullableInt(n int64) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: n, Valid: true}
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
