package postgres

import (
	"context"
	"fmt"

	"github.com/skillswap/skillswap-hub/internal/domain/chat"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// MessageRepository implements chat.MessageLog for PostgreSQL.
type MessageRepository struct {
	conn *Connection
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(conn *Connection) *MessageRepository {
	return &MessageRepository{conn: conn}
}

var _ chat.MessageLog = (*MessageRepository)(nil)

// Append stores a new message.
func (r *MessageRepository) Append(ctx context.Context, m *chat.Message) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO messages (id, relationship_id, sender_id, content, sent_at, read)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID, m.RelationshipID, string(m.SenderID), m.Content, m.SentAt, m.Read)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.NewDomainError("chat", "Append", shared.ErrAlreadyExists, "message already exists")
		}
		if IsForeignKeyViolation(err) {
			return shared.ErrRelationshipNotFound
		}
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// ListByRelationship returns messages in the order they were appended.
func (r *MessageRepository) ListByRelationship(ctx context.Context, relationshipID string) ([]*chat.Message, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, relationship_id, sender_id, content, sent_at, read
		FROM messages
		WHERE relationship_id::text = $1
		ORDER BY seq
	`, relationshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*chat.Message, 0)
	for rows.Next() {
		var m chat.Message
		var sender string
		if err := rows.Scan(&m.ID, &m.RelationshipID, &sender, &m.Content, &m.SentAt, &m.Read); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.SenderID = profile.ID(sender)
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return messages, nil
}

// MarkRead marks unread messages not sent by reader as read.
func (r *MessageRepository) MarkRead(ctx context.Context, relationshipID string, reader profile.ID) (int, error) {
	result, err := r.conn.Exec(ctx, `
		UPDATE messages SET read = TRUE
		WHERE relationship_id::text = $1 AND sender_id != $2 AND read = FALSE
	`, relationshipID, string(reader))
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return int(result.RowsAffected()), nil
}
