// Package chat содержит журнал сообщений между участниками сформированной
// пары. Журнал только дополняется: сообщения не редактируются и не удаляются,
// меняется лишь отметка о прочтении.
package chat

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// MaxContentLength - максимальная длина сообщения в символах.
const MaxContentLength = 4000

// Message - сообщение в рамках связи.
type Message struct {
	ID             string     `json:"id"`
	RelationshipID string     `json:"relationship_id"`
	SenderID       profile.ID `json:"sender_id"`
	Content        string     `json:"content"`
	SentAt         time.Time  `json:"sent_at"`
	Read           bool       `json:"read"`
}

// NewMessageParams параметры для создания сообщения.
type NewMessageParams struct {
	ID             string
	RelationshipID string
	SenderID       profile.ID
	Content        string
}

// NewMessage создаёт непрочитанное сообщение.
// Пробелы по краям текста отбрасываются.
func NewMessage(params NewMessageParams) (*Message, error) {
	if params.ID == "" || params.RelationshipID == "" {
		return nil, shared.NewDomainError("chat", "Send", shared.ErrInvalidID, "message and relationship ids are required")
	}
	if !params.SenderID.IsValid() {
		return nil, shared.ErrInvalidProfileID
	}

	content := strings.TrimSpace(params.Content)
	if content == "" {
		return nil, shared.ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, shared.ErrMessageTooLong
	}

	return &Message{
		ID:             params.ID,
		RelationshipID: params.RelationshipID,
		SenderID:       params.SenderID,
		Content:        content,
		SentAt:         time.Now().UTC(),
	}, nil
}

// IsIncomingFor проверяет, адресовано ли сообщение этому профилю.
func (m *Message) IsIncomingFor(id profile.ID) bool {
	return m.SenderID != id
}

// MessageLog - журнал сообщений.
type MessageLog interface {
	// Append добавляет сообщение в конец журнала.
	Append(ctx context.Context, m *Message) error

	// ListByRelationship возвращает сообщения связи в порядке отправки.
	ListByRelationship(ctx context.Context, relationshipID string) ([]*Message, error)

	// MarkRead отмечает прочитанными все сообщения связи, отправленные
	// не reader. Возвращает число изменённых сообщений.
	MarkRead(ctx context.Context, relationshipID string, reader profile.ID) (int, error)
}
