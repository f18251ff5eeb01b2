package query

import (
	"context"

	"github.com/skillswap/skillswap-hub/internal/domain/chat"
	"github.com/skillswap/skillswap-hub/internal/domain/matching"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// ListMessagesQuery - переписка в рамках матча.
type ListMessagesQuery struct {
	RelationshipID string

	// ProfileID - кто читает. Должен быть участником матча.
	ProfileID string

	// KeepUnread не помечает входящие прочитанными.
	KeepUnread bool
}

// Validate проверяет корректность параметров.
func (q ListMessagesQuery) Validate() error {
	if q.RelationshipID == "" {
		return shared.NewDomainError("query", "ListMessages", shared.ErrInvalidID, "relationship id is required")
	}
	if !profile.ID(q.ProfileID).IsValid() {
		return shared.ErrInvalidProfileID
	}
	return nil
}

// ListMessagesResult - сообщения в порядке отправки.
type ListMessagesResult struct {
	RelationshipID string          `json:"relationship_id"`
	Messages       []*chat.Message `json:"messages"`

	// MarkedRead - сколько входящих стало прочитанными этим запросом.
	MarkedRead int `json:"marked_read"`
}

// ListMessagesHandler отдаёт переписку и отмечает её прочитанной.
type ListMessagesHandler struct {
	relationships matching.RelationshipRepository
	messages      chat.MessageLog
}

// NewListMessagesHandler создаёт новый обработчик.
func NewListMessagesHandler(relationships matching.RelationshipRepository, messages chat.MessageLog) *ListMessagesHandler {
	return &ListMessagesHandler{relationships: relationships, messages: messages}
}

// Handle возвращает переписку.
func (h *ListMessagesHandler) Handle(ctx context.Context, q ListMessagesQuery) (*ListMessagesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	reader := profile.ID(q.ProfileID)
	rel, err := h.relationships.GetByID(ctx, q.RelationshipID)
	if err != nil {
		return nil, err
	}
	if !rel.Involves(reader) {
		return nil, shared.ErrNotParticipant
	}
	if !rel.IsAccepted() {
		return nil, shared.ErrRelationshipClosed
	}

	messages, err := h.messages.ListByRelationship(ctx, rel.ID)
	if err != nil {
		return nil, err
	}

	result := &ListMessagesResult{RelationshipID: rel.ID, Messages: messages}
	if q.KeepUnread {
		return result, nil
	}

	result.MarkedRead, err = h.messages.MarkRead(ctx, rel.ID, reader)
	if err != nil {
		return nil, err
	}
	// ответ отражает состояние после MarkRead
	for _, m := range result.Messages {
		if m.IsIncomingFor(reader) {
			m.Read = true
		}
	}
	return result, nil
}
