package command

import (
	"context"
	"fmt"

	"github.com/skillswap/skillswap-hub/internal/domain/chat"
	"github.com/skillswap/skillswap-hub/internal/domain/matching"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// SendMessageCommand appends a message to an accepted match.
type SendMessageCommand struct {
	RelationshipID string
	SenderID       string
	Content        string
	CorrelationID  string
}

// SendMessageHandler handles SendMessageCommand.
type SendMessageHandler struct {
	relationships matching.RelationshipRepository
	messages      chat.MessageLog
	opts          Options
}

// NewSendMessageHandler creates a new handler.
func NewSendMessageHandler(relationships matching.RelationshipRepository, messages chat.MessageLog, opts Options) *SendMessageHandler {
	return &SendMessageHandler{relationships: relationships, messages: messages, opts: opts.withDefaults()}
}

// Handle executes the command and returns the stored message.
func (h *SendMessageHandler) Handle(ctx context.Context, cmd SendMessageCommand) (*chat.Message, error) {
	// content and ids are validated by chat.NewMessage
	msg, err := chat.NewMessage(chat.NewMessageParams{
		ID:             h.opts.NewID(),
		RelationshipID: cmd.RelationshipID,
		SenderID:       profile.ID(cmd.SenderID),
		Content:        cmd.Content,
	})
	if err != nil {
		return nil, err
	}

	rel, err := h.relationships.GetByID(ctx, cmd.RelationshipID)
	if err != nil {
		return nil, err
	}
	if !rel.Involves(msg.SenderID) {
		return nil, shared.ErrNotParticipant
	}
	if !rel.IsAccepted() {
		return nil, shared.ErrRelationshipClosed
	}

	if err := h.messages.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("send_message: %w", err)
	}

	event := shared.NewMessageSentEvent(rel.ID, msg.ID, msg.SenderID.String(), rel.Other(msg.SenderID).String())
	event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	publish(h.opts.Publisher, event)

	return msg, nil
}
