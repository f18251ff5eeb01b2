package memory

import (
	"context"
	"sync"

	"github.com/skillswap/skillswap-hub/internal/domain/chat"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// MessageLog implements chat.MessageLog in memory.
type MessageLog struct {
	mu       sync.RWMutex
	messages map[string][]*chat.Message
	ids      map[string]struct{}
}

// NewMessageLog creates an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{
		messages: make(map[string][]*chat.Message),
		ids:      make(map[string]struct{}),
	}
}

var _ chat.MessageLog = (*MessageLog)(nil)

// Append adds a copy of the message to the end of its relationship log.
func (l *MessageLog) Append(ctx context.Context, m *chat.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, dup := l.ids[m.ID]; dup {
		return shared.NewDomainError("chat", "Append", shared.ErrAlreadyExists, "message already exists")
	}

	c := *m
	l.messages[m.RelationshipID] = append(l.messages[m.RelationshipID], &c)
	l.ids[m.ID] = struct{}{}
	return nil
}

// ListByRelationship returns copies of the messages in append order.
func (l *MessageLog) ListByRelationship(ctx context.Context, relationshipID string) ([]*chat.Message, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stored := l.messages[relationshipID]
	result := make([]*chat.Message, len(stored))
	for i, m := range stored {
		c := *m
		result[i] = &c
	}
	return result, nil
}

// MarkRead marks unread messages not sent by reader as read.
func (l *MessageLog) MarkRead(ctx context.Context, relationshipID string, reader profile.ID) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	changed := 0
	for _, m := range l.messages[relationshipID] {
		if !m.Read && m.IsIncomingFor(reader) {
			m.Read = true
			changed++
		}
	}
	return changed, nil
}
