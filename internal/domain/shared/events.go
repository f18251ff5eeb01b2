package shared

import (
	"encoding/json"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ДОМЕННЫЕ СОБЫТИЯ
// Всё значимое, что происходит с матчами и переписками.
// ══════════════════════════════════════════════════════════════════════════════

// EventType - тип доменного события.
type EventType string

const (
	// Матчи
	EventMatchProposed EventType = "match.proposed"
	EventMatchAccepted EventType = "match.accepted"
	EventMatchRejected EventType = "match.rejected"
	EventMatchRemoved  EventType = "match.removed"

	// Переписка
	EventMessageSent EventType = "chat.message_sent"
)

// Event - базовый интерфейс доменного события.
type Event interface {
	EventType() EventType
	OccurredAt() time.Time

	// AggregateID - ID агрегата (для матчей и сообщений это ID матча).
	AggregateID() string

	Payload() map[string]any
}

// BaseEvent содержит общие поля событий.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

func (e BaseEvent) EventType() EventType  { return e.Type }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) AggregateID() string   { return e.AggregateId }

// NewBaseEvent создаёт базовое событие с текущим временем.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// WithCorrelationID привязывает событие к запросу.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ─────────────────────────────────────────────────────────────────────────────
// Матчи
// ─────────────────────────────────────────────────────────────────────────────

// MatchEvent описывает изменение статуса матча.
type MatchEvent struct {
	BaseEvent
	InitiatorID string  `json:"initiator_id"`
	ReceiverID  string  `json:"receiver_id"`
	Score       float64 `json:"score"`

	// ActorID - кто совершил действие.
	ActorID string `json:"actor_id"`
}

func (e MatchEvent) Payload() map[string]any {
	return map[string]any{
		"initiator_id": e.InitiatorID,
		"receiver_id":  e.ReceiverID,
		"score":        e.Score,
		"actor_id":     e.ActorID,
	}
}

// NewMatchEvent создаёт событие матча.
func NewMatchEvent(eventType EventType, matchID, initiatorID, receiverID, actorID string, score float64) MatchEvent {
	return MatchEvent{
		BaseEvent:   NewBaseEvent(eventType, matchID),
		InitiatorID: initiatorID,
		ReceiverID:  receiverID,
		Score:       score,
		ActorID:     actorID,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Переписка
// ─────────────────────────────────────────────────────────────────────────────

// MessageSentEvent - в матч добавлено сообщение.
type MessageSentEvent struct {
	BaseEvent
	MessageID   string `json:"message_id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
}

func (e MessageSentEvent) Payload() map[string]any {
	return map[string]any{
		"message_id":   e.MessageID,
		"sender_id":    e.SenderID,
		"recipient_id": e.RecipientID,
	}
}

// NewMessageSentEvent создаёт событие отправки сообщения.
func NewMessageSentEvent(matchID, messageID, senderID, recipientID string) MessageSentEvent {
	return MessageSentEvent{
		BaseEvent:   NewBaseEvent(EventMessageSent, matchID),
		MessageID:   messageID,
		SenderID:    senderID,
		RecipientID: recipientID,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ШИНА
// ══════════════════════════════════════════════════════════════════════════════

// EventEnvelope - событие в виде, пригодном для передачи.
type EventEnvelope struct {
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEventEnvelope сериализует событие.
func NewEventEnvelope(e Event) (EventEnvelope, error) {
	payload, err := json.Marshal(e.Payload())
	if err != nil {
		return EventEnvelope{}, err
	}
	env := EventEnvelope{
		Type:        e.EventType(),
		AggregateID: e.AggregateID(),
		Timestamp:   e.OccurredAt(),
		Payload:     payload,
	}
	if c, ok := e.(interface{ Correlation() string }); ok {
		env.CorrelationID = c.Correlation()
	}
	return env, nil
}

// Correlation возвращает ID запроса, породившего событие.
func (e BaseEvent) Correlation() string { return e.CorrelationID }

// EventHandler обрабатывает событие.
type EventHandler func(event Event) error

// EventPublisher публикует события.
type EventPublisher interface {
	Publish(event Event) error
}

// EventSubscriber регистрирует обработчики.
type EventSubscriber interface {
	Subscribe(eventType EventType, handler EventHandler) error
	SubscribeAll(handler EventHandler) error
}

// EventBus объединяет публикацию и подписку.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// NoopPublisher отбрасывает события.
type NoopPublisher struct{}

func (NoopPublisher) Publish(Event) error { return nil }
