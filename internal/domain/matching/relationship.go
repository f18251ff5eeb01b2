package matching

import (
	"fmt"
	"time"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет стадию жизненного цикла связи.
type Status string

const (
	// StatusPending - предложение ждёт ответа приглашённого.
	StatusPending Status = "pending"

	// StatusAccepted - пара сформирована.
	StatusAccepted Status = "accepted"

	// StatusRejected - предложение отклонено.
	StatusRejected Status = "rejected"
)

// IsValid проверяет корректность статуса.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

// IsFinal возвращает true для статусов без дальнейших переходов.
func (s Status) IsFinal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Pair - неупорядоченная пара профилей в каноническом виде (Low < High).
type Pair struct {
	Low  profile.ID
	High profile.ID
}

// NewPair нормализует пару: порядок аргументов не важен.
func NewPair(a, b profile.ID) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{Low: a, High: b}
}

// String возвращает ключ пары.
func (p Pair) String() string {
	return string(p.Low) + ":" + string(p.High)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY: RELATIONSHIP
// ══════════════════════════════════════════════════════════════════════════════

// Relationship - оценённая связь между двумя профилями ("match").
// Для одной неупорядоченной пары существует не более одной связи.
type Relationship struct {
	// ID - уникальный идентификатор связи (UUID).
	ID string `json:"id"`

	// InitiatorID - кто предложил связь.
	InitiatorID profile.ID `json:"initiator_id"`

	// ReceiverID - кому предложили. Только он может принять или отклонить.
	ReceiverID profile.ID `json:"receiver_id"`

	// Score - оценка совместимости на момент последнего предложения.
	Score float64 `json:"score"`

	// Rationale - текстовое обоснование оценки.
	Rationale string `json:"rationale"`

	// Status - текущий статус.
	Status Status `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// RespondedAt - когда приглашённый ответил (nil, пока pending).
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// NewRelationshipParams параметры для создания связи.
type NewRelationshipParams struct {
	ID          string
	InitiatorID profile.ID
	ReceiverID  profile.ID
	Score       float64
	Rationale   string
}

// NewRelationship создаёт связь в статусе pending.
func NewRelationship(params NewRelationshipParams) (*Relationship, error) {
	if params.ID == "" {
		return nil, shared.NewDomainError("matching", "Propose", shared.ErrInvalidID, "relationship id is required")
	}
	if !params.InitiatorID.IsValid() || !params.ReceiverID.IsValid() {
		return nil, shared.ErrInvalidProfileID
	}
	if params.InitiatorID == params.ReceiverID {
		return nil, shared.ErrSelfMatch
	}
	if !validScore(params.Score) {
		return nil, shared.ErrInvalidScore
	}

	now := time.Now().UTC()
	return &Relationship{
		ID:          params.ID,
		InitiatorID: params.InitiatorID,
		ReceiverID:  params.ReceiverID,
		Score:       params.Score,
		Rationale:   params.Rationale,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func validScore(score float64) bool {
	return score >= 0 && score <= 1
}

// Pair возвращает каноническую пару участников.
func (r *Relationship) Pair() Pair {
	return NewPair(r.InitiatorID, r.ReceiverID)
}

// Involves проверяет, участвует ли профиль в связи.
func (r *Relationship) Involves(id profile.ID) bool {
	return r.InitiatorID == id || r.ReceiverID == id
}

// Other возвращает ID второго участника.
func (r *Relationship) Other(id profile.ID) profile.ID {
	if r.InitiatorID == id {
		return r.ReceiverID
	}
	return r.InitiatorID
}

// IsPending проверяет, ждёт ли связь ответа.
func (r *Relationship) IsPending() bool {
	return r.Status == StatusPending
}

// IsAccepted проверяет, сформирована ли пара.
func (r *Relationship) IsAccepted() bool {
	return r.Status == StatusAccepted
}

// Accept принимает предложение от имени приглашённого.
func (r *Relationship) Accept(by profile.ID) error {
	return r.respond(by, StatusAccepted)
}

// Reject отклоняет предложение от имени приглашённого.
func (r *Relationship) Reject(by profile.ID) error {
	return r.respond(by, StatusRejected)
}

func (r *Relationship) respond(by profile.ID, to Status) error {
	if !r.Involves(by) {
		return shared.ErrNotParticipant
	}
	if by != r.ReceiverID {
		return shared.ErrNotReceiver
	}
	if r.Status != StatusPending {
		return shared.ErrRelationshipFinal
	}

	now := time.Now().UTC()
	r.Status = to
	r.RespondedAt = &now
	r.UpdatedAt = now
	return nil
}

// Rescore обновляет оценку и обоснование при повторном предложении.
// Статус и участники не меняются.
func (r *Relationship) Rescore(score float64, rationale string) error {
	if !validScore(score) {
		return shared.ErrInvalidScore
	}
	r.Score = score
	r.Rationale = rationale
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// String возвращает строковое представление для логирования.
func (r *Relationship) String() string {
	return fmt.Sprintf(
		"Relationship{ID: %s, %s -> %s, Score: %.2f, Status: %s}",
		r.ID, r.InitiatorID, r.ReceiverID, r.Score, r.Status,
	)
}

// Clone создаёт глубокую копию связи.
func (r *Relationship) Clone() *Relationship {
	if r == nil {
		return nil
	}
	clone := *r
	if r.RespondedAt != nil {
		at := *r.RespondedAt
		clone.RespondedAt = &at
	}
	return &clone
}

// ExcludedSet собирает профили, уже связанные с owner любой связью.
// Такие профили не попадают в пул кандидатов owner.
func ExcludedSet(owner profile.ID, relationships []*Relationship) map[profile.ID]struct{} {
	excluded := make(map[profile.ID]struct{}, len(relationships))
	for _, r := range relationships {
		if r.Involves(owner) {
			excluded[r.Other(owner)] = struct{}{}
		}
	}
	return excluded
}
