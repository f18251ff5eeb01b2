package query

import (
	"context"
	"time"

	"github.com/skillswap/skillswap-hub/internal/domain/chat"
	"github.com/skillswap/skillswap-hub/internal/domain/matching"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST MATCHES QUERY
// Матчи профиля, разложенные по вкладкам: входящие и исходящие
// предложения, сформированные пары.
// ══════════════════════════════════════════════════════════════════════════════

// Направление предложения относительно запрашивающего.
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// ListMatchesQuery - запрос матчей профиля.
type ListMatchesQuery struct {
	ProfileID string
}

// MatchDTO - матч глазами одного из участников.
type MatchDTO struct {
	ID        string          `json:"id"`
	Partner   ProfileDTO      `json:"partner"`
	Score     float64         `json:"score"`
	Rationale string          `json:"rationale"`
	Status    matching.Status `json:"status"`
	Direction string          `json:"direction"`

	// UnreadCount - непрочитанные входящие сообщения.
	UnreadCount int `json:"unread_count"`

	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// ListMatchesResult - матчи по группам, новые первыми.
type ListMatchesResult struct {
	Incoming []MatchDTO `json:"incoming"`
	Outgoing []MatchDTO `json:"outgoing"`
	Accepted []MatchDTO `json:"accepted"`

	// Rejected не показывается на экране матчей, но нужен клиенту,
	// чтобы понимать, почему профиль исчез из поиска.
	Rejected []MatchDTO `json:"rejected"`
}

// ListMatchesHandler собирает матчи профиля.
type ListMatchesHandler struct {
	profiles      profile.Repository
	relationships matching.RelationshipRepository
	messages      chat.MessageLog
}

// NewListMatchesHandler создаёт новый обработчик.
func NewListMatchesHandler(
	profiles profile.Repository,
	relationships matching.RelationshipRepository,
	messages chat.MessageLog,
) *ListMatchesHandler {
	return &ListMatchesHandler{
		profiles:      profiles,
		relationships: relationships,
		messages:      messages,
	}
}

// Handle возвращает матчи.
func (h *ListMatchesHandler) Handle(ctx context.Context, q ListMatchesQuery) (*ListMatchesResult, error) {
	owner := profile.ID(q.ProfileID)
	if !owner.IsValid() {
		return nil, shared.ErrInvalidProfileID
	}
	if _, err := h.profiles.GetProfile(ctx, owner); err != nil {
		return nil, err
	}

	rels, err := h.relationships.ListByProfile(ctx, owner)
	if err != nil {
		return nil, err
	}

	result := &ListMatchesResult{
		Incoming: []MatchDTO{},
		Outgoing: []MatchDTO{},
		Accepted: []MatchDTO{},
		Rejected: []MatchDTO{},
	}

	for _, r := range rels {
		dto, err := h.buildMatchDTO(ctx, owner, r)
		if err != nil {
			if shared.IsNotFound(err) {
				// партнёр удалён из каталога
				continue
			}
			return nil, err
		}

		switch r.Status {
		case matching.StatusAccepted:
			result.Accepted = append(result.Accepted, dto)
		case matching.StatusRejected:
			result.Rejected = append(result.Rejected, dto)
		default:
			if dto.Direction == DirectionIncoming {
				result.Incoming = append(result.Incoming, dto)
			} else {
				result.Outgoing = append(result.Outgoing, dto)
			}
		}
	}
	return result, nil
}

func (h *ListMatchesHandler) buildMatchDTO(ctx context.Context, owner profile.ID, r *matching.Relationship) (MatchDTO, error) {
	partner, err := h.profiles.GetProfile(ctx, r.Other(owner))
	if err != nil {
		return MatchDTO{}, err
	}

	direction := DirectionOutgoing
	if r.ReceiverID == owner {
		direction = DirectionIncoming
	}

	dto := MatchDTO{
		ID:          r.ID,
		Partner:     NewProfileDTO(partner),
		Score:       r.Score,
		Rationale:   r.Rationale,
		Status:      r.Status,
		Direction:   direction,
		CreatedAt:   r.CreatedAt,
		RespondedAt: r.RespondedAt,
	}

	if r.IsAccepted() {
		messages, err := h.messages.ListByRelationship(ctx, r.ID)
		if err != nil {
			return MatchDTO{}, err
		}
		for _, m := range messages {
			if !m.Read && m.IsIncomingFor(owner) {
				dto.UnreadCount++
			}
		}
	}
	return dto, nil
}
