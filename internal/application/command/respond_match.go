package command

import (
	"context"
	"fmt"

	"github.com/skillswap/skillswap-hub/internal/domain/matching"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// Decision is the receiver's answer to a proposal.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// RespondMatchCommand accepts or rejects a pending match.
type RespondMatchCommand struct {
	RelationshipID string

	// ProfileID must be the receiver of the proposal.
	ProfileID string

	Decision      Decision
	CorrelationID string
}

// Validate validates the command.
func (c RespondMatchCommand) Validate() error {
	if c.RelationshipID == "" {
		return shared.NewDomainError("command", "RespondMatch", shared.ErrInvalidID, "relationship id is required")
	}
	if !profile.ID(c.ProfileID).IsValid() {
		return shared.ErrInvalidProfileID
	}
	if c.Decision != DecisionAccept && c.Decision != DecisionReject {
		return shared.NewDomainError("command", "RespondMatch", shared.ErrInvalidInput, "decision must be accept or reject")
	}
	return nil
}

// RespondMatchHandler handles RespondMatchCommand.
type RespondMatchHandler struct {
	relationships matching.RelationshipRepository
	opts          Options
}

// NewRespondMatchHandler creates a new handler.
func NewRespondMatchHandler(relationships matching.RelationshipRepository, opts Options) *RespondMatchHandler {
	return &RespondMatchHandler{relationships: relationships, opts: opts.withDefaults()}
}

// Handle executes the command and returns the updated match.
func (h *RespondMatchHandler) Handle(ctx context.Context, cmd RespondMatchCommand) (*matching.Relationship, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	rel, err := h.relationships.GetByID(ctx, cmd.RelationshipID)
	if err != nil {
		return nil, err
	}

	by := profile.ID(cmd.ProfileID)
	eventType := shared.EventMatchAccepted
	if cmd.Decision == DecisionAccept {
		err = rel.Accept(by)
	} else {
		eventType = shared.EventMatchRejected
		err = rel.Reject(by)
	}
	if err != nil {
		return nil, err
	}

	if err := h.relationships.UpdateStatus(ctx, rel); err != nil {
		if shared.IsConflict(err) || shared.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("respond_match: save: %w", err)
	}

	event := shared.NewMatchEvent(eventType, rel.ID, rel.InitiatorID.String(), rel.ReceiverID.String(), cmd.ProfileID, rel.Score)
	event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	publish(h.opts.Publisher, event)

	return rel, nil
}
