package command

import (
	"context"
	"fmt"

	"github.com/skillswap/skillswap-hub/internal/domain/matching"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// RemoveMatchCommand deletes a match so both profiles can find each
// other as candidates again.
type RemoveMatchCommand struct {
	RelationshipID string

	// ProfileID must be one of the two participants.
	ProfileID     string
	CorrelationID string
}

// Validate validates the command.
func (c RemoveMatchCommand) Validate() error {
	if c.RelationshipID == "" {
		return shared.NewDomainError("command", "RemoveMatch", shared.ErrInvalidID, "relationship id is required")
	}
	if !profile.ID(c.ProfileID).IsValid() {
		return shared.ErrInvalidProfileID
	}
	return nil
}

// RemoveMatchHandler handles RemoveMatchCommand.
type RemoveMatchHandler struct {
	relationships matching.RelationshipRepository
	opts          Options
}

// NewRemoveMatchHandler creates a new handler.
func NewRemoveMatchHandler(relationships matching.RelationshipRepository, opts Options) *RemoveMatchHandler {
	return &RemoveMatchHandler{relationships: relationships, opts: opts.withDefaults()}
}

// Handle executes the command.
func (h *RemoveMatchHandler) Handle(ctx context.Context, cmd RemoveMatchCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	rel, err := h.relationships.GetByID(ctx, cmd.RelationshipID)
	if err != nil {
		return err
	}
	if !rel.Involves(profile.ID(cmd.ProfileID)) {
		return shared.ErrNotParticipant
	}

	if err := h.relationships.Delete(ctx, rel.ID); err != nil {
		return fmt.Errorf("remove_match: %w", err)
	}

	event := shared.NewMatchEvent(shared.EventMatchRemoved, rel.ID, rel.InitiatorID.String(), rel.ReceiverID.String(), cmd.ProfileID, rel.Score)
	event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	publish(h.opts.Publisher, event)
	return nil
}
