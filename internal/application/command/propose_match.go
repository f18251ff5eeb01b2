package command

import (
	"context"
	"fmt"

	"github.com/skillswap/skillswap-hub/internal/domain/matching"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROPOSE MATCH COMMAND
// Scores a pair and records a pending match. Proposing the same pair again
// refreshes the score and rationale of the existing match.
// ══════════════════════════════════════════════════════════════════════════════

// ProposeMatchCommand contains the data to propose a match.
type ProposeMatchCommand struct {
	// RequesterID is the profile sending the proposal.
	RequesterID string

	// CandidateID is the profile receiving it.
	CandidateID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c ProposeMatchCommand) Validate() error {
	if !profile.ID(c.RequesterID).IsValid() || !profile.ID(c.CandidateID).IsValid() {
		return shared.ErrInvalidProfileID
	}
	if c.RequesterID == c.CandidateID {
		return shared.ErrSelfMatch
	}
	return nil
}

// ProposeMatchResult contains the stored match.
type ProposeMatchResult struct {
	Match *matching.Relationship

	// Created is false when an existing match for the pair was rescored.
	Created bool
}

// ProposeMatchHandler handles ProposeMatchCommand.
type ProposeMatchHandler struct {
	profiles      profile.Repository
	relationships matching.RelationshipRepository
	scorer        matching.Scorer
	opts          Options
}

// NewProposeMatchHandler creates a new handler.
func NewProposeMatchHandler(
	profiles profile.Repository,
	relationships matching.RelationshipRepository,
	scorer matching.Scorer,
	opts Options,
) *ProposeMatchHandler {
	return &ProposeMatchHandler{
		profiles:      profiles,
		relationships: relationships,
		scorer:        scorer,
		opts:          opts.withDefaults(),
	}
}

// Handle executes the command.
func (h *ProposeMatchHandler) Handle(ctx context.Context, cmd ProposeMatchCommand) (*ProposeMatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	requester, err := h.profiles.GetProfile(ctx, profile.ID(cmd.RequesterID))
	if err != nil {
		return nil, fmt.Errorf("propose_match: requester: %w", err)
	}
	candidate, err := h.profiles.GetProfile(ctx, profile.ID(cmd.CandidateID))
	if err != nil {
		return nil, fmt.Errorf("propose_match: candidate: %w", err)
	}

	score, rationale := h.scorer.Score(requester, candidate)

	id := h.opts.NewID()
	rel, err := matching.NewRelationship(matching.NewRelationshipParams{
		ID:          id,
		InitiatorID: requester.ID,
		ReceiverID:  candidate.ID,
		Score:       score,
		Rationale:   rationale,
	})
	if err != nil {
		return nil, err
	}

	// an existing pair keeps its identity and status; only the score moves
	if err := h.relationships.Save(ctx, rel); err != nil {
		return nil, fmt.Errorf("propose_match: save: %w", err)
	}
	result := &ProposeMatchResult{Match: rel, Created: rel.ID == id}

	event := shared.NewMatchEvent(shared.EventMatchProposed, result.Match.ID,
		result.Match.InitiatorID.String(), result.Match.ReceiverID.String(), cmd.RequesterID, result.Match.Score)
	event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	publish(h.opts.Publisher, event)

	return result, nil
}
