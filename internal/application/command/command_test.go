package command

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-hub/internal/domain/matching"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/internal/infrastructure/persistence/memory"
)

type recorder struct {
	events []shared.Event
}

func (r *recorder) Publish(e shared.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []shared.EventType {
	out := make([]shared.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

type fixture struct {
	profiles      *memory.ProfileStore
	relationships *memory.RelationshipStore
	messages      *memory.MessageLog
	events        *recorder
	opts          Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		profiles:      memory.NewProfileStore(),
		relationships: memory.NewRelationshipStore(),
		messages:      memory.NewMessageLog(),
		events:        &recorder{},
	}
	require.NoError(t, memory.Seed(context.Background(), f.profiles, f.relationships, f.messages))

	n := 0
	f.opts = Options{
		Publisher: f.events,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
	return f
}

func (f *fixture) propose() *ProposeMatchHandler {
	return NewProposeMatchHandler(f.profiles, f.relationships, matching.NewScorer(nil), f.opts)
}

func TestProposeMatch_CreatesPending(t *testing.T) {
	f := newFixture(t)

	res, err := f.propose().Handle(context.Background(), ProposeMatchCommand{RequesterID: "1", CandidateID: "4", CorrelationID: "req-1"})
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, "id-1", res.Match.ID)
	assert.Equal(t, matching.StatusPending, res.Match.Status)
	assert.InDelta(t, 0.6, res.Match.Score, 1e-9)

	stored, err := f.relationships.GetByPair(context.Background(), "4", "1")
	require.NoError(t, err)
	assert.Equal(t, res.Match.ID, stored.ID)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, shared.EventMatchProposed, f.events.events[0].EventType())
	assert.Equal(t, "id-1", f.events.events[0].AggregateID())
}

func TestProposeMatch_IsIdempotentPerPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.propose().Handle(ctx, ProposeMatchCommand{RequesterID: "1", CandidateID: "4"})
	require.NoError(t, err)

	second, err := f.propose().Handle(ctx, ProposeMatchCommand{RequesterID: "4", CandidateID: "1"})
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.Match.ID, second.Match.ID)
	assert.Equal(t, first.Match.InitiatorID, second.Match.InitiatorID)

	all, err := f.relationships.ListByProfile(ctx, "4")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProposeMatch_RescoresExisting(t *testing.T) {
	f := newFixture(t)

	// the seeded 1-5 match carries a hand-written score
	res, err := f.propose().Handle(context.Background(), ProposeMatchCommand{RequesterID: "1", CandidateID: "5"})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, memory.DemoID("match", "2"), res.Match.ID)
	assert.InDelta(t, 0.7, res.Match.Score, 1e-9)
	assert.Equal(t, "You both have skills in JavaScript, React", res.Match.Rationale)
}

func TestProposeMatch_KeepsAcceptedStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.propose().Handle(ctx, ProposeMatchCommand{RequesterID: "3", CandidateID: "1"})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, memory.DemoID("match", "1"), res.Match.ID)
	assert.Equal(t, matching.StatusAccepted, res.Match.Status)
	assert.Equal(t, "1", res.Match.InitiatorID.String())

	stored, err := f.relationships.GetByID(ctx, res.Match.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAccepted())
}

func TestRespondMatch_AfterRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	proposed, err := f.propose().Handle(ctx, ProposeMatchCommand{RequesterID: "3", CandidateID: "4"})
	require.NoError(t, err)
	require.NoError(t, f.relationships.Delete(ctx, proposed.Match.ID))

	_, err = NewRespondMatchHandler(f.relationships, f.opts).Handle(ctx, RespondMatchCommand{
		RelationshipID: proposed.Match.ID,
		ProfileID:      "4",
		Decision:       DecisionAccept,
	})
	assert.True(t, shared.IsNotFound(err))

	_, err = f.relationships.GetByPair(ctx, "3", "4")
	assert.True(t, shared.IsNotFound(err))
}

func TestProposeMatch_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.propose().Handle(ctx, ProposeMatchCommand{RequesterID: "1", CandidateID: "1"})
	assert.ErrorIs(t, err, shared.ErrSelfMatch)

	_, err = f.propose().Handle(ctx, ProposeMatchCommand{RequesterID: "1"})
	assert.True(t, shared.IsValidation(err))

	_, err = f.propose().Handle(ctx, ProposeMatchCommand{RequesterID: "1", CandidateID: "42"})
	assert.True(t, shared.IsNotFound(err))

	assert.Empty(t, f.events.events)
}

func TestRespondMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := NewRespondMatchHandler(f.relationships, f.opts)
	pending := memory.DemoID("match", "2")

	_, err := h.Handle(ctx, RespondMatchCommand{RelationshipID: pending, ProfileID: "1", Decision: DecisionAccept})
	assert.ErrorIs(t, err, shared.ErrNotReceiver)

	_, err = h.Handle(ctx, RespondMatchCommand{RelationshipID: pending, ProfileID: "2", Decision: DecisionAccept})
	assert.ErrorIs(t, err, shared.ErrNotParticipant)

	_, err = h.Handle(ctx, RespondMatchCommand{RelationshipID: pending, ProfileID: "5", Decision: "maybe"})
	assert.True(t, shared.IsValidation(err))

	rel, err := h.Handle(ctx, RespondMatchCommand{RelationshipID: pending, ProfileID: "5", Decision: DecisionAccept})
	require.NoError(t, err)
	assert.Equal(t, matching.StatusAccepted, rel.Status)
	assert.NotNil(t, rel.RespondedAt)

	stored, err := f.relationships.GetByID(ctx, pending)
	require.NoError(t, err)
	assert.True(t, stored.IsAccepted())

	_, err = h.Handle(ctx, RespondMatchCommand{RelationshipID: pending, ProfileID: "5", Decision: DecisionReject})
	assert.True(t, shared.IsConflict(err))

	assert.Equal(t, []shared.EventType{shared.EventMatchAccepted}, f.events.types())
}

func TestRespondMatch_Reject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	proposed, err := f.propose().Handle(ctx, ProposeMatchCommand{RequesterID: "3", CandidateID: "4"})
	require.NoError(t, err)

	rel, err := NewRespondMatchHandler(f.relationships, f.opts).Handle(ctx, RespondMatchCommand{
		RelationshipID: proposed.Match.ID,
		ProfileID:      "4",
		Decision:       DecisionReject,
	})
	require.NoError(t, err)
	assert.Equal(t, matching.StatusRejected, rel.Status)
	assert.Equal(t, []shared.EventType{shared.EventMatchProposed, shared.EventMatchRejected}, f.events.types())
}

func TestRemoveMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := NewRemoveMatchHandler(f.relationships, f.opts)
	id := memory.DemoID("match", "3")

	err := h.Handle(ctx, RemoveMatchCommand{RelationshipID: id, ProfileID: "1"})
	assert.True(t, shared.IsForbidden(err))

	require.NoError(t, h.Handle(ctx, RemoveMatchCommand{RelationshipID: id, ProfileID: "4"}))
	_, err = f.relationships.GetByPair(ctx, "2", "4")
	assert.True(t, shared.IsNotFound(err))

	err = h.Handle(ctx, RemoveMatchCommand{RelationshipID: id, ProfileID: "4"})
	assert.True(t, shared.IsNotFound(err))

	assert.Equal(t, []shared.EventType{shared.EventMatchRemoved}, f.events.types())
}

func TestSendMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := NewSendMessageHandler(f.relationships, f.messages, f.opts)
	accepted := memory.DemoID("match", "1")

	msg, err := h.Handle(ctx, SendMessageCommand{RelationshipID: accepted, SenderID: "3", Content: "  Thursday works  "})
	require.NoError(t, err)
	assert.Equal(t, "Thursday works", msg.Content)
	assert.False(t, msg.Read)

	log, err := f.messages.ListByRelationship(ctx, accepted)
	require.NoError(t, err)
	assert.Len(t, log, 5)
	assert.Equal(t, msg.ID, log[4].ID)

	require.Len(t, f.events.events, 1)
	sent, ok := f.events.events[0].(shared.MessageSentEvent)
	require.True(t, ok)
	assert.Equal(t, "1", sent.RecipientID)
}

func TestSendMessage_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := NewSendMessageHandler(f.relationships, f.messages, f.opts)

	_, err := h.Handle(ctx, SendMessageCommand{RelationshipID: memory.DemoID("match", "1"), SenderID: "2", Content: "hi"})
	assert.ErrorIs(t, err, shared.ErrNotParticipant)

	_, err = h.Handle(ctx, SendMessageCommand{RelationshipID: memory.DemoID("match", "2"), SenderID: "1", Content: "hi"})
	assert.ErrorIs(t, err, shared.ErrRelationshipClosed)

	_, err = h.Handle(ctx, SendMessageCommand{RelationshipID: memory.DemoID("match", "1"), SenderID: "1", Content: "   "})
	assert.ErrorIs(t, err, shared.ErrEmptyMessage)

	_, err = h.Handle(ctx, SendMessageCommand{RelationshipID: memory.DemoID("match", "1"), SenderID: "1", Content: strings.Repeat("a", 4001)})
	assert.ErrorIs(t, err, shared.ErrMessageTooLong)

	assert.Empty(t, f.events.events)
}
