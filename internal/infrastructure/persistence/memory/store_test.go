package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-hub/internal/domain/chat"
	"github.com/skillswap/skillswap-hub/internal/domain/matching"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

func seeded(t *testing.T) (*ProfileStore, *RelationshipStore, *MessageLog) {
	t.Helper()
	profiles, rels, log := NewProfileStore(), NewRelationshipStore(), NewMessageLog()
	require.NoError(t, Seed(context.Background(), profiles, rels, log))
	return profiles, rels, log
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	profiles, rels, log := seeded(t)

	assert.Equal(t, 5, profiles.Count())

	alex, err := rels.ListByProfile(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, alex, 2)

	match, err := rels.GetByPair(ctx, "3", "1")
	require.NoError(t, err)
	assert.Equal(t, matching.StatusAccepted, match.Status)
	assert.Equal(t, DemoID("match", "1"), match.ID)

	messages, err := log.ListByRelationship(ctx, match.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 4)
	assert.False(t, messages[3].Read)
}

func TestDemoID_Stable(t *testing.T) {
	assert.Equal(t, DemoID("match", "1"), DemoID("match", "1"))
	assert.NotEqual(t, DemoID("match", "1"), DemoID("message", "1"))
}

func TestProfileStore(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore()

	err := store.Save(ctx, &profile.Profile{ID: "", Name: "Nobody"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	p := &profile.Profile{ID: "b", Name: "Bea", Skills: []profile.Skill{{ID: "go", Name: "Go", Level: profile.LevelExpert}}}
	require.NoError(t, store.Save(ctx, p))
	require.NoError(t, store.Save(ctx, &profile.Profile{ID: "a", Name: "Ann"}))

	p.Name = "mutated"
	got, err := store.GetProfile(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "Bea", got.Name)

	all, err := store.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, profile.ID("a"), all[0].ID)

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.GetProfile(ctx, "a")
	assert.True(t, shared.IsNotFound(err))
	assert.ErrorIs(t, store.Delete(ctx, "a"), shared.ErrProfileNotFound)
}

func TestRelationshipStore_SaveIsIdempotentPerPair(t *testing.T) {
	ctx := context.Background()
	store := NewRelationshipStore()

	first, err := matching.NewRelationship(matching.NewRelationshipParams{ID: "r1", InitiatorID: "1", ReceiverID: "2", Score: 0.6})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, first))

	again, err := matching.NewRelationship(matching.NewRelationshipParams{ID: "r2", InitiatorID: "2", ReceiverID: "1", Score: 0.7})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, again))

	assert.Equal(t, "r1", again.ID)
	assert.Equal(t, profile.ID("1"), again.InitiatorID)

	list, err := store.ListByProfile(ctx, "2")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 0.7, list[0].Score)

	require.NoError(t, store.Delete(ctx, "r1"))
	_, err = store.GetByPair(ctx, "1", "2")
	assert.ErrorIs(t, err, shared.ErrRelationshipNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "r1"), shared.ErrRelationshipNotFound)
}

func TestRelationshipStore_ResponseIsTerminal(t *testing.T) {
	ctx := context.Background()
	store := NewRelationshipStore()

	rel, err := matching.NewRelationship(matching.NewRelationshipParams{ID: "r1", InitiatorID: "1", ReceiverID: "2", Score: 0.6})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, rel))

	early, err := store.GetByID(ctx, "r1")
	require.NoError(t, err)
	late, err := store.GetByID(ctx, "r1")
	require.NoError(t, err)

	require.NoError(t, late.Accept("2"))
	require.NoError(t, store.UpdateStatus(ctx, late))

	// a proposal computed before the accept only moves the score
	again, err := matching.NewRelationship(matching.NewRelationshipParams{ID: "r2", InitiatorID: "1", ReceiverID: "2", Score: 0.8})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, again))
	assert.Equal(t, "r1", again.ID)
	assert.Equal(t, matching.StatusAccepted, again.Status)
	assert.NotNil(t, again.RespondedAt)

	require.NoError(t, early.Reject("2"))
	assert.ErrorIs(t, store.UpdateStatus(ctx, early), shared.ErrRelationshipFinal)

	stored, err := store.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, matching.StatusAccepted, stored.Status)
	assert.Equal(t, 0.8, stored.Score)
}

func TestRelationshipStore_UpdateStatusAfterDelete(t *testing.T) {
	ctx := context.Background()
	store := NewRelationshipStore()

	rel, err := matching.NewRelationship(matching.NewRelationshipParams{ID: "r1", InitiatorID: "1", ReceiverID: "2", Score: 0.6})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, rel))

	read, err := store.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "r1"))

	require.NoError(t, read.Accept("2"))
	assert.ErrorIs(t, store.UpdateStatus(ctx, read), shared.ErrRelationshipNotFound)

	_, err = store.GetByID(ctx, "r1")
	assert.ErrorIs(t, err, shared.ErrRelationshipNotFound)
}

func TestMessageLog(t *testing.T) {
	ctx := context.Background()
	log := NewMessageLog()

	for i, sender := range []profile.ID{"1", "2", "2"} {
		m, err := chat.NewMessage(chat.NewMessageParams{
			ID:             string(rune('a' + i)),
			RelationshipID: "r1",
			SenderID:       sender,
			Content:        "hello",
		})
		require.NoError(t, err)
		require.NoError(t, log.Append(ctx, m))
	}

	dup := &chat.Message{ID: "a", RelationshipID: "r1", SenderID: "1", Content: "again"}
	assert.ErrorIs(t, log.Append(ctx, dup), shared.ErrAlreadyExists)

	changed, err := log.MarkRead(ctx, "r1", "1")
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	messages, err := log.ListByRelationship(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "a", messages[0].ID)
	assert.False(t, messages[0].Read)
	assert.True(t, messages[1].Read)

	empty, err := log.ListByRelationship(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
