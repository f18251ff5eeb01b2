package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

func TestNewMessage(t *testing.T) {
	m, err := NewMessage(NewMessageParams{
		ID:             "m1",
		RelationshipID: "r1",
		SenderID:       "1",
		Content:        "  Hi! Want to pair on React this week?  ",
	})

	require.NoError(t, err)
	assert.Equal(t, "Hi! Want to pair on React this week?", m.Content)
	assert.False(t, m.Read)
	assert.True(t, m.IsIncomingFor("2"))
	assert.False(t, m.IsIncomingFor("1"))
}

func TestNewMessage_Validation(t *testing.T) {
	base := NewMessageParams{ID: "m1", RelationshipID: "r1", SenderID: "1", Content: "hello"}

	empty := base
	empty.Content = "   "
	_, err := NewMessage(empty)
	assert.ErrorIs(t, err, shared.ErrEmptyMessage)

	long := base
	long.Content = strings.Repeat("я", MaxContentLength+1)
	_, err = NewMessage(long)
	assert.ErrorIs(t, err, shared.ErrMessageTooLong)

	noSender := base
	noSender.SenderID = ""
	_, err = NewMessage(noSender)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	noRelationship := base
	noRelationship.RelationshipID = ""
	_, err = NewMessage(noRelationship)
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}
