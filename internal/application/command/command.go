// Package command contains write operations (CQRS - Commands).
package command

import (
	"github.com/google/uuid"

	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// IDGenerator produces identifiers for new relationships and messages.
type IDGenerator func() string

// NewUUID is the default IDGenerator.
func NewUUID() string {
	return uuid.NewString()
}

// Options holds collaborators shared by every handler.
type Options struct {
	Publisher shared.EventPublisher
	NewID     IDGenerator
}

func (o Options) withDefaults() Options {
	if o.Publisher == nil {
		o.Publisher = shared.NoopPublisher{}
	}
	if o.NewID == nil {
		o.NewID = NewUUID
	}
	return o
}

// publish hands events to the bus. Delivery is best effort: the write has
// already been committed when events are published.
func publish(p shared.EventPublisher, events ...shared.Event) {
	for _, e := range events {
		_ = p.Publish(e)
	}
}
