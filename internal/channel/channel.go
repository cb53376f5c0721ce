// Package channel connects chat platforms to the assistant through the
// message bus. Every channel must map platform senders to employee emails
// before a message enters the system.
package channel

import (
	"context"
	"strings"

	"github.com/acmecorp/hrbot/internal/bus"
)

// Channel interface for chat platforms
type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Send(ctx context.Context, msg *bus.OutboundMessage) error
	Resolve(senderID string) (string, bool)
}

// BaseChannel provides common functionality
type BaseChannel struct {
	Bus *bus.MessageBus
	// Identities maps a platform sender id to an employee email. A sender
	// not in the map has no identity and is never processed.
	Identities map[string]string
}

// Resolve maps a sender id to the employee email the bot acts for.
func (b *BaseChannel) Resolve(senderID string) (string, bool) {
	email, ok := b.Identities[strings.TrimSpace(senderID)]
	if !ok || strings.TrimSpace(email) == "" {
		return "", false
	}
	return email, true
}

// PublishInbound sends message to bus
func (b *BaseChannel) PublishInbound(msg *bus.InboundMessage) {
	b.Bus.PublishInbound(msg)
}
