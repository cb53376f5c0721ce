package bus

// MessageBus connects channels to the agent loop through buffered queues.
type MessageBus struct {
	inbound  chan *InboundMessage
	outbound chan *OutboundMessage
}

// NewMessageBus creates a bus with the given queue capacity.
func NewMessageBus(capacity int) *MessageBus {
	if capacity <= 0 {
		capacity = 10
	}
	return &MessageBus{
		inbound:  make(chan *InboundMessage, capacity),
		outbound: make(chan *OutboundMessage, capacity),
	}
}

// PublishInbound queues a message for the agent loop.
func (b *MessageBus) PublishInbound(msg *InboundMessage) {
	b.inbound <- msg
}

// PublishOutbound queues a response for delivery to its channel.
func (b *MessageBus) PublishOutbound(msg *OutboundMessage) {
	b.outbound <- msg
}

// Inbound returns the inbound queue.
func (b *MessageBus) Inbound() <-chan *InboundMessage {
	return b.inbound
}

// Outbound returns the outbound queue.
func (b *MessageBus) Outbound() <-chan *OutboundMessage {
	return b.outbound
}

// Close closes both queues. Publish after Close panics; callers stop first.
func (b *MessageBus) Close() {
	close(b.inbound)
	close(b.outbound)
}
