package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/acmecorp/hrbot/internal/bus"
)

// Run drains the inbound queue and answers each message through Chat.
// It returns when ctx is canceled or the queue closes.
func (o *Orchestrator) Run(ctx context.Context, msgBus *bus.MessageBus) error {
	o.logger.Info("orchestration loop started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgBus.Inbound():
			if !ok {
				return fmt.Errorf("inbound channel closed")
			}
			if msg == nil {
				o.logger.Warn("received nil inbound message")
				continue
			}
			if strings.TrimSpace(msg.RequestID) == "" {
				msg.RequestID = bus.NewRequestID()
			}
			if strings.TrimSpace(msg.User) == "" {
				o.logger.Warn("inbound message without identity dropped",
					"request_id", msg.RequestID, "channel", msg.Channel, "sender", msg.SenderID)
				continue
			}

			msgCtx := bus.WithRequestID(ctx, msg.RequestID)
			reply, err := o.Chat(msgCtx, msg.SessionKey(), msg.User, msg.Content)
			if err != nil {
				o.logger.Error("chat failed",
					"request_id", msg.RequestID, "channel", msg.Channel,
					"chat_id", msg.ChatID, "error", err)
				reply = "Error: " + err.Error()
			}
			msgBus.PublishOutbound(&bus.OutboundMessage{
				Channel:   msg.Channel,
				ChatID:    msg.ChatID,
				Content:   reply,
				RequestID: msg.RequestID,
			})
		}
	}
}
