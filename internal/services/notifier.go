package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Impulsible/eventease-planner/internal/mq"
	"github.com/Impulsible/eventease-planner/types"
)

// Broker channels for outbound notifications.
const (
	channelInvitations = "invitations"
	channelRSVPs       = "rsvps"
)

// Notifier publishes domain notifications on the message broker. A nil
// broker disables publishing; notification failures are logged and never
// fail the originating request.
type Notifier struct {
	broker *mq.MQ
}

func NewNotifier(broker *mq.MQ) *Notifier {
	return &Notifier{broker: broker}
}

// InvitationCreated announces a freshly sent invitation.
func (n *Notifier) InvitationCreated(ctx context.Context, inv types.Invitation) {
	n.publish(ctx, channelInvitations, "invitation.created", inv)
}

// InvitationAnswered announces a guest's response.
func (n *Notifier) InvitationAnswered(ctx context.Context, inv types.Invitation) {
	n.publish(ctx, channelInvitations, "invitation.answered", inv)
}

// RSVPChanged announces a new or updated RSVP.
func (n *Notifier) RSVPChanged(ctx context.Context, rsvp types.RSVP) {
	n.publish(ctx, channelRSVPs, "rsvp.changed", rsvp)
}

func (n *Notifier) publish(ctx context.Context, channel, kind string, payload any) {
	if n == nil || n.broker == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("notify: marshal %s: %v", kind, err)
		return
	}
	if _, err := n.broker.Publish(ctx, channel, data, map[string]string{"kind": kind}); err != nil {
		log.Printf("notify: publish %s: %v", kind, err)
	}
}
