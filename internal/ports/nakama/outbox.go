package nakama

import (
	"euchre/internal/room"

	"github.com/heroiclabs/nakama-common/runtime"
)

// presenceOutbox delivers room frames to match presences keyed by session id.
// The dispatcher is refreshed on every match callback, which Nakama serializes.
type presenceOutbox struct {
	dispatcher runtime.MatchDispatcher
	presences  map[string]runtime.Presence
	logger     runtime.Logger
}

func newPresenceOutbox(logger runtime.Logger) *presenceOutbox {
	return &presenceOutbox{
		presences: make(map[string]runtime.Presence),
		logger:    logger,
	}
}

func (o *presenceOutbox) Deliver(sessionIDs []string, msg room.Message) {
	if o.dispatcher == nil {
		return
	}
	targets := make([]runtime.Presence, 0, len(sessionIDs))
	for _, id := range sessionIDs {
		if p, ok := o.presences[id]; ok {
			targets = append(targets, p)
		}
	}
	if len(targets) == 0 {
		return
	}

	opCode, ok := serverOpCodes[msg.Type()]
	if !ok {
		o.logger.Warn("Outbox: No op code for message type %s", msg.Type())
		return
	}
	data, err := room.EncodeMessage(msg)
	if err != nil {
		o.logger.Error("Outbox: Failed to marshal %s: %v", msg.Type(), err)
		return
	}
	if err := o.dispatcher.BroadcastMessage(opCode, data, targets, nil, true); err != nil {
		o.logger.Error("Outbox: Failed to send %s to %d presences: %v", msg.Type(), len(targets), err)
	}
}

var _ room.Outbox = (*presenceOutbox)(nil)
