package room

import (
	"context"
	"sort"

	"euchre/internal/app"
	"euchre/internal/domain"
)

// publish turns engine events into frames, in emission order.
func (r *Room) publish(ctx context.Context, events []app.Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case app.HandStarted:
			r.botActions = 0
			r.logger.Debug("Room: Hand %d dealt by seat %d in game %s", e.HandNumber, e.DealerSeat, r.game.GameID)
		case app.Misdeal:
			r.logger.Debug("Room: Misdeal in game %s, dealer %d -> %d", r.game.GameID, e.PreviousDealer, e.NextDealer)
		case app.BiddingRoundAdvanced:
			if r.game.TrumpCall != nil {
				r.broadcast(TrumpRoundMessage{on(MsgTrumpRound), e.Round, e.CurrentSeat, r.game.TrumpCall.FlippedCard})
			}
		case app.GameFinished:
			r.broadcast(eventMessage(ev))
			r.persistResult(ctx, e.Winner, e.Scores)
		default:
			if msg := eventMessage(ev); msg != nil {
				r.broadcast(msg)
			}
		}
	}
}

func (r *Room) broadcast(msg Message) {
	r.deliver(r.sessionIDs(func(session) bool { return true }), msg)
}

func (r *Room) sendToSeat(seat domain.Seat, msg Message) {
	r.deliver(r.sessionIDs(func(s session) bool { return s.seat == seat }), msg)
}

func (r *Room) deliver(sessionIDs []string, msg Message) {
	if r.outbox == nil || len(sessionIDs) == 0 || msg == nil {
		return
	}
	r.outbox.Deliver(sessionIDs, msg)
}

// sessionIDs returns matching sessions in a stable order.
func (r *Room) sessionIDs(match func(session) bool) []string {
	ids := make([]string, 0, len(r.sessions))
	for id, s := range r.sessions {
		if match(s) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// broadcastState sends every session a view redacted for its own seat.
func (r *Room) broadcastState() {
	for _, id := range r.sessionIDs(func(session) bool { return true }) {
		seat := r.sessions[id].seat
		r.deliver([]string{id}, GameStateMessage{on(MsgGameState), app.ClientView(r.game, seat)})
	}
}

// notifyTurn tells the human on turn what they may do. Bots are never notified.
func (r *Room) notifyTurn() {
	seat, ok := app.CurrentTurn(r.game)
	if !ok || r.game.Players[seat].IsBot {
		return
	}
	r.sendToSeat(seat, YourTurnMessage{on(MsgYourTurn), app.ValidActions(r.game, seat)})
}
