package room

import (
	"context"
	"strings"

	"euchre/internal/app"
	"euchre/internal/bot"
	"euchre/internal/domain"
)

// HandleMessage applies one inbound frame from a connected session. A rejection is sent
// to that session only, as a single error frame, and is also returned.
func (r *Room) HandleMessage(ctx context.Context, sessionID string, msg ClientMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || r.game == nil {
		return ErrUnknownSession
	}
	if err := r.handle(ctx, sessionID, s, msg); err != nil {
		r.deliver([]string{sessionID}, ErrorMessage{on(MsgError), err.Error()})
		return err
	}
	return nil
}

func (r *Room) handle(ctx context.Context, sessionID string, s session, msg ClientMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	switch msg.Type {
	case MsgStartGame:
		return r.startGame(ctx, s)
	case MsgAddBot:
		return r.addBot(ctx, s, *msg.Seat, msg.Difficulty)
	case MsgRemoveBot:
		return r.removeBot(ctx, s, *msg.Seat)
	case MsgAction:
		return r.playerAction(ctx, s, *msg.Action)
	case MsgChat:
		r.broadcast(ChatMessage{on(MsgChat), s.seat, r.game.Players[s.seat].DisplayName, strings.TrimSpace(msg.Message)})
	case MsgPing:
		r.deliver([]string{sessionID}, PongMessage{on(MsgPong), msg.Ts})
	}
	return nil
}

func (r *Room) startGame(ctx context.Context, s session) error {
	if s.seat != app.OwnerSeat {
		return ErrOwnerStart
	}
	next, events, err := r.svc.StartGame(r.game)
	if err != nil {
		return err
	}
	if r.games != nil {
		if err := r.games.MarkStarted(ctx, next.GameID); err != nil {
			r.logger.Warn("Room: Failed to mark game %s started: %v", next.GameID, err)
		}
	}
	r.logger.Info("Room: Game %s started", next.GameID)
	r.commit(ctx, next, events)
	r.runBots(ctx)
	return nil
}

func (r *Room) addBot(ctx context.Context, s session, seat domain.Seat, difficulty domain.BotDifficulty) error {
	if s.seat != app.OwnerSeat {
		return ErrOwnerAddBot
	}
	if err := r.svc.AddBot(r.game, seat, difficulty, bot.DisplayName(seat)); err != nil {
		return err
	}
	r.saveSnapshot(ctx)
	slot := r.game.Players[seat]
	r.broadcast(PlayerJoinedMessage{on(MsgPlayerJoined), seat, slot.DisplayName, true})
	return nil
}

func (r *Room) removeBot(ctx context.Context, s session, seat domain.Seat) error {
	if s.seat != app.OwnerSeat {
		return ErrOwnerRemoveBot
	}
	if err := r.svc.RemoveBot(r.game, seat); err != nil {
		return err
	}
	r.saveSnapshot(ctx)
	r.broadcast(PlayerLeftMessage{on(MsgPlayerLeft), seat})
	return nil
}

// playerAction checks the turn before the engine sees the action.
func (r *Room) playerAction(ctx context.Context, s session, action app.Action) error {
	turn, ok := app.CurrentTurn(r.game)
	if !ok {
		return app.ErrNoTurn
	}
	if turn != s.seat {
		return app.ErrNotYourTurn
	}
	next, events, err := r.svc.Apply(r.game, s.seat, action)
	if err != nil {
		return err
	}
	r.commit(ctx, next, events)
	r.runBots(ctx)
	return nil
}

// commit installs an accepted state, announces it, persists it and deals on
// automatically when the hand is over.
func (r *Room) commit(ctx context.Context, next *domain.GameState, events []app.Event) {
	r.game = next
	r.publish(ctx, events)
	r.saveSnapshot(ctx)

	if r.game.Phase == domain.PhaseHandOver {
		dealt, events, err := r.svc.NextHand(r.game)
		if err != nil {
			r.logger.Error("Room: Failed to deal next hand in game %s: %v", r.game.GameID, err)
		} else {
			r.game = dealt
			r.publish(ctx, events)
			r.saveSnapshot(ctx)
		}
	}

	r.broadcastState()
	r.notifyTurn()
}

// runBots plays every consecutive bot turn. It stops at a human turn, a terminal
// phase, a policy failure or the per-deal ceiling.
func (r *Room) runBots(ctx context.Context) {
	for {
		seat, ok := app.CurrentTurn(r.game)
		if !ok {
			return
		}
		slot := r.game.Players[seat]
		if !slot.IsBot {
			return
		}
		if r.botActions >= r.botLimit {
			r.logger.Error("Room: Bot loop ceiling (%d) reached in game %s at seat %d", r.botLimit, r.game.GameID, seat)
			return
		}

		brain, err := r.brain(slot.BotDifficulty)
		if err != nil {
			r.logger.Error("Room: No brain for seat %d: %v", seat, err)
			return
		}
		action, err := brain.Decide(r.game, seat)
		if err != nil {
			r.logger.Error("Room: Bot at seat %d failed to decide: %v", seat, err)
			return
		}
		next, events, err := r.svc.Apply(r.game, seat, action)
		if err != nil {
			r.logger.Error("Room: Bot at seat %d chose rejected action %s: %v", seat, action.Type, err)
			return
		}
		r.botActions++
		r.commit(ctx, next, events)
	}
}

func (r *Room) brain(difficulty domain.BotDifficulty) (bot.Brain, error) {
	if b, ok := r.brains[difficulty]; ok {
		return b, nil
	}
	b, err := bot.NewBrain(difficulty, r.rng)
	if err != nil {
		return nil, err
	}
	r.brains[difficulty] = b
	return b, nil
}
