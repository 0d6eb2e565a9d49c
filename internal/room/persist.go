package room

import (
	"context"
	"encoding/json"
	"fmt"

	"euchre/internal/domain"
)

func (r *Room) saveSnapshot(ctx context.Context) {
	if r.snapshots == nil || r.game == nil {
		return
	}
	data, err := json.Marshal(r.game)
	if err != nil {
		r.logger.Error("Room: Failed to encode snapshot of game %s: %v", r.game.GameID, err)
		return
	}
	if err := r.snapshots.SaveSnapshot(ctx, r.game.GameID, data); err != nil {
		r.logger.Error("Room: Failed to save snapshot of game %s: %v", r.game.GameID, err)
	}
}

func decodeSnapshot(data []byte) (*domain.GameState, error) {
	var g domain.GameState
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to decode game snapshot: %w", err)
	}
	if g.GameID == "" {
		return nil, fmt.Errorf("game snapshot has no game id")
	}
	return &g, nil
}

// persistResult hands the finished game to the store. Failures are logged and skipped;
// the outcome players already saw stands.
func (r *Room) persistResult(ctx context.Context, winner domain.Team, scores [2]int) {
	if r.games == nil {
		return
	}
	g := r.game
	if err := r.games.CompleteGame(ctx, g.GameID, scores, winner); err != nil {
		r.logger.Error("Room: Failed to complete game %s: %v", g.GameID, err)
	}
	for _, hand := range g.History {
		if err := r.games.AppendHand(ctx, g.GameID, hand); err != nil {
			r.logger.Error("Room: Failed to store hand %d of game %s: %v", hand.HandNumber, g.GameID, err)
		}
	}
	for _, p := range g.Players {
		if p.IsBot || p.PlayerID == "" {
			continue
		}
		won := domain.TeamOf(p.Seat) == winner
		if err := r.games.RecordResult(ctx, p.PlayerID, won); err != nil {
			r.logger.Error("Room: Failed to record result for %s: %v", p.PlayerID, err)
		}
	}
	r.logger.Info("Room: Game %s finished, team %d won %d-%d", g.GameID, winner, scores[0], scores[1])
}
