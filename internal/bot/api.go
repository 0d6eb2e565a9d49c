package bot

import (
	"errors"

	"euchre/internal/app"
	"euchre/internal/domain"
)

// ErrNotBotTurn is returned when a brain is asked to act for a seat that is not on turn.
var ErrNotBotTurn = errors.New("bot: not this seat's turn")

// Brain is the interface that all bot strategies must implement.
// Decide must only return actions the engine accepts for seat in g.
type Brain interface {
	Decide(g *domain.GameState, seat domain.Seat) (app.Action, error)
	Difficulty() domain.BotDifficulty
}
