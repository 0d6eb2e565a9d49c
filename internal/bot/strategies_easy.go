package bot

import (
	"math/rand"

	"euchre/internal/app"
	"euchre/internal/domain"
)

// EasyBot bids conservatively, discards its first side card and plays any legal card at random.
type EasyBot struct {
	rng *rand.Rand
}

func (b *EasyBot) Decide(g *domain.GameState, seat domain.Seat) (app.Action, error) {
	return decide(b, g, seat)
}

func (b *EasyBot) Difficulty() domain.BotDifficulty { return domain.BotEasy }

func (b *EasyBot) thresholds() Thresholds { return DefaultTuning[domain.BotEasy] }

func (b *EasyBot) chooseDiscard(hand []domain.Card, trump domain.Suit) domain.Card {
	for _, c := range hand {
		if !domain.IsTrump(c, trump) {
			return c
		}
	}
	return hand[0]
}

func (b *EasyBot) choosePlay(_ *domain.HandState, _ domain.Seat, legal []domain.Card, _ domain.Suit) domain.Card {
	return legal[b.rng.Intn(len(legal))]
}
