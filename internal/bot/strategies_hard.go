package bot

import (
	"euchre/internal/app"
	"euchre/internal/domain"
)

// HardBot bids aggressively, pulls trump when it holds two or more, and wins tricks as cheaply as possible.
type HardBot struct{}

func (b *HardBot) Decide(g *domain.GameState, seat domain.Seat) (app.Action, error) {
	return decide(b, g, seat)
}

func (b *HardBot) Difficulty() domain.BotDifficulty { return domain.BotHard }

func (b *HardBot) thresholds() Thresholds { return DefaultTuning[domain.BotHard] }

func (b *HardBot) chooseDiscard(hand []domain.Card, trump domain.Suit) domain.Card {
	return discardWeakest(hand, trump)
}

func (b *HardBot) choosePlay(h *domain.HandState, seat domain.Seat, legal []domain.Card, trump domain.Suit) domain.Card {
	if len(h.CurrentTrick.Cards) == 0 {
		return leadCard(legal, trump, true)
	}
	return followCard(h, seat, legal, trump, true)
}

var (
	_ Brain = (*EasyBot)(nil)
	_ Brain = (*MediumBot)(nil)
	_ Brain = (*HardBot)(nil)
)
