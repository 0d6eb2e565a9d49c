package bot

import (
	"euchre/internal/app"
	"euchre/internal/domain"
)

// MediumBot plays a sound fundamental game: lead side aces, let the partner's
// winning card stand, and take tricks with the strongest winner available.
type MediumBot struct{}

func (b *MediumBot) Decide(g *domain.GameState, seat domain.Seat) (app.Action, error) {
	return decide(b, g, seat)
}

func (b *MediumBot) Difficulty() domain.BotDifficulty { return domain.BotMedium }

func (b *MediumBot) thresholds() Thresholds { return DefaultTuning[domain.BotMedium] }

func (b *MediumBot) chooseDiscard(hand []domain.Card, trump domain.Suit) domain.Card {
	return discardWeakest(hand, trump)
}

func (b *MediumBot) choosePlay(h *domain.HandState, seat domain.Seat, legal []domain.Card, trump domain.Suit) domain.Card {
	if len(h.CurrentTrick.Cards) == 0 {
		return leadCard(legal, trump, false)
	}
	return followCard(h, seat, legal, trump, false)
}
