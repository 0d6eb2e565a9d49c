package bot

import (
	"fmt"

	"euchre/internal/app"
	botinternal "euchre/internal/bot/internal"
	"euchre/internal/domain"
)

// strategy is the per-difficulty part of a bot. Bidding is shared and driven by thresholds.
type strategy interface {
	thresholds() Thresholds
	chooseDiscard(hand []domain.Card, trump domain.Suit) domain.Card
	choosePlay(h *domain.HandState, seat domain.Seat, legal []domain.Card, trump domain.Suit) domain.Card
}

func decide(s strategy, g *domain.GameState, seat domain.Seat) (app.Action, error) {
	if g == nil || g.Hand == nil {
		return app.Action{}, ErrNotBotTurn
	}
	turn, ok := app.CurrentTurn(g)
	if !ok || turn != seat {
		return app.Action{}, ErrNotBotTurn
	}

	hand := g.Hand.Hands[seat]
	switch g.Phase {
	case domain.PhaseTrumpRound1:
		return bidRoundOne(s.thresholds(), g, seat), nil
	case domain.PhaseTrumpRound2:
		return bidRoundTwo(s.thresholds(), g, seat), nil
	case domain.PhaseDiscard:
		trump, _ := g.Hand.Trump()
		return app.Discard(s.chooseDiscard(hand, trump)), nil
	case domain.PhasePlaying:
		legal := app.ValidActions(g, seat).ValidCards
		if len(legal) == 0 {
			return app.Action{}, fmt.Errorf("bot: seat %d has no legal card", seat)
		}
		if len(legal) == 1 {
			return app.PlayCard(legal[0]), nil
		}
		trump, _ := g.Hand.Trump()
		return app.PlayCard(s.choosePlay(g.Hand, seat, legal, trump)), nil
	}
	return app.Action{}, fmt.Errorf("bot: nothing to do in phase %s", g.Phase)
}

func bidRoundOne(t Thresholds, g *domain.GameState, seat domain.Seat) app.Action {
	hand := g.Hand.Hands[seat]
	flipped := g.TrumpCall.FlippedCard
	dealer := g.Hand.DealerSeat

	threshold := t.OrderUp
	switch dealer {
	case seat:
		threshold -= dealerAdjust
	case seat.Partner():
		threshold -= partnerDealsAdjust
	}

	strength := botinternal.TrumpStrength(hand, flipped.Suit)
	if strength < threshold {
		return app.Pass()
	}

	// The dealer keeps the flipped card, so judge a loner with it in hand.
	aloneStrength := strength
	if seat == dealer {
		withPickup := append(append([]domain.Card{}, hand...), flipped)
		aloneStrength = botinternal.TrumpStrength(withPickup, flipped.Suit)
	}
	return app.OrderUp(goAlone(t, g, aloneStrength))
}

func bidRoundTwo(t Thresholds, g *domain.GameState, seat domain.Seat) app.Action {
	hand := g.Hand.Hands[seat]
	turnedDown := g.TrumpCall.FlippedCard.Suit

	suit, strength, ok := botinternal.BestSuit(hand, turnedDown)
	stuck := g.Config.StickTheDealer && seat == g.Hand.DealerSeat
	if stuck {
		if !ok {
			suit = firstSuitExcept(turnedDown)
			strength = botinternal.TrumpStrength(hand, suit)
		}
		return app.CallTrump(suit, goAlone(t, g, strength))
	}
	if !ok || strength < t.CallTrump {
		return app.Pass()
	}
	return app.CallTrump(suit, goAlone(t, g, strength))
}

func goAlone(t Thresholds, g *domain.GameState, strength float64) bool {
	return !g.Config.NoTrumpAlone && strength >= t.GoAlone
}

func firstSuitExcept(s domain.Suit) domain.Suit {
	for _, candidate := range domain.Suits {
		if candidate != s {
			return candidate
		}
	}
	return s
}

// discardWeakest sheds the lowest card, ranking each card within its own suit so trump always outranks side suits.
func discardWeakest(hand []domain.Card, trump domain.Suit) domain.Card {
	return botinternal.Weakest(hand, func(c domain.Card) int {
		return domain.CardStrength(c, trump, c.Suit)
	})
}

// leadCard picks an opening card: a side ace, then (when trumpFirst and holding two or more trump)
// the best trump, then the best side card, then the lowest trump.
func leadCard(hand []domain.Card, trump domain.Suit, trumpFirst bool) domain.Card {
	var side, trumps []domain.Card
	for _, c := range hand {
		if domain.IsTrump(c, trump) {
			trumps = append(trumps, c)
		} else {
			side = append(side, c)
		}
	}
	for _, c := range side {
		if c.Rank == domain.Ace {
			return c
		}
	}

	asTrump := func(c domain.Card) int { return domain.CardStrength(c, trump, trump) }
	if trumpFirst && len(trumps) >= 2 {
		return botinternal.Strongest(trumps, asTrump)
	}
	if len(side) > 0 {
		return botinternal.Strongest(side, func(c domain.Card) int {
			return domain.CardStrength(c, trump, c.Suit)
		})
	}
	return botinternal.Weakest(trumps, asTrump)
}

// followCard answers a led trick. When the partner holds the trick it throws the lowest card,
// wherever the bot sits in the playing order.
// Otherwise it wins if it can, with the cheapest winner when cheapWin is set, else the strongest.
func followCard(h *domain.HandState, seat domain.Seat, legal []domain.Card, trump domain.Suit, cheapWin bool) domain.Card {
	trick := h.CurrentTrick
	led := domain.LedSuit(trick, trump)
	if led == nil {
		return legal[0]
	}
	strength := func(c domain.Card) int { return domain.CardStrength(c, trump, *led) }
	// Among cards that cannot win, shed the lowest rank first.
	throwaway := func(c domain.Card) int { return strength(c)*10 + c.Rank.Value() }

	leader, best, _ := botinternal.TrickLeader(trick, trump)
	if domain.TeamOf(leader) == domain.TeamOf(seat) {
		return botinternal.Weakest(legal, throwaway)
	}

	var winners []domain.Card
	for _, c := range legal {
		if strength(c) > best {
			winners = append(winners, c)
		}
	}
	if len(winners) > 0 {
		if cheapWin {
			return botinternal.Weakest(winners, strength)
		}
		return botinternal.Strongest(winners, strength)
	}
	return botinternal.Weakest(legal, throwaway)
}
