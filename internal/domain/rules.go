package domain

import "errors"

// ErrEmptyTrick is returned when a winner is requested for a trick with no cards.
var ErrEmptyTrick = errors.New("empty trick")

// SameColor returns the other suit of the same color.
func SameColor(s Suit) Suit {
	switch s {
	case Hearts:
		return Diamonds
	case Diamonds:
		return Hearts
	case Clubs:
		return Spades
	case Spades:
		return Clubs
	}
	return s
}

// IsRightBower reports whether c is the jack of trump.
func IsRightBower(c Card, trump Suit) bool {
	return c.Rank == Jack && c.Suit == trump
}

// IsLeftBower reports whether c is the jack of the suit sharing trump's color.
func IsLeftBower(c Card, trump Suit) bool {
	return c.Rank == Jack && c.Suit == SameColor(trump)
}

// EffectiveSuit is the suit a card follows as, which differs from its printed suit
// only for the left bower.
func EffectiveSuit(c Card, trump Suit) Suit {
	if IsLeftBower(c, trump) {
		return trump
	}
	return c.Suit
}

// IsTrump reports whether c counts as trump, bowers included.
func IsTrump(c Card, trump Suit) bool {
	return EffectiveSuit(c, trump) == trump
}

// CardStrength orders cards within a trick. Higher wins.
//
//	right bower 200, left bower 190, other trump 100+rank,
//	led suit 10+rank, anything else 0.
func CardStrength(c Card, trump, led Suit) int {
	switch {
	case IsRightBower(c, trump):
		return 200
	case IsLeftBower(c, trump):
		return 190
	case c.Suit == trump:
		return 100 + c.Rank.Value()
	case c.Suit == led:
		return 10 + c.Rank.Value()
	}
	return 0
}

// IsLegalPlay reports whether c may be played from hand. led is nil when the trick is
// empty; otherwise it is the effective suit of the first card.
func IsLegalPlay(c Card, hand []Card, led *Suit, trump Suit) bool {
	if led == nil {
		return true
	}
	for _, h := range hand {
		if EffectiveSuit(h, trump) == *led {
			return EffectiveSuit(c, trump) == *led
		}
	}
	return true
}

// LegalPlays filters hand down to the cards that may be played.
func LegalPlays(hand []Card, led *Suit, trump Suit) []Card {
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if IsLegalPlay(c, hand, led, trump) {
			out = append(out, c)
		}
	}
	return out
}

// LedSuit returns the effective suit of the first card in the trick.
func LedSuit(t Trick, trump Suit) *Suit {
	if len(t.Cards) == 0 {
		return nil
	}
	s := EffectiveSuit(t.Cards[0].Card, trump)
	return &s
}

// TrickWinner returns the seat holding the strongest card relative to the led suit.
func TrickWinner(plays []Play, trump Suit) (Seat, error) {
	if len(plays) == 0 {
		return 0, ErrEmptyTrick
	}
	led := EffectiveSuit(plays[0].Card, trump)
	best := plays[0]
	bestStrength := CardStrength(best.Card, trump, led)
	for _, p := range plays[1:] {
		if s := CardStrength(p.Card, trump, led); s > bestStrength {
			best, bestStrength = p, s
		}
	}
	return best.Seat, nil
}
