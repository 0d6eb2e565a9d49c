package internal

import "euchre/internal/domain"

// TrickLeader reports the card currently winning an in-progress trick and who played it.
// It returns false for an empty trick.
func TrickLeader(trick domain.Trick, trump domain.Suit) (seat domain.Seat, strength int, ok bool) {
	led := domain.LedSuit(trick, trump)
	if led == nil {
		return 0, 0, false
	}
	strength = -1
	for _, p := range trick.Cards {
		if s := domain.CardStrength(p.Card, trump, *led); s > strength {
			seat, strength = p.Seat, s
		}
	}
	return seat, strength, true
}
