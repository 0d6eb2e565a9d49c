package domain

import "math/rand"

// NewDeck returns the 24-card Euchre deck in suit-major order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle returns a uniformly permuted copy of deck (Fisher-Yates).
func Shuffle(rng *rand.Rand, deck []Card) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Deal shuffles a fresh deck and splits it into four hands of five and a kitty of four.
// kitty[0] is the card turned up for the first bidding round.
func Deal(rng *rand.Rand) (hands [NumSeats][]Card, kitty []Card) {
	shuffled := Shuffle(rng, NewDeck())
	for i := range hands {
		hands[i] = append([]Card(nil), shuffled[i*HandSize:(i+1)*HandSize]...)
	}
	kitty = append([]Card(nil), shuffled[NumSeats*HandSize:]...)
	return hands, kitty
}
