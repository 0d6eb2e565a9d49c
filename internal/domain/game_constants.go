package domain

const (
	// HandSize is the number of cards dealt to each seat.
	HandSize = 5
	// KittySize is the number of undealt cards; the first is turned up.
	KittySize = 4
	// DeckSize is the full Euchre deck, nine through ace in four suits.
	DeckSize = 24
	// TricksPerHand is the number of tricks played before a hand is scored.
	TricksPerHand = 5
	// DefaultPointsToWin is the game target when none is configured.
	DefaultPointsToWin = 10
)
