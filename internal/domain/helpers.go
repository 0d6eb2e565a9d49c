package domain

// FirstOpenSeat returns the lowest seat that holds neither a human nor a bot.
func FirstOpenSeat(players *[NumSeats]PlayerSlot) (Seat, bool) {
	for i, p := range players {
		if !p.Occupied() {
			return Seat(i), true
		}
	}
	return 0, false
}

// ContainsCard reports whether hand holds c.
func ContainsCard(hand []Card, c Card) bool {
	return IndexOfCard(hand, c) >= 0
}

// IndexOfCard returns the position of c in hand, or -1.
func IndexOfCard(hand []Card, c Card) int {
	for i, h := range hand {
		if h == c {
			return i
		}
	}
	return -1
}

// RemoveCard returns a new hand without the first copy of c. The input is not modified.
func RemoveCard(hand []Card, c Card) []Card {
	out := make([]Card, 0, len(hand))
	removed := false
	for _, h := range hand {
		if !removed && h == c {
			removed = true
			continue
		}
		out = append(out, h)
	}
	return out
}

// EmptySlot returns the placeholder slot for an unoccupied seat.
func EmptySlot(s Seat) PlayerSlot {
	return PlayerSlot{Seat: s, DisplayName: "Empty", BotDifficulty: BotMedium}
}
