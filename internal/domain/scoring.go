package domain

// Seat is a table position 0..3 in clockwise order.
type Seat int

// NumSeats is the fixed table size.
const NumSeats = 4

// Valid reports whether s is a table position.
func (s Seat) Valid() bool {
	return s >= 0 && s < NumSeats
}

// Next returns the seat to the left (clockwise).
func (s Seat) Next() Seat {
	return (s + 1) % NumSeats
}

// Partner returns the seat across the table.
func (s Seat) Partner() Seat {
	return (s + 2) % NumSeats
}

// Team identifies a partnership. Seats 0 and 2 are Team1; seats 1 and 3 are Team2.
type Team int

const (
	Team1 Team = 1
	Team2 Team = 2
)

// TeamOf derives the team for a seat.
func TeamOf(s Seat) Team {
	if s%2 == 0 {
		return Team1
	}
	return Team2
}

// Index returns the team's position in score and trick arrays.
func (t Team) Index() int {
	return int(t) - 1
}

// Other returns the opposing team.
func (t Team) Other() Team {
	if t == Team1 {
		return Team2
	}
	return Team1
}

// HandPoints awards a finished hand.
//
// The calling team scores 1 for three or four tricks and 2 for a march (4 when alone).
// A euchre gives the defenders 2 whether or not the caller went alone.
func HandPoints(tricks [2]int, calling Team, alone bool) (int, Team) {
	won := tricks[calling.Index()]
	switch {
	case won >= TricksPerHand && alone:
		return 4, calling
	case won >= TricksPerHand:
		return 2, calling
	case won >= 3:
		return 1, calling
	}
	return 2, calling.Other()
}
