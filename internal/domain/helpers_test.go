package domain

import "testing"

func TestRemoveCardDoesNotAlias(t *testing.T) {
	hand := []Card{c(Nine, Hearts), c(Ace, Spades), c(King, Clubs)}
	out := RemoveCard(hand, c(Ace, Spades))

	if len(out) != 2 || ContainsCard(out, c(Ace, Spades)) {
		t.Fatalf("RemoveCard = %v", out)
	}
	if hand[1] != c(Ace, Spades) {
		t.Fatalf("input hand mutated: %v", hand)
	}
}

func TestRemoveCardMissing(t *testing.T) {
	hand := []Card{c(Nine, Hearts)}
	out := RemoveCard(hand, c(Ace, Spades))
	if len(out) != 1 {
		t.Fatalf("RemoveCard removed a card that was not held: %v", out)
	}
}

func TestFirstOpenSeat(t *testing.T) {
	var players [NumSeats]PlayerSlot
	for i := range players {
		players[i] = EmptySlot(Seat(i))
	}
	players[0].PlayerID = "p1"
	players[1].IsBot = true

	seat, ok := FirstOpenSeat(&players)
	if !ok || seat != 2 {
		t.Fatalf("FirstOpenSeat = %d,%v want 2,true", seat, ok)
	}

	players[2].PlayerID = "p2"
	players[3].PlayerID = "p3"
	if _, ok := FirstOpenSeat(&players); ok {
		t.Fatalf("expected no open seat")
	}
}

func TestSeatArithmetic(t *testing.T) {
	tests := []struct {
		seat    Seat
		next    Seat
		partner Seat
		team    Team
	}{
		{0, 1, 2, Team1},
		{1, 2, 3, Team2},
		{2, 3, 0, Team1},
		{3, 0, 1, Team2},
	}
	for _, tt := range tests {
		if got := tt.seat.Next(); got != tt.next {
			t.Fatalf("Seat(%d).Next() = %d, want %d", tt.seat, got, tt.next)
		}
		if got := tt.seat.Partner(); got != tt.partner {
			t.Fatalf("Seat(%d).Partner() = %d, want %d", tt.seat, got, tt.partner)
		}
		if got := TeamOf(tt.seat); got != tt.team {
			t.Fatalf("TeamOf(%d) = %d, want %d", tt.seat, got, tt.team)
		}
	}
	if Team1.Other() != Team2 || Team2.Other() != Team1 {
		t.Fatalf("Team.Other is not an involution")
	}
}

func TestHandPoints(t *testing.T) {
	tests := []struct {
		name       string
		tricks     [2]int
		calling    Team
		alone      bool
		wantPoints int
		wantTeam   Team
	}{
		{"ThreeTricks", [2]int{3, 2}, Team1, false, 1, Team1},
		{"FourTricks", [2]int{1, 4}, Team2, false, 1, Team2},
		{"MarchWithPartner", [2]int{5, 0}, Team1, false, 2, Team1},
		{"MarchAlone", [2]int{0, 5}, Team2, true, 4, Team2},
		{"AloneThreeTricks", [2]int{3, 2}, Team1, true, 1, Team1},
		{"Euchred", [2]int{2, 3}, Team1, false, 2, Team2},
		{"EuchredAlone", [2]int{5, 0}, Team2, true, 2, Team1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, team := HandPoints(tt.tricks, tt.calling, tt.alone)
			if points != tt.wantPoints || team != tt.wantTeam {
				t.Fatalf("HandPoints = %d to team %d, want %d to team %d", points, team, tt.wantPoints, tt.wantTeam)
			}
		})
	}
}
