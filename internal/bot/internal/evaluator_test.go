package internal

import (
	"testing"

	"euchre/internal/domain"
)

func card(r domain.Rank, s domain.Suit) domain.Card { return domain.Card{Suit: s, Rank: r} }

func TestTrumpStrength(t *testing.T) {
	tests := []struct {
		name  string
		hand  []domain.Card
		trump domain.Suit
		want  float64
	}{
		{
			name:  "empty",
			trump: domain.Hearts,
			want:  0,
		},
		{
			name:  "right bower",
			hand:  []domain.Card{card(domain.Jack, domain.Hearts)},
			trump: domain.Hearts,
			want:  3,
		},
		{
			name:  "left bower counts as trump",
			hand:  []domain.Card{card(domain.Jack, domain.Diamonds)},
			trump: domain.Hearts,
			want:  2.5,
		},
		{
			name: "both bowers ace king nine",
			hand: []domain.Card{
				card(domain.Jack, domain.Spades),
				card(domain.Jack, domain.Clubs),
				card(domain.Ace, domain.Spades),
				card(domain.King, domain.Spades),
				card(domain.Nine, domain.Spades),
			},
			trump: domain.Spades,
			want:  3 + 2.5 + 2 + 1.5 + 1,
		},
		{
			name: "off-suit aces only",
			hand: []domain.Card{
				card(domain.Ace, domain.Clubs),
				card(domain.Ace, domain.Diamonds),
				card(domain.Queen, domain.Spades),
			},
			trump: domain.Hearts,
			want:  1,
		},
		{
			name: "jack of trump color but wrong suit is not ace bonus",
			hand: []domain.Card{
				card(domain.Jack, domain.Spades),
				card(domain.Queen, domain.Hearts),
			},
			trump: domain.Hearts,
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrumpStrength(tt.hand, tt.trump); got != tt.want {
				t.Fatalf("TrumpStrength = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestBestSuit(t *testing.T) {
	hand := []domain.Card{
		card(domain.Jack, domain.Clubs),
		card(domain.Ace, domain.Clubs),
		card(domain.Nine, domain.Hearts),
		card(domain.Ten, domain.Diamonds),
		card(domain.Queen, domain.Diamonds),
	}

	suit, score, ok := BestSuit(hand, domain.Hearts)
	if !ok || suit != domain.Clubs {
		t.Fatalf("BestSuit = %s (%v), want clubs", suit, ok)
	}
	if score != 5 {
		t.Fatalf("score = %.2f, want 5", score)
	}

	suit, _, ok = BestSuit(hand, domain.Clubs)
	if !ok || suit != domain.Spades {
		t.Fatalf("BestSuit excluding clubs = %s, want spades via the left bower", suit)
	}

	if _, _, ok := BestSuit(nil, domain.Hearts); ok {
		t.Fatal("empty hand should have no best suit")
	}
}

func TestWeakestStrongestTieBreak(t *testing.T) {
	cards := []domain.Card{
		card(domain.Nine, domain.Clubs),
		card(domain.Ten, domain.Hearts),
		card(domain.Nine, domain.Spades),
	}
	flat := func(domain.Card) int { return 0 }
	if got := Weakest(cards, flat); got != cards[0] {
		t.Fatalf("Weakest tie = %v, want first card", got)
	}
	if got := Strongest(cards, flat); got != cards[0] {
		t.Fatalf("Strongest tie = %v, want first card", got)
	}

	byRank := func(c domain.Card) int { return c.Rank.Value() }
	if got := Strongest(cards, byRank); got != cards[1] {
		t.Fatalf("Strongest = %v, want ten", got)
	}
}

func TestTrickLeader(t *testing.T) {
	if _, _, ok := TrickLeader(domain.Trick{}, domain.Hearts); ok {
		t.Fatal("empty trick has no leader")
	}

	trick := domain.Trick{
		LeadSeat: 1,
		Cards: []domain.Play{
			{Seat: 1, Card: card(domain.King, domain.Clubs)},
			{Seat: 2, Card: card(domain.Ace, domain.Clubs)},
			{Seat: 3, Card: card(domain.Jack, domain.Diamonds)},
		},
	}
	seat, strength, ok := TrickLeader(trick, domain.Hearts)
	if !ok || seat != 3 {
		t.Fatalf("leader = %d (%v), want seat 3 with the left bower", seat, ok)
	}
	if strength != 190 {
		t.Fatalf("strength = %d, want 190", strength)
	}
}
