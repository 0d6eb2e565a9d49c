package domain

import (
	"errors"
	"testing"
)

func c(r Rank, s Suit) Card { return Card{Suit: s, Rank: r} }

func TestSameColor(t *testing.T) {
	pairs := map[Suit]Suit{Hearts: Diamonds, Diamonds: Hearts, Clubs: Spades, Spades: Clubs}
	for in, want := range pairs {
		if got := SameColor(in); got != want {
			t.Fatalf("SameColor(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestEffectiveSuit(t *testing.T) {
	for _, trump := range Suits {
		for _, card := range NewDeck() {
			got := EffectiveSuit(card, trump)
			want := card.Suit
			if card.Rank == Jack && card.Suit == SameColor(trump) {
				want = trump
			}
			if got != want {
				t.Fatalf("EffectiveSuit(%s, %s) = %s, want %s", card, trump, got, want)
			}
		}
	}
}

func TestCardStrengthOrdering(t *testing.T) {
	for _, trump := range Suits {
		led := SameColor(trump)
		var offSuit Suit
		for _, s := range Suits {
			if s != trump && s != led {
				offSuit = s
				break
			}
		}

		right := CardStrength(c(Jack, trump), trump, led)
		left := CardStrength(c(Jack, SameColor(trump)), trump, led)
		if right <= left {
			t.Fatalf("trump %s: right bower %d should beat left bower %d", trump, right, left)
		}
		for _, r := range Ranks {
			if r == Jack {
				continue
			}
			trumpCard := CardStrength(c(r, trump), trump, led)
			if left <= trumpCard {
				t.Fatalf("trump %s: left bower %d should beat %s %d", trump, left, r, trumpCard)
			}
			for _, lr := range Ranks {
				if lr == Jack {
					continue
				}
				ledCard := CardStrength(c(lr, led), trump, led)
				if trumpCard <= ledCard {
					t.Fatalf("trump %s: %s of trump should beat %s led", trump, r, lr)
				}
				if ledCard <= CardStrength(c(Ace, offSuit), trump, led) {
					t.Fatalf("trump %s: led %s should beat off-suit ace", trump, lr)
				}
			}
		}
		if got := CardStrength(c(Ace, offSuit), trump, led); got != 0 {
			t.Fatalf("off-suit ace strength = %d, want 0", got)
		}
	}
}

func TestCardStrengthTrumpRanks(t *testing.T) {
	order := []Rank{Nine, Ten, Queen, King, Ace}
	prev := -1
	for _, r := range order {
		s := CardStrength(c(r, Spades), Spades, Hearts)
		if s <= prev {
			t.Fatalf("trump %s strength %d not above previous %d", r, s, prev)
		}
		prev = s
	}
}

func TestLegalPlays(t *testing.T) {
	hearts := Hearts
	clubs := Clubs

	tests := []struct {
		name  string
		hand  []Card
		led   *Suit
		trump Suit
		want  []Card
	}{
		{
			name:  "LeadingAnyCard",
			hand:  []Card{c(Nine, Hearts), c(Ace, Spades)},
			led:   nil,
			trump: Clubs,
			want:  []Card{c(Nine, Hearts), c(Ace, Spades)},
		},
		{
			name:  "MustFollowSuit",
			hand:  []Card{c(Nine, Hearts), c(Ace, Spades), c(King, Hearts)},
			led:   &hearts,
			trump: Clubs,
			want:  []Card{c(Nine, Hearts), c(King, Hearts)},
		},
		{
			name:  "VoidPlaysAnything",
			hand:  []Card{c(Nine, Diamonds), c(Ace, Spades)},
			led:   &hearts,
			trump: Clubs,
			want:  []Card{c(Nine, Diamonds), c(Ace, Spades)},
		},
		{
			name:  "LeftBowerFollowsTrump",
			hand:  []Card{c(Jack, Spades), c(Ace, Diamonds)},
			led:   &clubs,
			trump: Clubs,
			want:  []Card{c(Jack, Spades)},
		},
		{
			name:  "LeftBowerDoesNotFollowNaturalSuit",
			hand:  []Card{c(Jack, Diamonds), c(Nine, Spades)},
			led:   &clubs,
			trump: Hearts,
			want:  []Card{c(Jack, Diamonds), c(Nine, Spades)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LegalPlays(tt.hand, tt.led, tt.trump)
			if len(got) != len(tt.want) {
				t.Fatalf("LegalPlays = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("LegalPlays[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTrickWinner(t *testing.T) {
	tests := []struct {
		name  string
		plays []Play
		trump Suit
		want  Seat
	}{
		{
			name:  "HighestLedSuit",
			plays: []Play{{0, c(Ten, Hearts)}, {1, c(Ace, Hearts)}, {2, c(King, Hearts)}, {3, c(Ace, Spades)}},
			trump: Clubs,
			want:  1,
		},
		{
			name:  "TrumpBeatsLed",
			plays: []Play{{0, c(Ace, Hearts)}, {1, c(Nine, Clubs)}, {2, c(King, Hearts)}, {3, c(Queen, Hearts)}},
			trump: Clubs,
			want:  1,
		},
		{
			name:  "LeftBowerBeatsTrumpAce",
			plays: []Play{{2, c(Ace, Clubs)}, {3, c(Jack, Spades)}, {0, c(King, Clubs)}},
			trump: Clubs,
			want:  3,
		},
		{
			name:  "RightBowerWins",
			plays: []Play{{1, c(Jack, Spades)}, {2, c(Jack, Clubs)}, {3, c(Ace, Clubs)}, {0, c(Nine, Clubs)}},
			trump: Clubs,
			want:  2,
		},
		{
			name:  "OffSuitNeverWins",
			plays: []Play{{3, c(Nine, Diamonds)}, {0, c(Ace, Spades)}, {1, c(Ace, Hearts)}, {2, c(Ten, Diamonds)}},
			trump: Clubs,
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TrickWinner(tt.plays, tt.trump)
			if err != nil {
				t.Fatalf("TrickWinner error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("TrickWinner = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTrickWinnerEmpty(t *testing.T) {
	if _, err := TrickWinner(nil, Hearts); !errors.Is(err, ErrEmptyTrick) {
		t.Fatalf("err = %v, want ErrEmptyTrick", err)
	}
}
