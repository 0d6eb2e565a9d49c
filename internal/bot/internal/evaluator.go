package internal

import "euchre/internal/domain"

// Per-card weights used when sizing up a prospective trump suit.
const (
	trumpCardWeight  = 1.0
	rightBowerBonus  = 2.0
	leftBowerBonus   = 1.5
	trumpAceBonus    = 1.0
	trumpKingBonus   = 0.5
	offSuitAceWeight = 0.5
)

// TrumpStrength scores how well hand would play with trump as trump.
// Every trump card (bowers included) is worth one point plus a rank bonus; off-suit aces add half a point.
func TrumpStrength(hand []domain.Card, trump domain.Suit) float64 {
	score := 0.0
	for _, c := range hand {
		if domain.IsTrump(c, trump) {
			score += trumpCardWeight
			switch {
			case domain.IsRightBower(c, trump):
				score += rightBowerBonus
			case domain.IsLeftBower(c, trump):
				score += leftBowerBonus
			case c.Rank == domain.Ace:
				score += trumpAceBonus
			case c.Rank == domain.King:
				score += trumpKingBonus
			}
			continue
		}
		if c.Rank == domain.Ace {
			score += offSuitAceWeight
		}
	}
	return score
}

// BestSuit returns the suit (other than exclude) with the highest positive strength.
// Ties go to the earlier suit in canonical order.
func BestSuit(hand []domain.Card, exclude domain.Suit) (domain.Suit, float64, bool) {
	var (
		best      domain.Suit
		bestScore float64
		found     bool
	)
	for _, s := range domain.Suits {
		if s == exclude {
			continue
		}
		score := TrumpStrength(hand, s)
		if score > bestScore {
			best, bestScore, found = s, score, true
		}
	}
	return best, bestScore, found
}

// Weakest returns the card with the lowest score. The first card wins ties.
func Weakest(cards []domain.Card, score func(domain.Card) int) domain.Card {
	best := cards[0]
	bestScore := score(best)
	for _, c := range cards[1:] {
		if s := score(c); s < bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

// Strongest returns the card with the highest score. The first card wins ties.
func Strongest(cards []domain.Card, score func(domain.Card) int) domain.Card {
	best := cards[0]
	bestScore := score(best)
	for _, c := range cards[1:] {
		if s := score(c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best
}
