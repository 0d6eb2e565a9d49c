package app

import "euchre/internal/domain"

// CurrentTurn returns the seat expected to act, or false when nobody is (lobby, between hands, game over).
func CurrentTurn(g *domain.GameState) (domain.Seat, bool) {
	switch g.Phase {
	case domain.PhaseTrumpRound1, domain.PhaseTrumpRound2:
		if g.TrumpCall == nil {
			return 0, false
		}
		return g.TrumpCall.CurrentSeat, true
	case domain.PhaseDiscard:
		if g.Hand == nil {
			return 0, false
		}
		return g.Hand.DealerSeat, true
	case domain.PhasePlaying:
		return nextTrickSeat(g.Hand)
	}
	return 0, false
}

// nextTrickSeat walks clockwise from the last card played, passing over a loner's partner.
func nextTrickSeat(h *domain.HandState) (domain.Seat, bool) {
	if h == nil {
		return 0, false
	}
	cards := h.CurrentTrick.Cards
	if len(cards) >= h.PlayersPerTrick() {
		return 0, false
	}
	if len(cards) == 0 {
		return h.CurrentTrick.LeadSeat, true
	}
	next := cards[len(cards)-1].Seat.Next()
	if h.Skipped(next) {
		next = next.Next()
	}
	return next, true
}

// TurnOptions enumerates what a seat may do right now.
type TurnOptions struct {
	Actions    []ActionType  `json:"validActions"`
	ValidCards []domain.Card `json:"validCards,omitempty"`
}

// ValidActions lists the actions and cards available to seat. It is empty when it is not seat's turn.
func ValidActions(g *domain.GameState, seat domain.Seat) TurnOptions {
	turn, ok := CurrentTurn(g)
	if !ok || turn != seat {
		return TurnOptions{Actions: []ActionType{}}
	}

	switch g.Phase {
	case domain.PhaseTrumpRound1:
		actions := []ActionType{ActionPass, ActionOrderUp}
		if !g.Config.NoTrumpAlone {
			actions = append(actions, ActionGoAlone)
		}
		return TurnOptions{Actions: actions}
	case domain.PhaseTrumpRound2:
		var actions []ActionType
		if !g.Config.StickTheDealer || seat != g.Hand.DealerSeat {
			actions = append(actions, ActionPass)
		}
		actions = append(actions, ActionCallTrump)
		if !g.Config.NoTrumpAlone {
			actions = append(actions, ActionGoAlone)
		}
		return TurnOptions{Actions: actions}
	case domain.PhaseDiscard:
		return TurnOptions{
			Actions:    []ActionType{ActionDiscard},
			ValidCards: append([]domain.Card{}, g.Hand.Hands[seat]...),
		}
	case domain.PhasePlaying:
		trump, _ := g.Hand.Trump()
		led := domain.LedSuit(g.Hand.CurrentTrick, trump)
		return TurnOptions{
			Actions:    []ActionType{ActionPlayCard},
			ValidCards: domain.LegalPlays(g.Hand.Hands[seat], led, trump),
		}
	}
	return TurnOptions{Actions: []ActionType{}}
}

// ClientHand is the per-seat redacted view of a hand.
type ClientHand struct {
	HandNumber      int            `json:"handNumber"`
	DealerSeat      domain.Seat    `json:"dealerSeat"`
	TrumpSuit       *domain.Suit   `json:"trumpSuit"`
	CalledBySeat    *domain.Seat   `json:"calledBySeat"`
	GoingAlone      bool           `json:"goingAlone"`
	AloneSeat       *domain.Seat   `json:"aloneSeat"`
	SkippedSeat     *domain.Seat   `json:"skippedSeat"`
	YourCards       []domain.Card  `json:"yourCards"`
	CardCounts      [4]int         `json:"cardCounts"`
	FlippedCard     *domain.Card   `json:"flippedCard"`
	CurrentTrick    domain.Trick   `json:"currentTrick"`
	CompletedTricks []domain.Trick `json:"completedTricks"`
	TricksWon       [2]int         `json:"tricksWon"`
	CurrentTurnSeat *domain.Seat   `json:"currentTurnSeat"`
}

// ClientState is what one seat is allowed to see: everything public plus its own cards.
type ClientState struct {
	GameID         string                 `json:"gameId"`
	InviteCode     string                 `json:"inviteCode"`
	Phase          domain.Phase           `json:"phase"`
	Players        [4]domain.PlayerSlot   `json:"players"`
	Scores         [2]int                 `json:"scores"`
	PointsToWin    int                    `json:"pointsToWin"`
	StickTheDealer bool                   `json:"stickTheDealer"`
	NoTrumpAlone   bool                   `json:"noTrumpAlone"`
	TrumpCall      *domain.TrumpCallState `json:"trumpCall"`
	Hand           *ClientHand            `json:"hand"`
	HandHistory    []domain.HandResult    `json:"handHistory"`
}

// ClientView redacts g for seat. An invalid seat sees no private cards.
func ClientView(g *domain.GameState, seat domain.Seat) ClientState {
	cp := g.Clone()
	view := ClientState{
		GameID:         cp.GameID,
		InviteCode:     cp.InviteCode,
		Phase:          cp.Phase,
		Players:        cp.Players,
		Scores:         cp.Scores,
		PointsToWin:    cp.Config.PointsToWin,
		StickTheDealer: cp.Config.StickTheDealer,
		NoTrumpAlone:   cp.Config.NoTrumpAlone,
		TrumpCall:      cp.TrumpCall,
		HandHistory:    cp.History,
	}
	if view.HandHistory == nil {
		view.HandHistory = []domain.HandResult{}
	}
	h := cp.Hand
	if h == nil {
		return view
	}

	ch := &ClientHand{
		HandNumber:      h.HandNumber,
		DealerSeat:      h.DealerSeat,
		TrumpSuit:       h.TrumpSuit,
		CalledBySeat:    h.CalledBySeat,
		GoingAlone:      h.GoingAlone,
		AloneSeat:       h.AloneSeat,
		SkippedSeat:     h.SkippedSeat,
		YourCards:       []domain.Card{},
		FlippedCard:     h.FlippedCard,
		CurrentTrick:    h.CurrentTrick,
		CompletedTricks: h.CompletedTricks,
		TricksWon:       h.TricksWon,
	}
	for i, cards := range h.Hands {
		ch.CardCounts[i] = len(cards)
	}
	if seat.Valid() && h.Hands[seat] != nil {
		ch.YourCards = h.Hands[seat]
	}
	if turn, ok := CurrentTurn(cp); ok {
		ch.CurrentTurnSeat = &turn
	}
	view.Hand = ch
	return view
}
