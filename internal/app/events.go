package app

import "euchre/internal/domain"

// EventKind identifies emitted game events for transport dispatch.
type EventKind string

const (
	EventTrumpPassed          EventKind = "trump_passed"
	EventBiddingRoundAdvanced EventKind = "bidding_round_advanced"
	EventMisdeal              EventKind = "misdeal"
	EventTrumpCalled          EventKind = "trump_called"
	EventDealerDiscard        EventKind = "dealer_discard"
	EventDealerDiscarded      EventKind = "dealer_discarded"
	EventHandStarted          EventKind = "hand_started"
	EventPlayStarted          EventKind = "play_started"
	EventCardPlayed           EventKind = "card_played"
	EventTrickWon             EventKind = "trick_won"
	EventHandFinished         EventKind = "hand_finished"
	EventScoreUpdated         EventKind = "score_updated"
	EventGameFinished         EventKind = "game_finished"
)

// Event is one semantic outcome of a transition, in emission order.
// The set of implementations is closed; switch on the concrete type.
type Event interface {
	Kind() EventKind
	event()
}

type TrumpPassed struct {
	Seat  domain.Seat
	Round int
}

// BiddingRoundAdvanced is emitted when every seat passed round one.
type BiddingRoundAdvanced struct {
	Round       int
	CurrentSeat domain.Seat
}

// Misdeal voids the hand after four round-two passes. A HandStarted for the redeal follows.
type Misdeal struct {
	PreviousDealer domain.Seat
	NextDealer     domain.Seat
}

type TrumpCalled struct {
	Seat  domain.Seat
	Suit  domain.Suit
	Alone bool
}

// DealerDiscard asks the dealer to shed the extra card after a pickup.
type DealerDiscard struct {
	Seat domain.Seat
}

type DealerDiscarded struct {
	Seat domain.Seat
}

type HandStarted struct {
	HandNumber  int
	DealerSeat  domain.Seat
	FlippedCard domain.Card
}

type PlayStarted struct {
	LeadSeat domain.Seat
}

type CardPlayed struct {
	Seat domain.Seat
	Card domain.Card
}

type TrickWon struct {
	Seat domain.Seat
	Team domain.Team
}

type HandFinished struct {
	Result domain.HandResult
}

type ScoreUpdated struct {
	Scores [2]int
}

type GameFinished struct {
	Winner domain.Team
	Scores [2]int
}

func (TrumpPassed) Kind() EventKind          { return EventTrumpPassed }
func (BiddingRoundAdvanced) Kind() EventKind { return EventBiddingRoundAdvanced }
func (Misdeal) Kind() EventKind              { return EventMisdeal }
func (TrumpCalled) Kind() EventKind          { return EventTrumpCalled }
func (DealerDiscard) Kind() EventKind        { return EventDealerDiscard }
func (DealerDiscarded) Kind() EventKind      { return EventDealerDiscarded }
func (HandStarted) Kind() EventKind          { return EventHandStarted }
func (PlayStarted) Kind() EventKind          { return EventPlayStarted }
func (CardPlayed) Kind() EventKind           { return EventCardPlayed }
func (TrickWon) Kind() EventKind             { return EventTrickWon }
func (HandFinished) Kind() EventKind         { return EventHandFinished }
func (ScoreUpdated) Kind() EventKind         { return EventScoreUpdated }
func (GameFinished) Kind() EventKind         { return EventGameFinished }

func (TrumpPassed) event()          {}
func (BiddingRoundAdvanced) event() {}
func (Misdeal) event()              {}
func (TrumpCalled) event()          {}
func (DealerDiscard) event()        {}
func (DealerDiscarded) event()      {}
func (HandStarted) event()          {}
func (PlayStarted) event()          {}
func (CardPlayed) event()           {}
func (TrickWon) event()             {}
func (HandFinished) event()         {}
func (ScoreUpdated) event()         {}
func (GameFinished) event()         {}
