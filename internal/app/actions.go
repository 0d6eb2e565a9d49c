package app

import "euchre/internal/domain"

// ActionType names a player intent during a hand.
type ActionType string

const (
	ActionPass            ActionType = "pass"
	ActionOrderUp         ActionType = "order_up"
	ActionCallTrump       ActionType = "call_trump"
	ActionGoAlone         ActionType = "go_alone"
	ActionPlayWithPartner ActionType = "play_with_partner"
	ActionDiscard         ActionType = "discard"
	ActionPlayCard        ActionType = "play_card"
)

// Action is one bidding, discard or play intent.
//
// Calling trump and going alone is a single action: order_up and call_trump carry Alone,
// go_alone is shorthand for a call with Alone set, and play_with_partner for a call without it.
// In the second bidding round every call names its Suit.
type Action struct {
	Type  ActionType   `json:"type"`
	Suit  *domain.Suit `json:"suit,omitempty"`
	Card  *domain.Card `json:"card,omitempty"`
	Alone bool         `json:"alone,omitempty"`
}

// Validate checks the fields every action type needs regardless of game state.
func (a Action) Validate() error {
	switch a.Type {
	case ActionPass, ActionOrderUp, ActionGoAlone, ActionPlayWithPartner:
	case ActionCallTrump:
		if a.Suit == nil {
			return ErrMissingSuit
		}
	case ActionDiscard, ActionPlayCard:
		if a.Card == nil {
			return ErrMissingCard
		}
		if !a.Card.Valid() {
			return ErrInvalidCard
		}
	default:
		return ErrUnknownAction
	}
	if a.Suit != nil && !a.Suit.Valid() {
		return ErrInvalidSuit
	}
	return nil
}

// call reports whether the action settles trump, and whether the caller goes alone.
func (a Action) call() (isCall, alone bool) {
	switch a.Type {
	case ActionOrderUp, ActionCallTrump:
		return true, a.Alone
	case ActionGoAlone:
		return true, true
	case ActionPlayWithPartner:
		return true, false
	}
	return false, false
}

// Pass builds a pass action.
func Pass() Action { return Action{Type: ActionPass} }

// OrderUp builds a round-one call on the turned card.
func OrderUp(alone bool) Action { return Action{Type: ActionOrderUp, Alone: alone} }

// CallTrump builds a round-two call naming suit.
func CallTrump(suit domain.Suit, alone bool) Action {
	return Action{Type: ActionCallTrump, Suit: &suit, Alone: alone}
}

// Discard builds the dealer's discard.
func Discard(card domain.Card) Action { return Action{Type: ActionDiscard, Card: &card} }

// PlayCard builds a trick play.
func PlayCard(card domain.Card) Action { return Action{Type: ActionPlayCard, Card: &card} }
