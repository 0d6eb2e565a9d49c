package app

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by Service wraps exactly one of these,
// so callers classify with errors.Is.
var (
	// ErrValidation marks malformed or missing request fields.
	ErrValidation = errors.New("invalid request")
	// ErrNotYourTurn marks an action from a seat other than the one expected to act.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrIllegalAction marks an action the current phase or hand does not allow.
	ErrIllegalAction = errors.New("illegal action")
	// ErrConflict marks requests that clash with existing state, such as a full or started game.
	ErrConflict = errors.New("conflict")
)

var (
	ErrGameInProgress   = fmt.Errorf("%w: game already in progress", ErrConflict)
	ErrGameFull         = fmt.Errorf("%w: no available seats", ErrConflict)
	ErrSeatOccupied     = fmt.Errorf("%w: seat is already occupied", ErrConflict)
	ErrNotInLobby       = fmt.Errorf("%w: game is not waiting for players", ErrIllegalAction)
	ErrSeatsNotFilled   = fmt.Errorf("%w: all seats must be filled before starting", ErrIllegalAction)
	ErrNotABot          = fmt.Errorf("%w: seat is not a bot", ErrIllegalAction)
	ErrUnknownPlayer    = fmt.Errorf("%w: player is not seated in this game", ErrIllegalAction)
	ErrNotOwner         = fmt.Errorf("%w: only the game creator can do that", ErrIllegalAction)
	ErrNoTurn           = fmt.Errorf("%w: no action is expected right now", ErrIllegalAction)
	ErrWrongPhase       = fmt.Errorf("%w: action not allowed in this phase", ErrIllegalAction)
	ErrTurnedDownSuit   = fmt.Errorf("%w: cannot call the turned-down suit", ErrIllegalAction)
	ErrDealerMustCall   = fmt.Errorf("%w: dealer must call trump (stick the dealer)", ErrIllegalAction)
	ErrAloneNotAllowed  = fmt.Errorf("%w: going alone is disabled for this game", ErrIllegalAction)
	ErrCardNotInHand    = fmt.Errorf("%w: card not in hand", ErrIllegalAction)
	ErrMustFollowSuit   = fmt.Errorf("%w: must follow suit if possible", ErrIllegalAction)
	ErrHandNotOver      = fmt.Errorf("%w: hand is not over", ErrIllegalAction)
	ErrMissingSuit      = fmt.Errorf("%w: suit is required", ErrValidation)
	ErrMissingCard      = fmt.Errorf("%w: card is required", ErrValidation)
	ErrInvalidSuit      = fmt.Errorf("%w: unknown suit", ErrValidation)
	ErrInvalidCard      = fmt.Errorf("%w: unknown card", ErrValidation)
	ErrUnknownAction    = fmt.Errorf("%w: unknown action type", ErrValidation)
	ErrInvalidSeat      = fmt.Errorf("%w: seat must be between 0 and 3", ErrValidation)
	ErrInvalidBotLevel  = fmt.Errorf("%w: unknown bot difficulty", ErrValidation)
	ErrMissingPlayerID  = fmt.Errorf("%w: player id is required", ErrValidation)
	ErrInvalidGameInput = fmt.Errorf("%w: game id and creator are required", ErrValidation)
)
