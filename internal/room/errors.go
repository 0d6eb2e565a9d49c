package room

import (
	"errors"
	"fmt"

	"euchre/internal/app"
)

var (
	ErrNoGame         = errors.New("game not found")
	ErrAlreadyCreated = fmt.Errorf("%w: game already exists", app.ErrConflict)
	ErrInvalidAuth    = errors.New("invalid auth token")
	ErrNotInGame      = errors.New("not in this game")
	ErrUnknownSession = errors.New("unknown session")
	ErrOwnerStart     = fmt.Errorf("%w: only the game creator can start", app.ErrIllegalAction)
	ErrOwnerAddBot    = fmt.Errorf("%w: only the game creator can add bots", app.ErrIllegalAction)
	ErrOwnerRemoveBot = fmt.Errorf("%w: only the game creator can remove bots", app.ErrIllegalAction)
)
