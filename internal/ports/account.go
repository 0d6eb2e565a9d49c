package ports

import "context"

// AccountPort reads and sets the name a player is shown under at the table.
type AccountPort interface {
	// DisplayName returns the account's display name, or its username when none is set.
	DisplayName(ctx context.Context, playerID string) (string, error)
	SetDisplayName(ctx context.Context, playerID, displayName string) error
}
