package nakama

import (
	"context"
	"fmt"

	"euchre/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaAccountAdapter names players through Nakama accounts.
type NakamaAccountAdapter struct {
	nk runtime.NakamaModule
}

func NewNakamaAccountAdapter(nk runtime.NakamaModule) *NakamaAccountAdapter {
	return &NakamaAccountAdapter{nk: nk}
}

func (a *NakamaAccountAdapter) DisplayName(ctx context.Context, playerID string) (string, error) {
	account, err := a.nk.AccountGetId(ctx, playerID)
	if err != nil {
		return "", err
	}
	user := account.GetUser()
	if user == nil {
		return "", fmt.Errorf("account %s has no user", playerID)
	}
	if user.GetDisplayName() != "" {
		return user.GetDisplayName(), nil
	}
	return user.GetUsername(), nil
}

// SetDisplayName leaves the username and every other profile field untouched.
func (a *NakamaAccountAdapter) SetDisplayName(ctx context.Context, playerID, displayName string) error {
	return a.nk.AccountUpdateId(ctx, playerID, "", nil, displayName, "", "", "", "")
}

var _ ports.AccountPort = (*NakamaAccountAdapter)(nil)
