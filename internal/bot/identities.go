package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"euchre/internal/domain"
)

// BotIdentity is the display profile for the bot sitting in a seat.
type BotIdentity struct {
	Seat        int    `json:"seat"`
	DisplayName string `json:"display_name"`
}

var defaultDisplayNames = [domain.NumSeats]string{"Bot Alice", "Bot Bob", "Bot Carol", "Bot Dave"}

var (
	displayNames = defaultDisplayNames
	namesMu      sync.RWMutex
	loadOnce     sync.Once
	loadErr      error
)

// LoadIdentities loads per-seat bot names from the given path. Seats missing from the file keep their defaults.
// Only the first call reads the file.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		names, err := parseIdentities(data)
		if err != nil {
			loadErr = err
			return
		}
		namesMu.Lock()
		displayNames = names
		namesMu.Unlock()
	})
	return loadErr
}

func parseIdentities(data []byte) ([domain.NumSeats]string, error) {
	names := defaultDisplayNames
	var identities []BotIdentity
	if err := json.Unmarshal(data, &identities); err != nil {
		return names, fmt.Errorf("failed to unmarshal bot identities: %w", err)
	}
	for _, identity := range identities {
		if !domain.Seat(identity.Seat).Valid() {
			return names, fmt.Errorf("bot identity has invalid seat %d", identity.Seat)
		}
		if identity.DisplayName != "" {
			names[identity.Seat] = identity.DisplayName
		}
	}
	return names, nil
}

// DisplayName returns the name given to a bot placed in seat.
func DisplayName(seat domain.Seat) string {
	if !seat.Valid() {
		return fmt.Sprintf("Bot %d", int(seat))
	}
	namesMu.RLock()
	defer namesMu.RUnlock()
	return displayNames[seat]
}
