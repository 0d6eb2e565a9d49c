package bot

import (
	"fmt"
	"math/rand"
	"time"

	"euchre/internal/domain"
)

// NewBrain creates a new AI brain for the given difficulty. An empty difficulty means medium.
// rng drives the easy bot's random play; a nil rng is seeded from the clock.
func NewBrain(difficulty domain.BotDifficulty, rng *rand.Rand) (Brain, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	switch difficulty {
	case domain.BotEasy:
		return &EasyBot{rng: rng}, nil
	case domain.BotMedium, "":
		return &MediumBot{}, nil
	case domain.BotHard:
		return &HardBot{}, nil
	default:
		return nil, fmt.Errorf("unknown bot difficulty: %q", difficulty)
	}
}
