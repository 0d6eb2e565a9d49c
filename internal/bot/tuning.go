package bot

import "euchre/internal/domain"

// Thresholds are the minimum trump strengths at which a bot commits.
type Thresholds struct {
	OrderUp   float64 // round one, on the flipped suit
	CallTrump float64 // round two, on the best remaining suit
	GoAlone   float64
}

// Round-one thresholds drop when the bot's team will get the flipped card.
const (
	partnerDealsAdjust = 0.5
	dealerAdjust       = 1.0
)

// DefaultTuning maps each difficulty to its bidding thresholds.
var DefaultTuning = map[domain.BotDifficulty]Thresholds{
	domain.BotEasy:   {OrderUp: 4, CallTrump: 3.5, GoAlone: 8},
	domain.BotMedium: {OrderUp: 3, CallTrump: 2.5, GoAlone: 6.5},
	domain.BotHard:   {OrderUp: 2.5, CallTrump: 2, GoAlone: 5.5},
}
