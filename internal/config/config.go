package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	DefaultPointsToWin  = 10
	DefaultBotLoopLimit = 100
	DefaultTokenTTL     = 24 * time.Hour
)

// Runtime env keys that override the file.
const (
	EnvPointsToWin  = "euchre_points_to_win"
	EnvBotLoopLimit = "euchre_bot_loop_limit"
	EnvTokenSecret  = "euchre_token_secret"
)

type GameConfig struct {
	// PointsToWin is used when a create request leaves it unset.
	PointsToWin    int  `json:"points_to_win"`
	StickTheDealer bool `json:"stick_the_dealer"`
	NoTrumpAlone   bool `json:"no_trump_alone"`
	// BotLoopLimit caps consecutive bot actions within one hand.
	BotLoopLimit    int    `json:"bot_loop_limit"`
	TokenSecret     string `json:"token_secret"`
	TokenTTLSeconds int    `json:"token_ttl_seconds"`
	// BotIdentitiesPath points at the per-seat bot name file.
	BotIdentitiesPath string `json:"bot_identities_path"`
	ListGamesLimit    int    `json:"list_games_limit"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Default returns the configuration used when no file is present.
func Default() GameConfig {
	return GameConfig{
		PointsToWin:       DefaultPointsToWin,
		BotLoopLimit:      DefaultBotLoopLimit,
		TokenTTLSeconds:   int(DefaultTokenTTL / time.Second),
		BotIdentitiesPath: "data/bot_identities.json",
		ListGamesLimit:    20,
	}
}

// Parse decodes a config file and fills unset fields with defaults.
func Parse(data []byte) (GameConfig, error) {
	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return GameConfig{}, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	c.normalize()
	return c, nil
}

func (c *GameConfig) normalize() {
	d := Default()
	if c.PointsToWin <= 0 {
		c.PointsToWin = d.PointsToWin
	}
	if c.BotLoopLimit <= 0 {
		c.BotLoopLimit = d.BotLoopLimit
	}
	if c.TokenTTLSeconds <= 0 {
		c.TokenTTLSeconds = d.TokenTTLSeconds
	}
	if c.ListGamesLimit <= 0 {
		c.ListGamesLimit = d.ListGamesLimit
	}
}

// ApplyEnv overrides fields from the runtime environment. Unparseable numbers are reported and ignored.
func (c *GameConfig) ApplyEnv(env map[string]string) error {
	var errs []string
	if v, ok := env[EnvPointsToWin]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.PointsToWin = n
		} else {
			errs = append(errs, fmt.Sprintf("%s=%q", EnvPointsToWin, v))
		}
	}
	if v, ok := env[EnvBotLoopLimit]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.BotLoopLimit = n
		} else {
			errs = append(errs, fmt.Sprintf("%s=%q", EnvBotLoopLimit, v))
		}
	}
	if v := env[EnvTokenSecret]; v != "" {
		c.TokenSecret = v
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config overrides: %v", errs)
	}
	return nil
}

// TokenTTL returns the bearer token lifetime.
func (c GameConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSeconds) * time.Second
}

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c, err := Parse(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns a copy of the global game configuration, or the defaults if none was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}
