package nakama

import (
	"context"
	"database/sql"

	"euchre/internal/app"
	"euchre/internal/bot"
	"euchre/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

const gameConfigPath = "data/game_config.json"

// Module-wide settings, set once by InitModule before any handler runs.
var (
	moduleConfig = config.Default()
	tokenService *app.TokenService
)

// InitModule wires RPCs, hooks and the match handler for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("InitModule: Could not load game config: %v", err)
	}
	cfg := config.GetGameConfig()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if err := cfg.ApplyEnv(env); err != nil {
			logger.Warn("InitModule: Ignoring runtime env: %v", err)
		}
	}
	if cfg.TokenSecret == "" {
		logger.Warn("InitModule: No token secret configured (set %s); match joins will be refused.", config.EnvTokenSecret)
	} else {
		tokenService = app.NewTokenService(cfg.TokenSecret, cfg.TokenTTL())
	}
	moduleConfig = cfg

	if err := bot.LoadIdentities(cfg.BotIdentitiesPath); err != nil {
		logger.Warn("InitModule: Could not load bot identities: %v", err)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}
	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}
	if err := initializer.RegisterMatch(MatchNameEuchre, NewMatch); err != nil {
		return err
	}

	logger.Info("Euchre Go module loaded (points to win %d, bot loop limit %d).", cfg.PointsToWin, cfg.BotLoopLimit)
	return nil
}
