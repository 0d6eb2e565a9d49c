package ports

import (
	"context"
	"errors"
	"time"

	"euchre/internal/domain"
)

// ErrNotFound is returned by stores when a record does not exist or is not visible to the query.
var ErrNotFound = errors.New("not found")

// GameStatus is the persisted lifecycle of a game record.
type GameStatus string

const (
	GameStatusWaiting   GameStatus = "waiting"
	GameStatusActive    GameStatus = "active"
	GameStatusCompleted GameStatus = "completed"
)

// GameRecord is the durable summary of a game, kept outside the room.
type GameRecord struct {
	GameID      string            `json:"game_id"`
	MatchID     string            `json:"match_id,omitempty"`
	InviteCode  string            `json:"invite_code"`
	CreatedBy   string            `json:"created_by"`
	Status      GameStatus        `json:"status"`
	Config      domain.GameConfig `json:"config"`
	PlayerIDs   []string          `json:"player_ids"`
	Scores      [2]int            `json:"scores"`
	WinningTeam domain.Team       `json:"winning_team,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

// Unfinished reports whether the game can still be entered: waiting games take new
// players and active games take back their members.
func (r GameRecord) Unfinished() bool {
	return r.Status == GameStatusWaiting || r.Status == GameStatusActive
}

// PlayerStats holds a player's cumulative counters.
type PlayerStats struct {
	PlayerID    string `json:"player_id"`
	GamesPlayed int    `json:"games_played"`
	GamesWon    int    `json:"games_won"`
}

// GameStore persists game records, hand history and player counters.
// It is eventually consistent with the room, which stays authoritative during play.
type GameStore interface {
	CreateGame(ctx context.Context, record GameRecord) error
	// GameByInviteCode only finds unfinished games. Whether the caller gets a seat is up to the room.
	GameByInviteCode(ctx context.Context, code string) (GameRecord, error)
	GameByID(ctx context.Context, gameID string) (GameRecord, error)
	// ListPlayerGames returns the player's waiting/active games, or completed ones when active is false.
	ListPlayerGames(ctx context.Context, playerID string, active bool, limit int) ([]GameRecord, error)
	AddParticipant(ctx context.Context, gameID, playerID string) error
	MarkStarted(ctx context.Context, gameID string) error
	AppendHand(ctx context.Context, gameID string, result domain.HandResult) error
	RecordResult(ctx context.Context, playerID string, won bool) error
	CompleteGame(ctx context.Context, gameID string, scores [2]int, winner domain.Team) error
}

// StatsPort initializes and reads player counters.
type StatsPort interface {
	// InitPlayerStats creates a zeroed stats record. created is false when one already existed.
	InitPlayerStats(ctx context.Context, playerID string) (created bool, err error)
	PlayerStats(ctx context.Context, playerID string) (PlayerStats, error)
}

// SnapshotStore keeps the latest serialized room state per game.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, gameID string, data []byte) error
	LoadSnapshot(ctx context.Context, gameID string) ([]byte, error)
}
