package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"euchre/internal/domain"
	"euchre/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// maxUpdateAttempts bounds optimistic retries when a versioned write is rejected.
const maxUpdateAttempts = 3

// listPageSize is the storage list page used when scanning a player's games.
const listPageSize = 100

// NakamaStorageAdapter implements the game, stats and snapshot ports on Nakama storage.
// Game-scoped objects belong to the system user; stats and the per-player game index
// belong to the player.
type NakamaStorageAdapter struct {
	nk  runtime.NakamaModule
	now func() time.Time
}

// NewNakamaStorageAdapter creates a new storage adapter.
func NewNakamaStorageAdapter(nk runtime.NakamaModule) *NakamaStorageAdapter {
	return &NakamaStorageAdapter{nk: nk, now: time.Now}
}

var (
	_ ports.GameStore     = (*NakamaStorageAdapter)(nil)
	_ ports.StatsPort     = (*NakamaStorageAdapter)(nil)
	_ ports.SnapshotStore = (*NakamaStorageAdapter)(nil)
)

type inviteIndex struct {
	GameID string `json:"game_id"`
}

// CreateGame writes the record, its invite index and the creator's game index atomically.
// A reused game id or invite code is rejected.
func (a *NakamaStorageAdapter) CreateGame(ctx context.Context, record ports.GameRecord) error {
	if record.GameID == "" {
		return fmt.Errorf("game id is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = a.now().UTC()
	}
	if record.Status == "" {
		record.Status = ports.GameStatusWaiting
	}

	gameWrite, err := systemWrite(collectionGames, record.GameID, record, "*")
	if err != nil {
		return err
	}
	inviteWrite, err := systemWrite(collectionInvites, record.InviteCode, inviteIndex{GameID: record.GameID}, "*")
	if err != nil {
		return err
	}
	writes := []*runtime.StorageWrite{gameWrite, inviteWrite}
	for _, playerID := range record.PlayerIDs {
		writes = append(writes, playerGameWrite(playerID, record.GameID))
	}

	if _, _, err := a.nk.MultiUpdate(ctx, nil, writes, nil, nil, false); err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return fmt.Errorf("game %s or invite %s already exists: %w", record.GameID, record.InviteCode, err)
		}
		return fmt.Errorf("failed to create game %s: %w", record.GameID, err)
	}
	return nil
}

func (a *NakamaStorageAdapter) GameByInviteCode(ctx context.Context, code string) (ports.GameRecord, error) {
	var idx inviteIndex
	if _, err := a.read(ctx, collectionInvites, code, "", &idx); err != nil {
		return ports.GameRecord{}, err
	}
	record, err := a.GameByID(ctx, idx.GameID)
	if err != nil {
		return ports.GameRecord{}, err
	}
	if !record.Unfinished() {
		return ports.GameRecord{}, ports.ErrNotFound
	}
	return record, nil
}

func (a *NakamaStorageAdapter) GameByID(ctx context.Context, gameID string) (ports.GameRecord, error) {
	var record ports.GameRecord
	if _, err := a.read(ctx, collectionGames, gameID, "", &record); err != nil {
		return ports.GameRecord{}, err
	}
	return record, nil
}

// ListPlayerGames walks the player's game index and returns newest first.
func (a *NakamaStorageAdapter) ListPlayerGames(ctx context.Context, playerID string, active bool, limit int) ([]ports.GameRecord, error) {
	var reads []*runtime.StorageRead
	cursor := ""
	for {
		objects, next, err := a.nk.StorageList(ctx, "", playerID, collectionPlayerGames, listPageSize, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to list games of %s: %w", playerID, err)
		}
		for _, obj := range objects {
			reads = append(reads, &runtime.StorageRead{Collection: collectionGames, Key: obj.GetKey()})
		}
		if next == "" || len(objects) == 0 {
			break
		}
		cursor = next
	}

	out := []ports.GameRecord{}
	if len(reads) == 0 {
		return out, nil
	}
	objects, err := a.nk.StorageRead(ctx, reads)
	if err != nil {
		return nil, fmt.Errorf("failed to read games of %s: %w", playerID, err)
	}
	for _, obj := range objects {
		var record ports.GameRecord
		if err := json.Unmarshal([]byte(obj.GetValue()), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game %s: %w", obj.GetKey(), err)
		}
		if (record.Status != ports.GameStatusCompleted) != active {
			continue
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (a *NakamaStorageAdapter) AddParticipant(ctx context.Context, gameID, playerID string) error {
	return a.updateGame(ctx, gameID, func(r *ports.GameRecord) {
		for _, id := range r.PlayerIDs {
			if id == playerID {
				return
			}
		}
		r.PlayerIDs = append(r.PlayerIDs, playerID)
	}, playerGameWrite(playerID, gameID))
}

func (a *NakamaStorageAdapter) MarkStarted(ctx context.Context, gameID string) error {
	return a.updateGame(ctx, gameID, func(r *ports.GameRecord) {
		now := a.now().UTC()
		r.Status = ports.GameStatusActive
		r.StartedAt = &now
	})
}

func (a *NakamaStorageAdapter) CompleteGame(ctx context.Context, gameID string, scores [2]int, winner domain.Team) error {
	return a.updateGame(ctx, gameID, func(r *ports.GameRecord) {
		now := a.now().UTC()
		r.Status = ports.GameStatusCompleted
		r.Scores = scores
		r.WinningTeam = winner
		r.CompletedAt = &now
	})
}

// SetMatchID points the record at the match currently hosting the game.
func (a *NakamaStorageAdapter) SetMatchID(ctx context.Context, gameID, matchID string) error {
	return a.updateGame(ctx, gameID, func(r *ports.GameRecord) {
		r.MatchID = matchID
	})
}

// AppendHand stores one hand per key, so a repeated append of the same hand overwrites it.
func (a *NakamaStorageAdapter) AppendHand(ctx context.Context, gameID string, result domain.HandResult) error {
	write, err := systemWrite(collectionHands, handKey(gameID, result.HandNumber), result, "")
	if err != nil {
		return err
	}
	if _, err := a.nk.StorageWrite(ctx, []*runtime.StorageWrite{write}); err != nil {
		return fmt.Errorf("failed to store hand %d of game %s: %w", result.HandNumber, gameID, err)
	}
	return nil
}

func handKey(gameID string, handNumber int) string {
	return fmt.Sprintf("%s:%03d", gameID, handNumber)
}

func (a *NakamaStorageAdapter) RecordResult(ctx context.Context, playerID string, won bool) error {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		stats := ports.PlayerStats{PlayerID: playerID}
		version, err := a.read(ctx, collectionStats, statsKey, playerID, &stats)
		switch {
		case errors.Is(err, ports.ErrNotFound):
			version = "*"
		case err != nil:
			return err
		}
		stats.GamesPlayed++
		if won {
			stats.GamesWon++
		}
		err = a.writeStats(ctx, stats, version)
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			continue
		}
		return err
	}
	return fmt.Errorf("failed to record result for %s: too many concurrent updates", playerID)
}

// InitPlayerStats creates a zeroed record unless one exists.
func (a *NakamaStorageAdapter) InitPlayerStats(ctx context.Context, playerID string) (bool, error) {
	if playerID == "" {
		return false, fmt.Errorf("playerID is required")
	}
	err := a.writeStats(ctx, ports.PlayerStats{PlayerID: playerID}, "*")
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (a *NakamaStorageAdapter) PlayerStats(ctx context.Context, playerID string) (ports.PlayerStats, error) {
	var stats ports.PlayerStats
	if _, err := a.read(ctx, collectionStats, statsKey, playerID, &stats); err != nil {
		return ports.PlayerStats{}, err
	}
	stats.PlayerID = playerID
	return stats, nil
}

func (a *NakamaStorageAdapter) writeStats(ctx context.Context, stats ports.PlayerStats, version string) error {
	value, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      collectionStats,
		Key:             statsKey,
		UserID:          stats.PlayerID,
		Value:           string(value),
		Version:         version,
		PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}})
	if err != nil {
		return fmt.Errorf("failed to write stats for %s: %w", stats.PlayerID, err)
	}
	return nil
}

func (a *NakamaStorageAdapter) SaveSnapshot(ctx context.Context, gameID string, data []byte) error {
	_, err := a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      collectionSnapshots,
		Key:             gameID,
		Value:           string(data),
		PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}})
	if err != nil {
		return fmt.Errorf("failed to save snapshot of %s: %w", gameID, err)
	}
	return nil
}

func (a *NakamaStorageAdapter) LoadSnapshot(ctx context.Context, gameID string) ([]byte, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{Collection: collectionSnapshots, Key: gameID}})
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot of %s: %w", gameID, err)
	}
	if len(objects) == 0 {
		return nil, ports.ErrNotFound
	}
	return []byte(objects[0].GetValue()), nil
}

// updateGame applies mutate under the record's storage version, retrying when
// another writer got there first. extra writes commit in the same transaction.
func (a *NakamaStorageAdapter) updateGame(ctx context.Context, gameID string, mutate func(*ports.GameRecord), extra ...*runtime.StorageWrite) error {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		var record ports.GameRecord
		version, err := a.read(ctx, collectionGames, gameID, "", &record)
		if err != nil {
			return err
		}
		mutate(&record)
		write, err := systemWrite(collectionGames, gameID, record, version)
		if err != nil {
			return err
		}
		writes := append([]*runtime.StorageWrite{write}, extra...)
		_, _, err = a.nk.MultiUpdate(ctx, nil, writes, nil, nil, false)
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to update game %s: %w", gameID, err)
		}
		return nil
	}
	return fmt.Errorf("failed to update game %s: too many concurrent updates", gameID)
}

// read decodes one object into v and returns its version.
func (a *NakamaStorageAdapter) read(ctx context.Context, collection, key, userID string, v interface{}) (string, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{Collection: collection, Key: key, UserID: userID}})
	if err != nil {
		return "", fmt.Errorf("failed to read %s/%s: %w", collection, key, err)
	}
	if len(objects) == 0 {
		return "", ports.ErrNotFound
	}
	if err := json.Unmarshal([]byte(objects[0].GetValue()), v); err != nil {
		return "", fmt.Errorf("failed to unmarshal %s/%s: %w", collection, key, err)
	}
	return objects[0].GetVersion(), nil
}

func systemWrite(collection, key string, v interface{}, version string) (*runtime.StorageWrite, error) {
	value, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s/%s: %w", collection, key, err)
	}
	return &runtime.StorageWrite{
		Collection:      collection,
		Key:             key,
		Value:           string(value),
		Version:         version,
		PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}, nil
}

// playerGameWrite indexes a game under the player so list_games can find it.
func playerGameWrite(playerID, gameID string) *runtime.StorageWrite {
	value, _ := json.Marshal(inviteIndex{GameID: gameID})
	return &runtime.StorageWrite{
		Collection:      collectionPlayerGames,
		Key:             gameID,
		UserID:          playerID,
		Value:           string(value),
		PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}
}
