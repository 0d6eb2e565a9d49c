// Package memstore keeps game records, stats and snapshots in process memory.
// It backs the simulator and tests; nothing survives a restart.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"euchre/internal/domain"
	"euchre/internal/ports"
)

type Store struct {
	mu        sync.Mutex
	games     map[string]ports.GameRecord
	hands     map[string][]domain.HandResult
	stats     map[string]ports.PlayerStats
	snapshots map[string][]byte
	now       func() time.Time
}

func New() *Store {
	return &Store{
		games:     make(map[string]ports.GameRecord),
		hands:     make(map[string][]domain.HandResult),
		stats:     make(map[string]ports.PlayerStats),
		snapshots: make(map[string][]byte),
		now:       time.Now,
	}
}

var (
	_ ports.GameStore     = (*Store)(nil)
	_ ports.StatsPort     = (*Store)(nil)
	_ ports.SnapshotStore = (*Store)(nil)
)

func (s *Store) CreateGame(_ context.Context, record ports.GameRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now()
	}
	if record.Status == "" {
		record.Status = ports.GameStatusWaiting
	}
	record.PlayerIDs = append([]string(nil), record.PlayerIDs...)
	s.games[record.GameID] = record
	return nil
}

func (s *Store) GameByInviteCode(_ context.Context, code string) (ports.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.games {
		if g.InviteCode == code && g.Unfinished() {
			return copyRecord(g), nil
		}
	}
	return ports.GameRecord{}, ports.ErrNotFound
}

func (s *Store) GameByID(_ context.Context, gameID string) (ports.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[gameID]
	if !ok {
		return ports.GameRecord{}, ports.ErrNotFound
	}
	return copyRecord(g), nil
}

// ListPlayerGames returns newest first.
func (s *Store) ListPlayerGames(_ context.Context, playerID string, active bool, limit int) ([]ports.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []ports.GameRecord{}
	for _, g := range s.games {
		if !contains(g.PlayerIDs, playerID) {
			continue
		}
		if (g.Status != ports.GameStatusCompleted) != active {
			continue
		}
		out = append(out, copyRecord(g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) AddParticipant(_ context.Context, gameID, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[gameID]
	if !ok {
		return ports.ErrNotFound
	}
	if !contains(g.PlayerIDs, playerID) {
		g.PlayerIDs = append(g.PlayerIDs, playerID)
		s.games[gameID] = g
	}
	return nil
}

func (s *Store) MarkStarted(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[gameID]
	if !ok {
		return ports.ErrNotFound
	}
	now := s.now()
	g.Status = ports.GameStatusActive
	g.StartedAt = &now
	s.games[gameID] = g
	return nil
}

func (s *Store) AppendHand(_ context.Context, gameID string, result domain.HandResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[gameID]; !ok {
		return ports.ErrNotFound
	}
	s.hands[gameID] = append(s.hands[gameID], result)
	return nil
}

// Hands returns the recorded hand history of a game.
func (s *Store) Hands(gameID string) []domain.HandResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.HandResult(nil), s.hands[gameID]...)
}

func (s *Store) RecordResult(_ context.Context, playerID string, won bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats[playerID]
	st.PlayerID = playerID
	st.GamesPlayed++
	if won {
		st.GamesWon++
	}
	s.stats[playerID] = st
	return nil
}

func (s *Store) CompleteGame(_ context.Context, gameID string, scores [2]int, winner domain.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[gameID]
	if !ok {
		return ports.ErrNotFound
	}
	now := s.now()
	g.Status = ports.GameStatusCompleted
	g.Scores = scores
	g.WinningTeam = winner
	g.CompletedAt = &now
	s.games[gameID] = g
	return nil
}

func (s *Store) InitPlayerStats(_ context.Context, playerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stats[playerID]; ok {
		return false, nil
	}
	s.stats[playerID] = ports.PlayerStats{PlayerID: playerID}
	return true, nil
}

func (s *Store) PlayerStats(_ context.Context, playerID string) (ports.PlayerStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[playerID]
	if !ok {
		return ports.PlayerStats{}, ports.ErrNotFound
	}
	return st, nil
}

func (s *Store) SaveSnapshot(_ context.Context, gameID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[gameID] = append([]byte(nil), data...)
	return nil
}

func (s *Store) LoadSnapshot(_ context.Context, gameID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.snapshots[gameID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func copyRecord(g ports.GameRecord) ports.GameRecord {
	g.PlayerIDs = append([]string(nil), g.PlayerIDs...)
	return g
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
