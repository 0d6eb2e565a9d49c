package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"euchre/internal/domain"
)

func quietLogger() *slogLogger {
	return newSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPlayGameFinishes(t *testing.T) {
	opts := simOptions{
		seed:     11,
		cfg:      domain.GameConfig{PointsToWin: 5},
		owner:    domain.BotHard,
		bots:     [3]domain.BotDifficulty{domain.BotEasy, domain.BotMedium, domain.BotHard},
		botLimit: 100,
	}
	for n := 0; n < 3; n++ {
		res, err := playGame(context.Background(), opts, n, quietLogger())
		if err != nil {
			t.Fatalf("game %d: %v", n, err)
		}
		if res.scores[res.winner.Index()] < 5 {
			t.Fatalf("game %d: winner %d has %v", n, res.winner, res.scores)
		}
		if len(res.hands) == 0 {
			t.Fatalf("game %d: no hands recorded", n)
		}
	}
}

func TestTallyAdd(t *testing.T) {
	var tl tally
	tl.add(gameResult{
		winner: domain.Team2,
		hands: []domain.HandResult{
			{CalledBySeat: 0, PointsAwarded: 2, PointsToTeam: domain.Team2},
			{CalledBySeat: 1, PointsAwarded: 2, PointsToTeam: domain.Team2},
			{CalledBySeat: 3, WentAlone: true, PointsAwarded: 4, PointsToTeam: domain.Team2},
			{CalledBySeat: 2, PointsAwarded: 1, PointsToTeam: domain.Team1},
		},
	})
	want := tally{games: 1, wins: [2]int{0, 1}, hands: 4, alone: 1, aloneMarch: 1, euchres: 1, marches: 1}
	if tl != want {
		t.Fatalf("tally = %+v, want %+v", tl, want)
	}
}

func TestSlogLoggerFields(t *testing.T) {
	l := quietLogger().WithField("game", 1).WithFields(map[string]interface{}{"seat": 2})
	fields := l.Fields()
	if fields["game"] != 1 || fields["seat"] != 2 {
		t.Fatalf("fields = %v", fields)
	}
}
