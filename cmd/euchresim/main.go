// Command euchresim plays bot-only Euchre games through the room coordinator and
// prints how each bot line-up fared.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"sync"

	"euchre/internal/app"
	"euchre/internal/bot"
	"euchre/internal/config"
	"euchre/internal/domain"
	"euchre/internal/ports"
	"euchre/internal/ports/memstore"
	"euchre/internal/room"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/pterm/pterm"
)

const ownerID = "owner"

type simOptions struct {
	games    int
	seed     int64
	cfg      domain.GameConfig
	owner    domain.BotDifficulty
	bots     [3]domain.BotDifficulty
	botLimit int
}

func main() {
	gamesFlag := flag.Int("games", 100, "number of games to play")
	seedFlag := flag.Int64("seed", 1, "seed of the first game; game i uses seed+i")
	configFlag := flag.String("config", "", "game config file (defaults apply when empty)")
	pointsFlag := flag.Int("points", 0, "points to win (overrides the config)")
	stickFlag := flag.Bool("stick", false, "play stick the dealer")
	noTrumpAloneFlag := flag.Bool("no-trump-alone", false, "forbid going alone")
	ownerFlag := flag.String("owner", "medium", "policy driving seat 0")
	botsFlag := flag.String("bots", "easy,medium,hard", "difficulties of seats 1-3")
	workersFlag := flag.Int("workers", 4, "games played in parallel")
	verboseFlag := flag.Bool("v", false, "log room activity")
	flag.Parse()

	level := pterm.LogLevelWarn
	if *verboseFlag {
		level = pterm.LogLevelDebug
	}
	logger := slog.New(pterm.NewSlogHandler(pterm.DefaultLogger.WithLevel(level)))

	cfg := config.Default()
	if *configFlag != "" {
		if err := config.LoadGameConfig(*configFlag); err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
		cfg = config.GetGameConfig()
	}
	if *pointsFlag > 0 {
		cfg.PointsToWin = *pointsFlag
	}
	if err := bot.LoadIdentities(cfg.BotIdentitiesPath); err != nil {
		logger.Warn("bot names fall back to defaults", "err", err)
	}

	opts := simOptions{
		games: *gamesFlag,
		seed:  *seedFlag,
		cfg: domain.GameConfig{
			PointsToWin:    cfg.PointsToWin,
			StickTheDealer: cfg.StickTheDealer || *stickFlag,
			NoTrumpAlone:   cfg.NoTrumpAlone || *noTrumpAloneFlag,
		},
		owner:    domain.BotDifficulty(*ownerFlag),
		botLimit: cfg.BotLoopLimit,
	}
	if !opts.owner.Valid() {
		fmt.Fprintf(os.Stderr, "unknown owner difficulty %q\n", *ownerFlag)
		os.Exit(2)
	}
	levels := strings.Split(*botsFlag, ",")
	if len(levels) != len(opts.bots) {
		fmt.Fprintf(os.Stderr, "usage: -bots needs three difficulties, got %q\n", *botsFlag)
		os.Exit(2)
	}
	for i, l := range levels {
		opts.bots[i] = domain.BotDifficulty(strings.TrimSpace(l))
		if !opts.bots[i].Valid() {
			fmt.Fprintf(os.Stderr, "unknown bot difficulty %q\n", l)
			os.Exit(2)
		}
	}

	pterm.DefaultSection.Println("Euchre bot simulation")
	pterm.Info.Printfln("%d games to %d points, stick the dealer %v, seat 0 %s, seats 1-3 %s",
		opts.games, opts.cfg.PointsToWin, opts.cfg.StickTheDealer, opts.owner, *botsFlag)

	totals, failures := run(context.Background(), opts, *workersFlag, newSlogLogger(logger))
	printTally(opts, totals)
	if failures > 0 {
		pterm.Error.Printfln("%d games did not finish", failures)
		os.Exit(1)
	}
}

type gameResult struct {
	winner domain.Team
	scores [2]int
	hands  []domain.HandResult
}

type tally struct {
	games      int
	wins       [2]int
	hands      int
	alone      int
	aloneMarch int
	euchres    int
	marches    int
}

func (t *tally) add(res gameResult) {
	t.games++
	t.wins[res.winner.Index()]++
	for _, h := range res.hands {
		t.hands++
		callers := domain.TeamOf(h.CalledBySeat)
		switch {
		case h.PointsToTeam != callers:
			t.euchres++
		case h.WentAlone && h.PointsAwarded == 4:
			t.aloneMarch++
		case h.PointsAwarded == 2:
			t.marches++
		}
		if h.WentAlone {
			t.alone++
		}
	}
}

// run plays opts.games games on a pool of workers. Each game gets its own room and store.
func run(ctx context.Context, opts simOptions, workers int, logger *slogLogger) (tally, int) {
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int)
	results := make(chan error)
	var (
		mu sync.Mutex
		t  tally
		wg sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range jobs {
				res, err := playGame(ctx, opts, n, logger.WithField("game", n))
				if err == nil {
					mu.Lock()
					t.add(res)
					mu.Unlock()
				}
				results <- err
			}
		}()
	}
	go func() {
		for n := 0; n < opts.games; n++ {
			jobs <- n
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	progress, _ := pterm.DefaultProgressbar.WithTotal(opts.games).WithTitle("Playing").Start()
	failures := 0
	for err := range results {
		if err != nil {
			failures++
			logger.Error("%v", err)
		}
		if progress != nil {
			progress.Increment()
		}
	}
	if progress != nil {
		_, _ = progress.Stop()
	}
	return t, failures
}

// playGame seats a policy-driven owner and three bots, then drives the owner until the game ends.
func playGame(ctx context.Context, opts simOptions, n int, logger runtime.Logger) (gameResult, error) {
	seed := opts.seed + int64(n)
	store := memstore.New()
	rm := room.New(room.Options{
		Service:      app.NewService(rand.New(rand.NewSource(seed))),
		Identity:     simIdentity{},
		Games:        store,
		Snapshots:    store,
		Outbox:       discardOutbox{},
		Logger:       logger,
		Rng:          rand.New(rand.NewSource(seed + 1)),
		BotLoopLimit: opts.botLimit,
	})

	created, err := rm.Create(ctx, room.CreateRequest{PlayerID: ownerID, DisplayName: "Owner", Config: opts.cfg})
	if err != nil {
		return gameResult{}, fmt.Errorf("game %d: create: %w", n, err)
	}
	sessionID := fmt.Sprintf("sim-%d", n)
	if _, err := rm.Connect(ctx, ownerID, sessionID); err != nil {
		return gameResult{}, fmt.Errorf("game %d: connect: %w", n, err)
	}
	for i, difficulty := range opts.bots {
		seat := domain.Seat(i + 1)
		if err := rm.HandleMessage(ctx, sessionID, room.ClientMessage{Type: room.MsgAddBot, Seat: &seat, Difficulty: difficulty}); err != nil {
			return gameResult{}, fmt.Errorf("game %d: add bot %d: %w", n, seat, err)
		}
	}
	if err := rm.HandleMessage(ctx, sessionID, room.ClientMessage{Type: room.MsgStartGame}); err != nil {
		return gameResult{}, fmt.Errorf("game %d: start: %w", n, err)
	}

	brain, err := bot.NewBrain(opts.owner, rand.New(rand.NewSource(seed+2)))
	if err != nil {
		return gameResult{}, err
	}
	for {
		st := rm.State()
		if st.Phase == domain.PhaseGameOver {
			winner, _ := st.Winner()
			return gameResult{winner: winner, scores: st.Scores, hands: store.Hands(created.GameID)}, nil
		}
		turn, ok := app.CurrentTurn(st)
		if !ok || turn != app.OwnerSeat {
			return gameResult{}, fmt.Errorf("game %d (seed %d): stalled in phase %s", n, seed, st.Phase)
		}
		a, err := brain.Decide(st, app.OwnerSeat)
		if err != nil {
			return gameResult{}, fmt.Errorf("game %d: decide: %w", n, err)
		}
		if err := rm.HandleMessage(ctx, sessionID, room.ClientMessage{Type: room.MsgAction, Action: &a}); err != nil {
			return gameResult{}, fmt.Errorf("game %d: %s rejected: %w", n, a.Type, err)
		}
	}
}

func printTally(opts simOptions, t tally) {
	if t.games == 0 {
		pterm.Warning.Println("No games finished.")
		return
	}
	lineup := func(seats ...int) string {
		names := make([]string, 0, len(seats))
		for _, s := range seats {
			d := opts.owner
			if s > 0 {
				d = opts.bots[s-1]
			}
			names = append(names, fmt.Sprintf("%d:%s", s, d))
		}
		return strings.Join(names, " ")
	}
	rate := func(n int) string { return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(t.games)) }

	_ = pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Team", "Seats", "Wins", "Win rate"},
		{"1", lineup(0, 2), fmt.Sprint(t.wins[0]), rate(t.wins[0])},
		{"2", lineup(1, 3), fmt.Sprint(t.wins[1]), rate(t.wins[1])},
	}).Render()

	_ = pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Games", "Hands", "Hands/game", "Euchres", "Marches", "Alone", "Alone sweeps"},
		{
			fmt.Sprint(t.games),
			fmt.Sprint(t.hands),
			fmt.Sprintf("%.1f", float64(t.hands)/float64(t.games)),
			fmt.Sprint(t.euchres),
			fmt.Sprint(t.marches),
			fmt.Sprint(t.alone),
			fmt.Sprint(t.aloneMarch),
		},
	}).Render()
}

// simIdentity treats the token as the player id.
type simIdentity struct{}

func (simIdentity) Resolve(_ context.Context, token string) (ports.Identity, error) {
	if token == "" {
		return ports.Identity{}, fmt.Errorf("empty token")
	}
	return ports.Identity{PlayerID: token, DisplayName: token}, nil
}

type discardOutbox struct{}

func (discardOutbox) Deliver([]string, room.Message) {}
