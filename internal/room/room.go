// Package room coordinates one Euchre game: it is the only writer of that game's state
// and fans every accepted change out to the connected sessions.
package room

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"euchre/internal/app"
	"euchre/internal/bot"
	"euchre/internal/config"
	"euchre/internal/domain"
	"euchre/internal/ports"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

// Outbox delivers frames to live sessions. Delivery must not call back into the Room.
type Outbox interface {
	Deliver(sessionIDs []string, msg Message)
}

// Options wires a Room. Games and Snapshots may be nil, in which case nothing is persisted.
type Options struct {
	Service   *app.Service
	Identity  ports.IdentityPort
	Games     ports.GameStore
	Snapshots ports.SnapshotStore
	Outbox    Outbox
	Logger    runtime.Logger
	// Rng drives the easy bots. A nil Rng is seeded from the clock.
	Rng *rand.Rand
	// BotLoopLimit caps bot actions within one deal. Zero means config.DefaultBotLoopLimit.
	BotLoopLimit int
}

type session struct {
	playerID string
	seat     domain.Seat
}

// Room owns exactly one game. All exported methods are safe for concurrent use and
// are applied one at a time.
type Room struct {
	mu sync.Mutex

	svc       *app.Service
	identity  ports.IdentityPort
	games     ports.GameStore
	snapshots ports.SnapshotStore
	outbox    Outbox
	logger    runtime.Logger
	rng       *rand.Rand
	botLimit  int

	game     *domain.GameState
	sessions map[string]session
	brains   map[domain.BotDifficulty]bot.Brain
	// botActions counts bot moves in the current deal.
	botActions int
}

func New(opts Options) *Room {
	if opts.Service == nil {
		opts.Service = app.NewService(nil)
	}
	if opts.Rng == nil {
		opts.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.BotLoopLimit <= 0 {
		opts.BotLoopLimit = config.DefaultBotLoopLimit
	}
	return &Room{
		svc:       opts.Service,
		identity:  opts.Identity,
		games:     opts.Games,
		snapshots: opts.Snapshots,
		outbox:    opts.Outbox,
		logger:    opts.Logger,
		rng:       opts.Rng,
		botLimit:  opts.BotLoopLimit,
		sessions:  make(map[string]session),
		brains:    make(map[domain.BotDifficulty]bot.Brain),
	}
}

type CreateRequest struct {
	// GameID is generated when empty.
	GameID      string
	MatchID     string
	PlayerID    string
	DisplayName string
	Config      domain.GameConfig
}

type CreateResult struct {
	GameID     string      `json:"gameId"`
	InviteCode string      `json:"inviteCode"`
	Seat       domain.Seat `json:"seat"`
}

// Create initializes the game with the requester in seat 0.
func (r *Room) Create(ctx context.Context, req CreateRequest) (CreateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.game != nil {
		return CreateResult{}, ErrAlreadyCreated
	}
	if req.GameID == "" {
		req.GameID = uuid.NewString()
	}
	g, err := r.svc.NewGame(req.GameID, req.PlayerID, req.DisplayName, req.Config)
	if err != nil {
		return CreateResult{}, err
	}
	r.game = g

	if r.games != nil {
		record := ports.GameRecord{
			GameID:     g.GameID,
			MatchID:    req.MatchID,
			InviteCode: g.InviteCode,
			CreatedBy:  req.PlayerID,
			Status:     ports.GameStatusWaiting,
			Config:     g.Config,
			PlayerIDs:  []string{req.PlayerID},
			CreatedAt:  time.Now().UTC(),
		}
		if err := r.games.CreateGame(ctx, record); err != nil {
			r.logger.Error("Room: Failed to store game record %s: %v", g.GameID, err)
		}
	}
	r.saveSnapshot(ctx)
	r.logger.Info("Room: Created game %s (invite %s) for %s", g.GameID, g.InviteCode, req.PlayerID)

	return CreateResult{GameID: g.GameID, InviteCode: g.InviteCode, Seat: app.OwnerSeat}, nil
}

type JoinRequest struct {
	PlayerID      string
	DisplayName   string
	PreferredSeat *domain.Seat
}

// Join seats a player. Once play has started only existing members get an answer: their original seat.
func (r *Room) Join(ctx context.Context, req JoinRequest) (domain.Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.game == nil {
		return 0, ErrNoGame
	}
	if seat, ok := r.game.SeatOf(req.PlayerID); ok {
		return seat, nil
	}
	seat, err := r.svc.AddPlayer(r.game, req.PlayerID, req.DisplayName, req.PreferredSeat)
	if err != nil {
		return 0, err
	}

	if r.games != nil {
		if err := r.games.AddParticipant(ctx, r.game.GameID, req.PlayerID); err != nil {
			r.logger.Warn("Room: Failed to record participant %s: %v", req.PlayerID, err)
		}
	}
	r.saveSnapshot(ctx)
	r.broadcast(PlayerJoinedMessage{on(MsgPlayerJoined), seat, req.DisplayName, false})
	r.logger.Debug("Room: Player %s joined seat %d", req.PlayerID, seat)
	return seat, nil
}

type ConnectResult struct {
	PlayerID string
	Seat     domain.Seat
	// Replaced lists sessions of the same player that are now obsolete; the transport should close them.
	Replaced []string
}

// Authorize resolves token to a seat without changing anything.
func (r *Room) Authorize(ctx context.Context, token string) (ports.Identity, domain.Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.authorize(ctx, token)
}

func (r *Room) authorize(ctx context.Context, token string) (ports.Identity, domain.Seat, error) {
	if r.game == nil {
		return ports.Identity{}, 0, ErrNoGame
	}
	if r.identity == nil {
		return ports.Identity{}, 0, ErrInvalidAuth
	}
	id, err := r.identity.Resolve(ctx, token)
	if err != nil {
		return ports.Identity{}, 0, fmt.Errorf("%w: %v", ErrInvalidAuth, err)
	}
	seat, ok := r.game.SeatOf(id.PlayerID)
	if !ok {
		return ports.Identity{}, 0, ErrNotInGame
	}
	return id, seat, nil
}

// Connect attaches a live session to the seat owned by the token's player, then sends
// it the current state and, when that seat is on turn, its options.
func (r *Room) Connect(ctx context.Context, token, sessionID string) (ConnectResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, seat, err := r.authorize(ctx, token)
	if err != nil {
		return ConnectResult{}, err
	}

	var replaced []string
	for sid, s := range r.sessions {
		if s.playerID == id.PlayerID && sid != sessionID {
			replaced = append(replaced, sid)
			delete(r.sessions, sid)
		}
	}
	sort.Strings(replaced)

	r.sessions[sessionID] = session{playerID: id.PlayerID, seat: seat}
	r.game.Players[seat].Connected = true
	r.saveSnapshot(ctx)

	r.deliver([]string{sessionID}, GameStateMessage{on(MsgGameState), app.ClientView(r.game, seat)})
	if turn, ok := app.CurrentTurn(r.game); ok && turn == seat {
		r.deliver([]string{sessionID}, YourTurnMessage{on(MsgYourTurn), app.ValidActions(r.game, seat)})
	}
	r.logger.Debug("Room: Player %s connected on seat %d (replaced %d)", id.PlayerID, seat, len(replaced))
	return ConnectResult{PlayerID: id.PlayerID, Seat: seat, Replaced: replaced}, nil
}

// Disconnect detaches a session. The seat stays taken; it only shows as disconnected.
// Sessions already replaced by a newer connection are ignored.
func (r *Room) Disconnect(ctx context.Context, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || r.game == nil {
		return
	}
	delete(r.sessions, sessionID)
	r.game.Players[s.seat].Connected = false
	r.saveSnapshot(ctx)
	r.broadcast(PlayerLeftMessage{on(MsgPlayerLeft), s.seat})
	r.logger.Debug("Room: Player %s disconnected from seat %d", s.playerID, s.seat)
}

// Restore replaces the in-memory game with the stored snapshot. Sessions are not restored,
// so every human seat starts out disconnected. Play picks up where the snapshot stopped:
// a finished hand is dealt on and bots on turn act.
func (r *Room) Restore(ctx context.Context, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snapshots == nil {
		return ErrNoGame
	}
	data, err := r.snapshots.LoadSnapshot(ctx, gameID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrNoGame
		}
		return err
	}
	g, err := decodeSnapshot(data)
	if err != nil {
		return err
	}
	for i := range g.Players {
		if !g.Players[i].IsBot {
			g.Players[i].Connected = false
		}
	}
	r.game = g
	r.sessions = make(map[string]session)
	r.botActions = 0

	if r.game.Phase == domain.PhaseHandOver {
		dealt, events, err := r.svc.NextHand(r.game)
		if err != nil {
			return err
		}
		r.commit(ctx, dealt, events)
	}
	r.runBots(ctx)
	return nil
}

// State returns a copy of the full, unredacted game state, or nil before Create.
func (r *Room) State() *domain.GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Clone()
}

// Summary is the public listing information for the room.
type Summary struct {
	GameID     string       `json:"gameId"`
	InviteCode string       `json:"inviteCode"`
	Phase      domain.Phase `json:"phase"`
	OpenSeats  int          `json:"open"`
	Humans     int          `json:"humans"`
	Connected  int          `json:"connected"`
	Scores     [2]int       `json:"scores"`
}

func (r *Room) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.game == nil {
		return Summary{}
	}
	s := Summary{
		GameID:     r.game.GameID,
		InviteCode: r.game.InviteCode,
		Phase:      r.game.Phase,
		Scores:     r.game.Scores,
		Connected:  len(r.sessions),
	}
	for _, p := range r.game.Players {
		switch {
		case !p.Occupied():
			s.OpenSeats++
		case !p.IsBot:
			s.Humans++
		}
	}
	return s
}
