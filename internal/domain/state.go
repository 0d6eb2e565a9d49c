package domain

// Phase represents the lifecycle stage of a Euchre game.
type Phase string

const (
	// PhaseWaiting is the lobby state where seats are filled.
	PhaseWaiting Phase = "waiting"
	// PhaseTrumpRound1 is bidding on the flipped card (pass or order up).
	PhaseTrumpRound1 Phase = "trump_round1"
	// PhaseTrumpRound2 is bidding on any suit except the turned-down one.
	PhaseTrumpRound2 Phase = "trump_round2"
	// PhaseDiscard is the dealer shedding one card after a round-1 pickup.
	PhaseDiscard Phase = "discard"
	// PhasePlaying is trick play.
	PhasePlaying Phase = "playing"
	// PhaseHandOver is the pause between a scored hand and the next deal.
	PhaseHandOver Phase = "hand_over"
	// PhaseGameOver is terminal.
	PhaseGameOver Phase = "game_over"
)

// Bidding reports whether the phase is one of the two trump rounds.
func (p Phase) Bidding() bool {
	return p == PhaseTrumpRound1 || p == PhaseTrumpRound2
}

// Suit is a card suit.
type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Suits lists the four suits in canonical order.
var Suits = [4]Suit{Hearts, Diamonds, Clubs, Spades}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	switch s {
	case Hearts, Diamonds, Clubs, Spades:
		return true
	}
	return false
}

// Rank is a card rank. Only 9 through ace are in a Euchre deck.
type Rank string

const (
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

// Ranks lists ranks in ascending natural order.
var Ranks = [6]Rank{Nine, Ten, Jack, Queen, King, Ace}

// Value returns the natural rank value, 1 (nine) through 6 (ace). Unknown ranks are 0.
func (r Rank) Value() int {
	for i, rank := range Ranks {
		if rank == r {
			return i + 1
		}
	}
	return 0
}

// Card is a single playing card.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// Valid reports whether the card exists in a Euchre deck.
func (c Card) Valid() bool {
	return c.Suit.Valid() && c.Rank.Value() > 0
}

func (c Card) String() string {
	return string(c.Rank) + " of " + string(c.Suit)
}

// BotDifficulty selects the bot policy tier.
type BotDifficulty string

const (
	BotEasy   BotDifficulty = "easy"
	BotMedium BotDifficulty = "medium"
	BotHard   BotDifficulty = "hard"
)

// Valid reports whether d names a known tier.
func (d BotDifficulty) Valid() bool {
	return d == BotEasy || d == BotMedium || d == BotHard
}

// PlayerSlot is the occupancy of one seat. A slot is empty, human or bot.
type PlayerSlot struct {
	Seat          Seat          `json:"seat"`
	PlayerID      string        `json:"playerId,omitempty"` // empty for bots and empty seats
	DisplayName   string        `json:"displayName"`
	IsBot         bool          `json:"isBot"`
	BotDifficulty BotDifficulty `json:"botDifficulty"`
	Connected     bool          `json:"connected"`
}

// Occupied reports whether a human or a bot holds the seat.
func (p PlayerSlot) Occupied() bool {
	return p.PlayerID != "" || p.IsBot
}

// GameConfig carries the per-game rule options.
type GameConfig struct {
	PointsToWin    int  `json:"pointsToWin"`
	StickTheDealer bool `json:"stickTheDealer"`
	NoTrumpAlone   bool `json:"noTrumpAlone"`
}

// TrumpCallState exists only while trump is being bid.
type TrumpCallState struct {
	Round       int    `json:"round"` // 1 or 2
	CurrentSeat Seat   `json:"currentSeat"`
	FlippedCard Card   `json:"flippedCard"`
	PassedSeats []Seat `json:"passedSeats"`
}

// Play is one card laid on a trick.
type Play struct {
	Seat Seat `json:"seat"`
	Card Card `json:"card"`
}

// Trick is the cards played toward one trick, in play order.
type Trick struct {
	LeadSeat    Seat   `json:"leadSeat"`
	Cards       []Play `json:"cards"`
	WinningSeat *Seat  `json:"winningSeat"`
}

// HandState is the state of one deal.
type HandState struct {
	HandNumber      int       `json:"handNumber"`
	DealerSeat      Seat      `json:"dealerSeat"`
	TrumpSuit       *Suit     `json:"trumpSuit"`
	CalledBySeat    *Seat     `json:"calledBySeat"`
	GoingAlone      bool      `json:"goingAlone"`
	AloneSeat       *Seat     `json:"aloneSeat"`
	SkippedSeat     *Seat     `json:"skippedSeat"`
	Hands           [4][]Card `json:"hands"`
	Kitty           []Card    `json:"kitty"`
	FlippedCard     *Card     `json:"flippedCard"`
	CurrentTrick    Trick     `json:"currentTrick"`
	CompletedTricks []Trick   `json:"completedTricks"`
	TricksWon       [2]int    `json:"tricksWon"` // index 0 = team 1
}

// Trump returns the settled trump suit, or false while bidding is open.
func (h *HandState) Trump() (Suit, bool) {
	if h == nil || h.TrumpSuit == nil {
		return "", false
	}
	return *h.TrumpSuit, true
}

// Skipped reports whether seat sits out this hand as the loner's partner.
func (h *HandState) Skipped(seat Seat) bool {
	return h != nil && h.SkippedSeat != nil && *h.SkippedSeat == seat
}

// PlayersPerTrick is 3 when someone is going alone, otherwise 4.
func (h *HandState) PlayersPerTrick() int {
	if h.GoingAlone {
		return 3
	}
	return 4
}

// HandResult is the immutable record of a finished hand.
type HandResult struct {
	HandNumber    int  `json:"handNumber"`
	DealerSeat    Seat `json:"dealerSeat"`
	TrumpSuit     Suit `json:"trumpSuit"`
	CalledBySeat  Seat `json:"calledBySeat"`
	WentAlone     bool `json:"wentAlone"`
	TricksTeam1   int  `json:"tricksTeam1"`
	TricksTeam2   int  `json:"tricksTeam2"`
	PointsAwarded int  `json:"pointsAwarded"`
	PointsToTeam  Team `json:"pointsToTeam"`
}

// GameState is the authoritative state of one game.
type GameState struct {
	GameID     string          `json:"gameId"`
	InviteCode string          `json:"inviteCode"`
	CreatedBy  string          `json:"createdBy"`
	Phase      Phase           `json:"phase"`
	Players    [4]PlayerSlot   `json:"players"`
	Scores     [2]int          `json:"scores"` // index 0 = team 1
	Config     GameConfig      `json:"config"`
	Hand       *HandState      `json:"hand"`
	TrumpCall  *TrumpCallState `json:"trumpCall"`
	History    []HandResult    `json:"history"`
}

// SeatOf returns the seat held by the given player identity.
func (g *GameState) SeatOf(playerID string) (Seat, bool) {
	if playerID == "" {
		return 0, false
	}
	for _, p := range g.Players {
		if p.PlayerID == playerID {
			return p.Seat, true
		}
	}
	return 0, false
}

// AllSeatsFilled reports whether every seat holds a human or a bot.
func (g *GameState) AllSeatsFilled() bool {
	for _, p := range g.Players {
		if !p.Occupied() {
			return false
		}
	}
	return true
}

// Winner returns the team that reached the target score.
func (g *GameState) Winner() (Team, bool) {
	switch {
	case g.Scores[0] >= g.Config.PointsToWin:
		return Team1, true
	case g.Scores[1] >= g.Config.PointsToWin:
		return Team2, true
	}
	return 0, false
}

// Clone returns a deep copy; mutating the copy never affects g.
func (g *GameState) Clone() *GameState {
	if g == nil {
		return nil
	}
	out := *g
	out.History = cloneSlice(g.History)
	if g.TrumpCall != nil {
		tc := *g.TrumpCall
		tc.PassedSeats = cloneSlice(g.TrumpCall.PassedSeats)
		out.TrumpCall = &tc
	}
	if g.Hand != nil {
		out.Hand = g.Hand.clone()
	}
	return &out
}

func (h *HandState) clone() *HandState {
	out := *h
	out.TrumpSuit = clonePtr(h.TrumpSuit)
	out.CalledBySeat = clonePtr(h.CalledBySeat)
	out.AloneSeat = clonePtr(h.AloneSeat)
	out.SkippedSeat = clonePtr(h.SkippedSeat)
	out.FlippedCard = clonePtr(h.FlippedCard)
	for i := range h.Hands {
		out.Hands[i] = cloneSlice(h.Hands[i])
	}
	out.Kitty = cloneSlice(h.Kitty)
	out.CurrentTrick = h.CurrentTrick.clone()
	out.CompletedTricks = cloneSlice(h.CompletedTricks)
	for i, t := range out.CompletedTricks {
		out.CompletedTricks[i] = t.clone()
	}
	return &out
}

func (t Trick) clone() Trick {
	t.Cards = cloneSlice(t.Cards)
	t.WinningSeat = clonePtr(t.WinningSeat)
	return t
}

// cloneSlice keeps nil and empty distinct so snapshots round-trip unchanged.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
