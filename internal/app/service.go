package app

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"euchre/internal/domain"
)

// Service contains Euchre use-cases operating on domain state.
//
// Seating methods validate fully before touching the state they are given.
// StartGame, Apply and NextHand never modify their input; they return a new state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// NewGame creates a waiting game with the creator in seat 0.
func (s *Service) NewGame(gameID, creatorID, creatorName string, cfg domain.GameConfig) (*domain.GameState, error) {
	if gameID == "" || creatorID == "" {
		return nil, ErrInvalidGameInput
	}
	if cfg.PointsToWin <= 0 {
		cfg.PointsToWin = domain.DefaultPointsToWin
	}

	g := &domain.GameState{
		GameID:     gameID,
		InviteCode: s.InviteCode(),
		CreatedBy:  creatorID,
		Phase:      domain.PhaseWaiting,
		Config:     cfg,
		History:    []domain.HandResult{},
	}
	for i := range g.Players {
		g.Players[i] = domain.EmptySlot(domain.Seat(i))
	}
	g.Players[OwnerSeat] = domain.PlayerSlot{
		Seat:          OwnerSeat,
		PlayerID:      creatorID,
		DisplayName:   creatorName,
		BotDifficulty: domain.BotMedium,
	}
	return g, nil
}

// InviteCode draws a fresh code from the service rng.
func (s *Service) InviteCode() string {
	var b strings.Builder
	for i := 0; i < InviteCodeLength; i++ {
		b.WriteByte(InviteAlphabet[s.rng.Intn(len(InviteAlphabet))])
	}
	return b.String()
}

// AddPlayer seats a human. A player already seated gets their existing seat back,
// in any phase. preferred is honored when that seat is free.
func (s *Service) AddPlayer(g *domain.GameState, playerID, displayName string, preferred *domain.Seat) (domain.Seat, error) {
	if playerID == "" {
		return 0, ErrMissingPlayerID
	}
	if seat, ok := g.SeatOf(playerID); ok {
		return seat, nil
	}
	if g.Phase != domain.PhaseWaiting {
		return 0, ErrGameInProgress
	}
	if preferred != nil && !preferred.Valid() {
		return 0, ErrInvalidSeat
	}

	seat, ok := domain.Seat(0), false
	if preferred != nil && !g.Players[*preferred].Occupied() {
		seat, ok = *preferred, true
	}
	if !ok {
		seat, ok = domain.FirstOpenSeat(&g.Players)
	}
	if !ok {
		return 0, ErrGameFull
	}

	g.Players[seat] = domain.PlayerSlot{
		Seat:          seat,
		PlayerID:      playerID,
		DisplayName:   displayName,
		BotDifficulty: domain.BotMedium,
	}
	return seat, nil
}

// RemovePlayer frees a human's seat while the game is still waiting.
func (s *Service) RemovePlayer(g *domain.GameState, playerID string) (domain.Seat, error) {
	seat, ok := g.SeatOf(playerID)
	if !ok {
		return 0, ErrUnknownPlayer
	}
	if g.Phase != domain.PhaseWaiting {
		return 0, ErrNotInLobby
	}
	g.Players[seat] = domain.EmptySlot(seat)
	return seat, nil
}

// AddBot puts a bot of the given difficulty in an empty seat. An empty difficulty means medium.
func (s *Service) AddBot(g *domain.GameState, seat domain.Seat, difficulty domain.BotDifficulty, name string) error {
	if !seat.Valid() {
		return ErrInvalidSeat
	}
	if difficulty == "" {
		difficulty = domain.BotMedium
	}
	if !difficulty.Valid() {
		return ErrInvalidBotLevel
	}
	if g.Phase != domain.PhaseWaiting {
		return ErrNotInLobby
	}
	if g.Players[seat].Occupied() {
		return ErrSeatOccupied
	}
	g.Players[seat] = domain.PlayerSlot{
		Seat:          seat,
		DisplayName:   name,
		IsBot:         true,
		BotDifficulty: difficulty,
		Connected:     true,
	}
	return nil
}

// RemoveBot empties a bot seat while the game is waiting.
func (s *Service) RemoveBot(g *domain.GameState, seat domain.Seat) error {
	if !seat.Valid() {
		return ErrInvalidSeat
	}
	if g.Phase != domain.PhaseWaiting {
		return ErrNotInLobby
	}
	if !g.Players[seat].IsBot {
		return ErrNotABot
	}
	g.Players[seat] = domain.EmptySlot(seat)
	return nil
}

// StartGame deals the first hand with a uniformly random dealer.
func (s *Service) StartGame(g *domain.GameState) (*domain.GameState, []Event, error) {
	if g.Phase != domain.PhaseWaiting {
		return nil, nil, ErrGameInProgress
	}
	if !g.AllSeatsFilled() {
		return nil, nil, ErrSeatsNotFilled
	}
	next := g.Clone()
	dealer := domain.Seat(s.rng.Intn(domain.NumSeats))
	events := s.dealHand(next, dealer)
	return next, events, nil
}

// NextHand deals the following hand with the dealer moved one seat clockwise.
func (s *Service) NextHand(g *domain.GameState) (*domain.GameState, []Event, error) {
	if g.Phase != domain.PhaseHandOver || g.Hand == nil {
		return nil, nil, ErrHandNotOver
	}
	next := g.Clone()
	events := s.dealHand(next, g.Hand.DealerSeat.Next())
	return next, events, nil
}

// Apply validates and applies one bidding, discard or play action by seat.
// On error the input is untouched and no state is returned.
func (s *Service) Apply(g *domain.GameState, seat domain.Seat, action Action) (*domain.GameState, []Event, error) {
	if err := action.Validate(); err != nil {
		return nil, nil, err
	}
	turn, ok := CurrentTurn(g)
	if !ok {
		return nil, nil, ErrNoTurn
	}
	if turn != seat {
		return nil, nil, fmt.Errorf("%w: seat %d acted but seat %d is expected", ErrNotYourTurn, seat, turn)
	}

	next := g.Clone()
	var (
		events []Event
		err    error
	)
	switch g.Phase {
	case domain.PhaseTrumpRound1:
		events, err = s.bidRoundOne(next, seat, action)
	case domain.PhaseTrumpRound2:
		events, err = s.bidRoundTwo(next, seat, action)
	case domain.PhaseDiscard:
		events, err = discard(next, seat, action)
	case domain.PhasePlaying:
		events, err = playCard(next, seat, action)
	default:
		err = ErrWrongPhase
	}
	if err != nil {
		return nil, nil, err
	}
	return next, events, nil
}

// dealHand replaces the current hand. The hand number only advances once a hand is scored,
// so a misdeal redeal keeps its number.
func (s *Service) dealHand(g *domain.GameState, dealer domain.Seat) []Event {
	hands, kitty := domain.Deal(s.rng)
	flipped := kitty[0]

	g.Phase = domain.PhaseTrumpRound1
	g.Hand = &domain.HandState{
		HandNumber:      len(g.History) + 1,
		DealerSeat:      dealer,
		Hands:           hands,
		Kitty:           kitty,
		FlippedCard:     &flipped,
		CurrentTrick:    domain.Trick{LeadSeat: dealer.Next(), Cards: []domain.Play{}},
		CompletedTricks: []domain.Trick{},
	}
	g.TrumpCall = &domain.TrumpCallState{
		Round:       1,
		CurrentSeat: dealer.Next(),
		FlippedCard: flipped,
		PassedSeats: []domain.Seat{},
	}
	return []Event{HandStarted{HandNumber: g.Hand.HandNumber, DealerSeat: dealer, FlippedCard: flipped}}
}

func (s *Service) bidRoundOne(g *domain.GameState, seat domain.Seat, a Action) ([]Event, error) {
	tc, h := g.TrumpCall, g.Hand
	if a.Type == ActionPass {
		tc.PassedSeats = append(tc.PassedSeats, seat)
		events := []Event{TrumpPassed{Seat: seat, Round: 1}}
		if len(tc.PassedSeats) < domain.NumSeats {
			tc.CurrentSeat = seat.Next()
			return events, nil
		}
		tc.Round = 2
		tc.PassedSeats = []domain.Seat{}
		tc.CurrentSeat = h.DealerSeat.Next()
		g.Phase = domain.PhaseTrumpRound2
		return append(events, BiddingRoundAdvanced{Round: 2, CurrentSeat: tc.CurrentSeat}), nil
	}

	isCall, alone := a.call()
	if !isCall || a.Type == ActionCallTrump {
		return nil, ErrWrongPhase
	}
	suit := tc.FlippedCard.Suit
	if a.Suit != nil && *a.Suit != suit {
		return nil, fmt.Errorf("%w: round one can only order up %s", ErrIllegalAction, suit)
	}
	if alone && g.Config.NoTrumpAlone {
		return nil, ErrAloneNotAllowed
	}

	settleTrump(g, seat, suit, alone)

	// The dealer takes the turned card; the discard returns one card to the kitty.
	dealer := h.DealerSeat
	h.Hands[dealer] = append(h.Hands[dealer], tc.FlippedCard)
	h.Kitty = domain.RemoveCard(h.Kitty, tc.FlippedCard)
	h.FlippedCard = nil
	g.TrumpCall = nil
	g.Phase = domain.PhaseDiscard

	return []Event{
		TrumpCalled{Seat: seat, Suit: suit, Alone: alone},
		DealerDiscard{Seat: dealer},
	}, nil
}

func (s *Service) bidRoundTwo(g *domain.GameState, seat domain.Seat, a Action) ([]Event, error) {
	tc, h := g.TrumpCall, g.Hand
	if a.Type == ActionPass {
		if g.Config.StickTheDealer && seat == h.DealerSeat {
			return nil, ErrDealerMustCall
		}
		tc.PassedSeats = append(tc.PassedSeats, seat)
		events := []Event{TrumpPassed{Seat: seat, Round: 2}}
		if len(tc.PassedSeats) < domain.NumSeats {
			tc.CurrentSeat = seat.Next()
			return events, nil
		}
		next := h.DealerSeat.Next()
		events = append(events, Misdeal{PreviousDealer: h.DealerSeat, NextDealer: next})
		return append(events, s.dealHand(g, next)...), nil
	}

	isCall, alone := a.call()
	if !isCall || a.Type == ActionOrderUp {
		return nil, ErrWrongPhase
	}
	if a.Suit == nil {
		return nil, ErrMissingSuit
	}
	suit := *a.Suit
	if suit == tc.FlippedCard.Suit {
		return nil, ErrTurnedDownSuit
	}
	if alone && g.Config.NoTrumpAlone {
		return nil, ErrAloneNotAllowed
	}

	settleTrump(g, seat, suit, alone)
	g.TrumpCall = nil
	g.Phase = domain.PhasePlaying
	lead := startFirstTrick(h)

	return []Event{
		TrumpCalled{Seat: seat, Suit: suit, Alone: alone},
		PlayStarted{LeadSeat: lead},
	}, nil
}

func settleTrump(g *domain.GameState, seat domain.Seat, suit domain.Suit, alone bool) {
	h := g.Hand
	h.TrumpSuit = &suit
	caller := seat
	h.CalledBySeat = &caller
	if alone {
		partner := seat.Partner()
		h.GoingAlone = true
		h.AloneSeat = &caller
		h.SkippedSeat = &partner
	}
}

func discard(g *domain.GameState, seat domain.Seat, a Action) ([]Event, error) {
	if a.Type != ActionDiscard {
		return nil, ErrWrongPhase
	}
	h := g.Hand
	if !domain.ContainsCard(h.Hands[seat], *a.Card) {
		return nil, ErrCardNotInHand
	}
	h.Hands[seat] = domain.RemoveCard(h.Hands[seat], *a.Card)
	h.Kitty = append(h.Kitty, *a.Card)
	g.Phase = domain.PhasePlaying
	lead := startFirstTrick(h)

	return []Event{DealerDiscarded{Seat: seat}, PlayStarted{LeadSeat: lead}}, nil
}

// startFirstTrick puts the lead left of the dealer, passing over a loner's partner.
func startFirstTrick(h *domain.HandState) domain.Seat {
	lead := h.DealerSeat.Next()
	if h.Skipped(lead) {
		lead = lead.Next()
	}
	h.CurrentTrick = domain.Trick{LeadSeat: lead, Cards: []domain.Play{}}
	return lead
}

func playCard(g *domain.GameState, seat domain.Seat, a Action) ([]Event, error) {
	if a.Type != ActionPlayCard {
		return nil, ErrWrongPhase
	}
	h := g.Hand
	trump, _ := h.Trump()
	card := *a.Card
	hand := h.Hands[seat]
	if !domain.ContainsCard(hand, card) {
		return nil, ErrCardNotInHand
	}
	if !domain.IsLegalPlay(card, hand, domain.LedSuit(h.CurrentTrick, trump), trump) {
		return nil, ErrMustFollowSuit
	}

	h.Hands[seat] = domain.RemoveCard(hand, card)
	h.CurrentTrick.Cards = append(h.CurrentTrick.Cards, domain.Play{Seat: seat, Card: card})
	events := []Event{CardPlayed{Seat: seat, Card: card}}

	if len(h.CurrentTrick.Cards) < h.PlayersPerTrick() {
		return events, nil
	}

	winner, err := domain.TrickWinner(h.CurrentTrick.Cards, trump)
	if err != nil {
		return nil, err
	}
	team := domain.TeamOf(winner)
	h.CurrentTrick.WinningSeat = &winner
	h.TricksWon[team.Index()]++
	h.CompletedTricks = append(h.CompletedTricks, h.CurrentTrick)
	events = append(events, TrickWon{Seat: winner, Team: team})

	if len(h.CompletedTricks) >= domain.TricksPerHand {
		return append(events, finishHand(g)...), nil
	}

	lead := winner
	if h.Skipped(lead) {
		lead = lead.Next()
	}
	h.CurrentTrick = domain.Trick{LeadSeat: lead, Cards: []domain.Play{}}
	return events, nil
}

func finishHand(g *domain.GameState) []Event {
	h := g.Hand
	trump, _ := h.Trump()
	caller := *h.CalledBySeat
	points, team := domain.HandPoints(h.TricksWon, domain.TeamOf(caller), h.GoingAlone)
	g.Scores[team.Index()] += points

	result := domain.HandResult{
		HandNumber:    h.HandNumber,
		DealerSeat:    h.DealerSeat,
		TrumpSuit:     trump,
		CalledBySeat:  caller,
		WentAlone:     h.GoingAlone,
		TricksTeam1:   h.TricksWon[0],
		TricksTeam2:   h.TricksWon[1],
		PointsAwarded: points,
		PointsToTeam:  team,
	}
	g.History = append(g.History, result)
	g.Phase = domain.PhaseHandOver

	events := []Event{HandFinished{Result: result}, ScoreUpdated{Scores: g.Scores}}
	if winner, over := g.Winner(); over {
		g.Phase = domain.PhaseGameOver
		events = append(events, GameFinished{Winner: winner, Scores: g.Scores})
	}
	return events
}
