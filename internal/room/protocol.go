package room

import (
	"encoding/json"
	"fmt"
	"strings"

	"euchre/internal/app"
	"euchre/internal/domain"
)

// MessageType tags every frame on the real-time channel.
type MessageType string

// Client to server.
const (
	MsgAction    MessageType = "action"
	MsgStartGame MessageType = "start_game"
	MsgAddBot    MessageType = "add_bot"
	MsgRemoveBot MessageType = "remove_bot"
	MsgPing      MessageType = "ping"
	// MsgChat travels both ways.
	MsgChat MessageType = "chat"
)

// Server to client.
const (
	MsgGameState     MessageType = "game_state"
	MsgPlayerJoined  MessageType = "player_joined"
	MsgPlayerLeft    MessageType = "player_left"
	MsgTrumpRound    MessageType = "trump_round"
	MsgTrumpCalled   MessageType = "trump_called"
	MsgTrumpPassed   MessageType = "trump_passed"
	MsgDealerDiscard MessageType = "dealer_discard"
	MsgCardPlayed    MessageType = "card_played"
	MsgTrickWon      MessageType = "trick_won"
	MsgHandResult    MessageType = "hand_result"
	MsgScoreUpdate   MessageType = "score_update"
	MsgGameOver      MessageType = "game_over"
	MsgYourTurn      MessageType = "your_turn"
	MsgError         MessageType = "error"
	MsgPong          MessageType = "pong"
)

// maxChatLength bounds chat text in runes.
const maxChatLength = 500

// ClientMessage is one decoded inbound frame. Fields not used by Type are ignored.
type ClientMessage struct {
	Type       MessageType          `json:"type"`
	Action     *app.Action          `json:"action,omitempty"`
	Seat       *domain.Seat         `json:"seat,omitempty"`
	Difficulty domain.BotDifficulty `json:"difficulty,omitempty"`
	Message    string               `json:"message,omitempty"`
	Ts         int64                `json:"ts,omitempty"`
}

// DecodeClientMessage parses and validates an inbound frame. Every error wraps app.ErrValidation.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("%w: malformed message: %v", app.ErrValidation, err)
	}
	if err := msg.Validate(); err != nil {
		return ClientMessage{}, err
	}
	return msg, nil
}

// Validate checks the fields each message type needs.
func (m ClientMessage) Validate() error {
	switch m.Type {
	case MsgAction:
		if m.Action == nil {
			return fmt.Errorf("%w: action is required", app.ErrValidation)
		}
		return m.Action.Validate()
	case MsgAddBot, MsgRemoveBot:
		if m.Seat == nil || !m.Seat.Valid() {
			return app.ErrInvalidSeat
		}
		if m.Type == MsgAddBot && m.Difficulty != "" && !m.Difficulty.Valid() {
			return app.ErrInvalidBotLevel
		}
	case MsgChat:
		text := strings.TrimSpace(m.Message)
		if text == "" {
			return fmt.Errorf("%w: chat message is empty", app.ErrValidation)
		}
		if len([]rune(text)) > maxChatLength {
			return fmt.Errorf("%w: chat message is too long", app.ErrValidation)
		}
	case MsgStartGame, MsgPing:
	default:
		return fmt.Errorf("%w: unknown message type %q", app.ErrValidation, m.Type)
	}
	return nil
}

// Message is an outbound frame. Encoding it yields {"type": ..., fields...}.
type Message interface {
	Type() MessageType
}

type envelope struct {
	Kind MessageType `json:"type"`
}

func (e envelope) Type() MessageType { return e.Kind }

type GameStateMessage struct {
	envelope
	State app.ClientState `json:"state"`
}

type PlayerJoinedMessage struct {
	envelope
	Seat        domain.Seat `json:"seat"`
	DisplayName string      `json:"displayName"`
	IsBot       bool        `json:"isBot"`
}

type PlayerLeftMessage struct {
	envelope
	Seat domain.Seat `json:"seat"`
}

type TrumpRoundMessage struct {
	envelope
	Round       int         `json:"round"`
	CurrentSeat domain.Seat `json:"currentSeat"`
	FlippedCard domain.Card `json:"flippedCard"`
}

type TrumpCalledMessage struct {
	envelope
	Seat  domain.Seat `json:"seat"`
	Suit  domain.Suit `json:"suit"`
	Alone bool        `json:"alone"`
}

type TrumpPassedMessage struct {
	envelope
	Seat domain.Seat `json:"seat"`
}

type DealerDiscardMessage struct {
	envelope
	DealerSeat domain.Seat `json:"dealerSeat"`
}

type CardPlayedMessage struct {
	envelope
	Seat domain.Seat `json:"seat"`
	Card domain.Card `json:"card"`
}

type TrickWonMessage struct {
	envelope
	Seat domain.Seat `json:"seat"`
	Team domain.Team `json:"team"`
}

type HandResultMessage struct {
	envelope
	Result domain.HandResult `json:"result"`
}

type ScoreUpdateMessage struct {
	envelope
	Scores [2]int `json:"scores"`
}

type GameOverMessage struct {
	envelope
	WinningTeam domain.Team `json:"winningTeam"`
	Scores      [2]int      `json:"scores"`
}

type YourTurnMessage struct {
	envelope
	app.TurnOptions
}

type ErrorMessage struct {
	envelope
	Message string `json:"message"`
}

type ChatMessage struct {
	envelope
	Seat        domain.Seat `json:"seat"`
	DisplayName string      `json:"displayName"`
	Message     string      `json:"message"`
}

type PongMessage struct {
	envelope
	Ts int64 `json:"ts"`
}

func on(t MessageType) envelope { return envelope{Kind: t} }

// NewErrorMessage builds an error frame for rejections that never reach a Room.
func NewErrorMessage(err error) ErrorMessage {
	return ErrorMessage{on(MsgError), err.Error()}
}

// EncodeMessage renders an outbound frame as JSON.
func EncodeMessage(m Message) ([]byte, error) {
	return json.Marshal(m)
}

// eventMessage maps an engine event to the frame broadcast for it. Events that
// only change what game_state shows return nil.
func eventMessage(ev app.Event) Message {
	switch e := ev.(type) {
	case app.TrumpPassed:
		return TrumpPassedMessage{on(MsgTrumpPassed), e.Seat}
	case app.TrumpCalled:
		return TrumpCalledMessage{on(MsgTrumpCalled), e.Seat, e.Suit, e.Alone}
	case app.DealerDiscard:
		return DealerDiscardMessage{on(MsgDealerDiscard), e.Seat}
	case app.CardPlayed:
		return CardPlayedMessage{on(MsgCardPlayed), e.Seat, e.Card}
	case app.TrickWon:
		return TrickWonMessage{on(MsgTrickWon), e.Seat, e.Team}
	case app.HandFinished:
		return HandResultMessage{on(MsgHandResult), e.Result}
	case app.ScoreUpdated:
		return ScoreUpdateMessage{on(MsgScoreUpdate), e.Scores}
	case app.GameFinished:
		return GameOverMessage{on(MsgGameOver), e.Winner, e.Scores}
	}
	return nil
}
