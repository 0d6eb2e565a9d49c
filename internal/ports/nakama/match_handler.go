package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"euchre/internal/app"
	"euchre/internal/domain"
	"euchre/internal/room"

	"github.com/heroiclabs/nakama-common/runtime"
)

// tickRate is how often queued client frames are processed.
const tickRate = 5

// idleTicksBeforeTerminate ends a finished match nobody is watching after one minute.
const idleTicksBeforeTerminate = 60 * tickRate

// MatchState holds the runtime state for one Euchre match. The room owns the game;
// the match only maps Nakama presences onto room sessions.
type MatchState struct {
	Room   *room.Room
	Outbox *presenceOutbox
	// Tokens holds join-attempt credentials until MatchJoin connects the session.
	Tokens    map[string]string
	Label     string
	IdleTicks int
}

type matchHandler struct{}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

// newMatchState wires a room to Nakama storage and the module token service.
func newMatchState(logger runtime.Logger, nk runtime.NakamaModule) *MatchState {
	outbox := newPresenceOutbox(logger)
	opts := room.Options{
		Service:      app.NewService(nil),
		Outbox:       outbox,
		Logger:       logger,
		BotLoopLimit: moduleConfig.BotLoopLimit,
	}
	if tokenService != nil {
		opts.Identity = tokenService
	}
	if nk != nil {
		store := NewNakamaStorageAdapter(nk)
		opts.Games = store
		opts.Snapshots = store
	}
	return &MatchState{
		Room:   room.New(opts),
		Outbox: outbox,
		Tokens: make(map[string]string),
	}
}

// MatchInit creates the room, or restores it from its last snapshot when params name a game to resume.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")
	state := newMatchState(logger, nk)
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	if gameID, _ := params[paramRestore].(string); gameID != "" {
		if err := state.Room.Restore(ctx, gameID); err != nil {
			logger.Error("MatchInit: Failed to restore game %s: %v", gameID, err)
			return nil, 0, ""
		}
		logger.Info("MatchInit: Restored game %s into match %s", gameID, matchID)
	} else {
		req, err := createRequestFromParams(params)
		if err != nil {
			logger.Error("MatchInit: Invalid params: %v", err)
			return nil, 0, ""
		}
		req.MatchID = matchID
		if _, err := state.Room.Create(ctx, req); err != nil {
			logger.Error("MatchInit: Failed to create game: %v", err)
			return nil, 0, ""
		}
	}

	label, err := matchLabel(state.Room.Summary())
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	state.Label = label
	return state, tickRate, label
}

func createRequestFromParams(params map[string]interface{}) (room.CreateRequest, error) {
	req := room.CreateRequest{}
	req.GameID, _ = params[paramGameID].(string)
	req.PlayerID, _ = params[paramCreatorID].(string)
	req.DisplayName, _ = params[paramCreatorName].(string)
	if req.PlayerID == "" {
		return req, fmt.Errorf("%s is required", paramCreatorID)
	}
	if raw, _ := params[paramConfig].(string); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Config); err != nil {
			return req, fmt.Errorf("invalid %s: %w", paramConfig, err)
		}
	}
	return req, nil
}

// MatchJoinAttempt admits presences whose token belongs to a seated player.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	token := metadata[metadataToken]
	id, seat, err := matchState.Room.Authorize(ctx, token)
	if err != nil {
		logger.Warn("MatchJoinAttempt: Rejected %s: %v", presence.GetUserId(), err)
		return state, false, err.Error()
	}
	if id.PlayerID != presence.GetUserId() {
		logger.Warn("MatchJoinAttempt: Token for %s presented by %s", id.PlayerID, presence.GetUserId())
		return state, false, room.ErrInvalidAuth.Error()
	}

	matchState.Tokens[presence.GetSessionId()] = token
	logger.Debug("MatchJoinAttempt: %s admitted for seat %d", id.PlayerID, seat)
	return state, true, ""
}

// MatchJoin connects each admitted presence to its seat and kicks any session it replaces.
func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	matchState.Outbox.dispatcher = dispatcher

	for _, p := range presences {
		sessionID := p.GetSessionId()
		token := matchState.Tokens[sessionID]
		delete(matchState.Tokens, sessionID)

		matchState.Outbox.presences[sessionID] = p
		result, err := matchState.Room.Connect(ctx, token, sessionID)
		if err != nil {
			logger.Warn("MatchJoin: Failed to connect %s: %v", p.GetUserId(), err)
			delete(matchState.Outbox.presences, sessionID)
			if err := dispatcher.MatchKick([]runtime.Presence{p}); err != nil {
				logger.Error("MatchJoin: Failed to kick %s: %v", p.GetUserId(), err)
			}
			continue
		}

		var stale []runtime.Presence
		for _, replaced := range result.Replaced {
			if old, ok := matchState.Outbox.presences[replaced]; ok {
				stale = append(stale, old)
				delete(matchState.Outbox.presences, replaced)
			}
		}
		if len(stale) > 0 {
			logger.Info("MatchJoin: %s reconnected, closing %d old session(s)", result.PlayerID, len(stale))
			if err := dispatcher.MatchKick(stale); err != nil {
				logger.Error("MatchJoin: Failed to kick old sessions of %s: %v", result.PlayerID, err)
			}
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave marks seats disconnected. Seats are never freed; the player may come back.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}
	matchState.Outbox.dispatcher = dispatcher

	for _, p := range presences {
		matchState.Room.Disconnect(ctx, p.GetSessionId())
		delete(matchState.Outbox.presences, p.GetSessionId())
		delete(matchState.Tokens, p.GetSessionId())
	}
	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLoop feeds queued client frames to the room in arrival order.
func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLoop: state not found")
		return nil
	}
	matchState.Outbox.dispatcher = dispatcher

	for _, msg := range messages {
		sessionID := msg.GetSessionId()
		clientMsg, err := decodeFrame(msg.GetOpCode(), msg.GetData())
		if err != nil {
			logger.Warn("MatchLoop: Bad frame (op %d) from %s: %v", msg.GetOpCode(), msg.GetUserId(), err)
			matchState.Outbox.Deliver([]string{sessionID}, room.NewErrorMessage(err))
			continue
		}
		if err := matchState.Room.HandleMessage(ctx, sessionID, clientMsg); err != nil {
			if errors.Is(err, room.ErrUnknownSession) {
				logger.Warn("MatchLoop: Frame from unknown session %s", sessionID)
				continue
			}
			logger.Debug("MatchLoop: %s from %s rejected: %v", clientMsg.Type, msg.GetUserId(), err)
		}
	}
	if len(messages) > 0 {
		mh.updateLabel(matchState, dispatcher, logger)
	}

	if shouldTerminate(matchState) {
		logger.Info("MatchLoop: Terminating finished match with no players connected.")
		return nil
	}
	return matchState
}

// shouldTerminate counts idle ticks once the game is over and everyone has left.
func shouldTerminate(state *MatchState) bool {
	summary := state.Room.Summary()
	if summary.Phase != domain.PhaseGameOver || summary.Connected > 0 {
		state.IdleTicks = 0
		return false
	}
	state.IdleTicks++
	return state.IdleTicks >= idleTicksBeforeTerminate
}

// decodeFrame parses a client frame. The op code supplies the type when the payload omits it.
func decodeFrame(opCode int64, data []byte) (room.ClientMessage, error) {
	msgType, ok := clientOpTypes[opCode]
	if !ok {
		return room.ClientMessage{}, fmt.Errorf("%w: unknown op code %d", app.ErrValidation, opCode)
	}
	if len(data) == 0 {
		data = []byte("{}")
	}
	var probe struct {
		Type room.MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return room.ClientMessage{}, fmt.Errorf("%w: malformed message: %v", app.ErrValidation, err)
	}
	switch probe.Type {
	case "":
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return room.ClientMessage{}, fmt.Errorf("%w: message must be an object", app.ErrValidation)
		}
		fields["type"], _ = json.Marshal(msgType)
		data, _ = json.Marshal(fields)
	case msgType:
	default:
		return room.ClientMessage{}, fmt.Errorf("%w: message type %s does not match op code %d", app.ErrValidation, probe.Type, opCode)
	}
	return room.DecodeClientMessage(data)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state.Room.Summary())
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if label == state.Label {
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.Label = label
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminating, grace %d seconds", graceSeconds)
	return state
}

// Signal ops sent by the RPCs through nk.MatchSignal.
const (
	signalJoin    = "join"
	signalSummary = "summary"
)

type signalRequest struct {
	Op          string       `json:"op"`
	PlayerID    string       `json:"player_id,omitempty"`
	DisplayName string       `json:"display_name,omitempty"`
	Seat        *domain.Seat `json:"seat,omitempty"`
}

type signalResponse struct {
	Seat    *domain.Seat  `json:"seat,omitempty"`
	Summary *room.Summary `json:"summary,omitempty"`
	Error   string        `json:"error,omitempty"`
	// Code carries the gRPC status the RPC should answer with when Error is set.
	Code int `json:"code,omitempty"`
}

// MatchSignal serves seat reservations and summaries to the RPC layer.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, ""
	}
	matchState.Outbox.dispatcher = dispatcher

	var req signalRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return matchState, signalReply(signalResponse{Error: "malformed signal", Code: codeInvalidArgument})
	}

	switch req.Op {
	case signalJoin:
		seat, err := matchState.Room.Join(ctx, room.JoinRequest{
			PlayerID:      req.PlayerID,
			DisplayName:   req.DisplayName,
			PreferredSeat: req.Seat,
		})
		if err != nil {
			logger.Debug("MatchSignal: Join by %s refused: %v", req.PlayerID, err)
			return matchState, signalReply(signalResponse{Error: err.Error(), Code: errorCode(err)})
		}
		mh.updateLabel(matchState, dispatcher, logger)
		return matchState, signalReply(signalResponse{Seat: &seat})
	case signalSummary:
		summary := matchState.Room.Summary()
		return matchState, signalReply(signalResponse{Summary: &summary})
	}
	return matchState, signalReply(signalResponse{Error: "unknown signal " + req.Op, Code: codeInvalidArgument})
}

func signalReply(resp signalResponse) string {
	b, _ := json.Marshal(resp)
	return string(b)
}
