package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"euchre/internal/app"
	"euchre/internal/domain"
	"euchre/internal/ports"
	"euchre/internal/room"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcCreateGame:   rpcCreateGame,
		RpcJoinGame:     rpcJoinGame,
		RpcResumeGame:   rpcResumeGame,
		RpcListGames:    rpcListGames,
		RpcSessionToken: rpcSessionToken,
		RpcPlayerStats:  rpcPlayerStats,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}

// GameTicket is returned by the game RPCs. Clients join MatchID with Token in the join metadata.
type GameTicket struct {
	GameID     string      `json:"gameId"`
	MatchID    string      `json:"matchId"`
	InviteCode string      `json:"inviteCode,omitempty"`
	Seat       domain.Seat `json:"seat"`
	Token      string      `json:"token"`
}

type createGameRequest struct {
	PointsToWin    int   `json:"pointsToWin"`
	StickTheDealer *bool `json:"stickTheDealer"`
	NoTrumpAlone   *bool `json:"noTrumpAlone"`
}

// rpcCreateGame starts a match hosting a new game with the caller in seat 0.
//
// Payload: {"pointsToWin":10,"stickTheDealer":false,"noTrumpAlone":false}, all optional.
// Returns: GameTicket.
func rpcCreateGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req createGameRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}

	cfg := domain.GameConfig{
		PointsToWin:    moduleConfig.PointsToWin,
		StickTheDealer: moduleConfig.StickTheDealer,
		NoTrumpAlone:   moduleConfig.NoTrumpAlone,
	}
	if req.PointsToWin > 0 {
		cfg.PointsToWin = req.PointsToWin
	}
	if req.StickTheDealer != nil {
		cfg.StickTheDealer = *req.StickTheDealer
	}
	if req.NoTrumpAlone != nil {
		cfg.NoTrumpAlone = *req.NoTrumpAlone
	}
	cfgJSON, _ := json.Marshal(cfg)

	name := callerName(ctx, nk, userID)
	gameID := uuid.NewString()
	matchID, err := nk.MatchCreate(ctx, MatchNameEuchre, map[string]interface{}{
		paramGameID:      gameID,
		paramCreatorID:   userID,
		paramCreatorName: name,
		paramConfig:      string(cfgJSON),
	})
	if err != nil {
		logger.Error("RpcCreateGame [User:%s]: Failed to create match: %v", userID, err)
		return "", runtime.NewError("failed to create game", codeInternal)
	}

	resp, err := signalMatch(ctx, nk, matchID, signalRequest{Op: signalSummary})
	if err != nil {
		logger.Error("RpcCreateGame [User:%s]: Failed to read match %s: %v", userID, matchID, err)
		return "", err
	}
	token, err := issueToken(userID, name)
	if err != nil {
		logger.Error("RpcCreateGame [User:%s]: Failed to issue token: %v", userID, err)
		return "", err
	}

	logger.Info("RpcCreateGame [User:%s]: Created game %s in match %s", userID, gameID, matchID)
	return encodeResponse(GameTicket{
		GameID:     gameID,
		MatchID:    matchID,
		InviteCode: resp.Summary.InviteCode,
		Seat:       app.OwnerSeat,
		Token:      token,
	})
}

type joinGameRequest struct {
	InviteCode string       `json:"inviteCode"`
	Seat       *domain.Seat `json:"seat"`
}

// rpcJoinGame seats the caller in a game found by invite code. Once play has started
// only members get an answer, carrying their original seat.
//
// Payload: {"inviteCode":"ABC234","seat":2}, seat optional.
// Returns: GameTicket.
func rpcJoinGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req joinGameRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	code := strings.ToUpper(strings.TrimSpace(req.InviteCode))
	if code == "" {
		return "", runtime.NewError("inviteCode is required", codeInvalidArgument)
	}

	record, err := NewNakamaStorageAdapter(nk).GameByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", runtime.NewError("game not found", codeNotFound)
		}
		logger.Error("RpcJoinGame [User:%s]: Failed to look up invite %s: %v", userID, code, err)
		return "", runtime.NewError("failed to join game", codeInternal)
	}

	name := callerName(ctx, nk, userID)
	resp, err := signalMatch(ctx, nk, record.MatchID, signalRequest{
		Op:          signalJoin,
		PlayerID:    userID,
		DisplayName: name,
		Seat:        req.Seat,
	})
	if err != nil {
		logger.Warn("RpcJoinGame [User:%s]: Join of %s refused: %v", userID, record.GameID, err)
		return "", err
	}
	token, err := issueToken(userID, name)
	if err != nil {
		return "", err
	}

	logger.Info("RpcJoinGame [User:%s]: Seated at %d in game %s", userID, *resp.Seat, record.GameID)
	return encodeResponse(GameTicket{
		GameID:     record.GameID,
		MatchID:    record.MatchID,
		InviteCode: record.InviteCode,
		Seat:       *resp.Seat,
		Token:      token,
	})
}

type resumeGameRequest struct {
	GameID string `json:"gameId"`
}

// rpcResumeGame returns a ticket back into one of the caller's unfinished games,
// bringing its match back from the last snapshot if the match is gone.
//
// Payload: {"gameId":"..."}
// Returns: GameTicket.
func rpcResumeGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req resumeGameRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	if req.GameID == "" {
		return "", runtime.NewError("gameId is required", codeInvalidArgument)
	}

	store := NewNakamaStorageAdapter(nk)
	record, err := store.GameByID(ctx, req.GameID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", runtime.NewError("game not found", codeNotFound)
		}
		logger.Error("RpcResumeGame [User:%s]: Failed to read game %s: %v", userID, req.GameID, err)
		return "", runtime.NewError("failed to resume game", codeInternal)
	}
	if record.Status == ports.GameStatusCompleted {
		return "", runtime.NewError("game is over", codeFailedPrecondition)
	}
	if !containsID(record.PlayerIDs, userID) {
		return "", runtime.NewError(room.ErrNotInGame.Error(), codePermissionDenied)
	}

	matchID := record.MatchID
	if match, err := nk.MatchGet(ctx, matchID); err != nil || match == nil {
		matchID, err = nk.MatchCreate(ctx, MatchNameEuchre, map[string]interface{}{paramRestore: record.GameID})
		if err != nil {
			logger.Error("RpcResumeGame [User:%s]: Failed to restore game %s: %v", userID, record.GameID, err)
			return "", runtime.NewError("failed to resume game", codeInternal)
		}
		if err := store.SetMatchID(ctx, record.GameID, matchID); err != nil {
			logger.Warn("RpcResumeGame [User:%s]: Failed to record match %s for game %s: %v", userID, matchID, record.GameID, err)
		}
		logger.Info("RpcResumeGame [User:%s]: Restored game %s into match %s", userID, record.GameID, matchID)
	}

	resp, err := signalMatch(ctx, nk, matchID, signalRequest{Op: signalJoin, PlayerID: userID})
	if err != nil {
		return "", err
	}
	token, err := issueToken(userID, callerName(ctx, nk, userID))
	if err != nil {
		return "", err
	}
	return encodeResponse(GameTicket{
		GameID:     record.GameID,
		MatchID:    matchID,
		InviteCode: record.InviteCode,
		Seat:       *resp.Seat,
		Token:      token,
	})
}

type listGamesRequest struct {
	Active *bool `json:"active"`
	Limit  int   `json:"limit"`
}

type listGamesResponse struct {
	Games []ports.GameRecord `json:"games"`
}

// rpcListGames lists the caller's games, unfinished ones unless active is false.
//
// Payload: {"active":true,"limit":20}, both optional.
func rpcListGames(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req listGamesRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	active := req.Active == nil || *req.Active
	limit := moduleConfig.ListGamesLimit
	if req.Limit > 0 && req.Limit < limit {
		limit = req.Limit
	}

	games, err := NewNakamaStorageAdapter(nk).ListPlayerGames(ctx, userID, active, limit)
	if err != nil {
		logger.Error("RpcListGames [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to list games", codeInternal)
	}
	return encodeResponse(listGamesResponse{Games: games})
}

type sessionTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// rpcSessionToken issues a fresh match credential for the caller.
func rpcSessionToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	token, err := issueToken(userID, callerName(ctx, nk, userID))
	if err != nil {
		logger.Error("RpcSessionToken [User:%s]: %v", userID, err)
		return "", err
	}
	return encodeResponse(sessionTokenResponse{Token: token, ExpiresIn: int64(moduleConfig.TokenTTL().Seconds())})
}

// rpcPlayerStats returns the caller's game counters.
func rpcPlayerStats(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	stats, err := NewNakamaStorageAdapter(nk).PlayerStats(ctx, userID)
	if errors.Is(err, ports.ErrNotFound) {
		stats, err = ports.PlayerStats{PlayerID: userID}, nil
	}
	if err != nil {
		logger.Error("RpcPlayerStats [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to read stats", codeInternal)
	}
	return encodeResponse(stats)
}

func callerID(ctx context.Context) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", codeUnauthenticated)
	}
	return userID, nil
}

// callerName prefers the account name, then the session username.
func callerName(ctx context.Context, nk runtime.NakamaModule, userID string) string {
	if nk != nil {
		if name, err := NewNakamaAccountAdapter(nk).DisplayName(ctx, userID); err == nil && name != "" {
			return name
		}
	}
	if name, _ := ctx.Value(runtime.RUNTIME_CTX_USERNAME).(string); name != "" {
		return name
	}
	return userID
}

func issueToken(userID, name string) (string, error) {
	if tokenService == nil {
		return "", runtime.NewError("session tokens are not configured", codeFailedPrecondition)
	}
	token, err := tokenService.Issue(userID, name)
	if err != nil {
		return "", runtime.NewError("failed to issue token", codeInternal)
	}
	return token, nil
}

// signalMatch sends req to the match and turns an error reply into a runtime error.
func signalMatch(ctx context.Context, nk runtime.NakamaModule, matchID string, req signalRequest) (signalResponse, error) {
	data, _ := json.Marshal(req)
	raw, err := nk.MatchSignal(ctx, matchID, string(data))
	if err != nil {
		return signalResponse{}, runtime.NewError("game is not running", codeNotFound)
	}
	var resp signalResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return signalResponse{}, runtime.NewError("bad reply from game", codeInternal)
	}
	if resp.Error != "" {
		return signalResponse{}, runtime.NewError(resp.Error, resp.Code)
	}
	if (req.Op == signalJoin && resp.Seat == nil) || (req.Op == signalSummary && resp.Summary == nil) {
		return signalResponse{}, runtime.NewError("bad reply from game", codeInternal)
	}
	return resp, nil
}

// errorCode maps domain error categories onto gRPC status codes.
func errorCode(err error) int {
	switch {
	case errors.Is(err, app.ErrValidation):
		return codeInvalidArgument
	case errors.Is(err, app.ErrConflict):
		return codeAborted
	case errors.Is(err, app.ErrNotYourTurn), errors.Is(err, app.ErrIllegalAction):
		return codeFailedPrecondition
	case errors.Is(err, room.ErrNoGame):
		return codeNotFound
	case errors.Is(err, room.ErrInvalidAuth):
		return codeUnauthenticated
	case errors.Is(err, room.ErrNotInGame):
		return codePermissionDenied
	}
	return codeInternal
}

func decodePayload(payload string, v interface{}) error {
	if strings.TrimSpace(payload) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return runtime.NewError("invalid payload", codeInvalidArgument)
	}
	return nil
}

func encodeResponse(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", runtime.NewError("failed to encode response", codeInternal)
	}
	return string(b), nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
