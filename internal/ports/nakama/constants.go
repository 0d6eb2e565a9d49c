package nakama

import "euchre/internal/room"

const (
	RpcCreateGame   = "create_game"
	RpcJoinGame     = "join_game"
	RpcResumeGame   = "resume_game"
	RpcListGames    = "list_games"
	RpcSessionToken = "session_token"
	RpcPlayerStats  = "player_stats"

	// MatchNameEuchre is the authoritative match handler name registered with Nakama.
	MatchNameEuchre = "euchre_match"
)

// Op codes for client messages and server events. Every frame is JSON and also
// carries its type, so the op code only lets clients route without decoding.
const (
	// Client -> Server
	OpAction    int64 = 1
	OpStartGame int64 = 2
	OpAddBot    int64 = 3
	OpRemoveBot int64 = 4
	OpPing      int64 = 5
	OpChat      int64 = 6

	// Server -> Client events
	OpGameState     int64 = 101
	OpPlayerJoined  int64 = 102
	OpPlayerLeft    int64 = 103
	OpTrumpRound    int64 = 104
	OpTrumpCalled   int64 = 105
	OpTrumpPassed   int64 = 106
	OpDealerDiscard int64 = 107
	OpCardPlayed    int64 = 108
	OpTrickWon      int64 = 109
	OpHandResult    int64 = 110
	OpScoreUpdate   int64 = 111
	OpGameOver      int64 = 112
	OpYourTurn      int64 = 113 // send privately
	OpError         int64 = 114 // send privately
	OpPong          int64 = 115 // send privately
	OpChatMessage   int64 = 116
)

var clientOpTypes = map[int64]room.MessageType{
	OpAction:    room.MsgAction,
	OpStartGame: room.MsgStartGame,
	OpAddBot:    room.MsgAddBot,
	OpRemoveBot: room.MsgRemoveBot,
	OpPing:      room.MsgPing,
	OpChat:      room.MsgChat,
}

var serverOpCodes = map[room.MessageType]int64{
	room.MsgGameState:     OpGameState,
	room.MsgPlayerJoined:  OpPlayerJoined,
	room.MsgPlayerLeft:    OpPlayerLeft,
	room.MsgTrumpRound:    OpTrumpRound,
	room.MsgTrumpCalled:   OpTrumpCalled,
	room.MsgTrumpPassed:   OpTrumpPassed,
	room.MsgDealerDiscard: OpDealerDiscard,
	room.MsgCardPlayed:    OpCardPlayed,
	room.MsgTrickWon:      OpTrickWon,
	room.MsgHandResult:    OpHandResult,
	room.MsgScoreUpdate:   OpScoreUpdate,
	room.MsgGameOver:      OpGameOver,
	room.MsgYourTurn:      OpYourTurn,
	room.MsgError:         OpError,
	room.MsgPong:          OpPong,
	room.MsgChat:          OpChatMessage,
}

// Match params passed from the RPCs to MatchInit.
const (
	paramGameID      = "game_id"
	paramCreatorID   = "creator_id"
	paramCreatorName = "creator_name"
	paramConfig      = "config"
	paramRestore     = "restore"
)

// Join attempt metadata key holding the session token issued by the RPCs.
const metadataToken = "token"

// Storage collections. Game-scoped objects are owned by the system user.
const (
	collectionGames       = "euchre_games"
	collectionInvites     = "euchre_invites"
	collectionHands       = "euchre_hands"
	collectionSnapshots   = "euchre_snapshots"
	collectionPlayerGames = "euchre_player_games"
	collectionStats       = "euchre_stats"
	statsKey              = "stats"
)

// gRPC status codes used for runtime.NewError.
const (
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codePermissionDenied   = 7
	codeFailedPrecondition = 9
	codeAborted            = 10
	codeInternal           = 13
	codeUnauthenticated    = 16
)
