package nakama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"euchre/internal/app"
	"euchre/internal/domain"
	"euchre/internal/room"

	"github.com/heroiclabs/nakama-common/runtime"
)

func useTokenService(t *testing.T) {
	t.Helper()
	tokenService = app.NewTokenService("test-secret", time.Hour)
	t.Cleanup(func() { tokenService = nil })
}

func userCtx(userID string) context.Context {
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, userID)
	return context.WithValue(ctx, runtime.RUNTIME_CTX_USERNAME, "user-"+userID)
}

func decodeTicket(t *testing.T, raw string) GameTicket {
	t.Helper()
	var ticket GameTicket
	if err := json.Unmarshal([]byte(raw), &ticket); err != nil {
		t.Fatalf("unmarshal ticket: %v", err)
	}
	if ticket.MatchID == "" || ticket.Token == "" {
		t.Fatalf("incomplete ticket %s", raw)
	}
	return ticket
}

// joinMatch runs the join attempt and join callbacks for one presence.
func joinMatch(t *testing.T, nk *fakeNakama, matchID string, p fakePresence, token string) bool {
	t.Helper()
	handler := nk.handler
	dispatcher := nk.dispatchers[matchID]
	state, ok, reason := handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nk, dispatcher, 0, nk.matches[matchID], p, map[string]string{metadataToken: token})
	if !ok {
		t.Logf("join attempt of %s rejected: %s", p.userID, reason)
		return false
	}
	nk.matches[matchID] = handler.MatchJoin(context.Background(), noopLogger{}, nil, nk, dispatcher, 0, state, []runtime.Presence{p})
	return true
}

func sendFrame(nk *fakeNakama, matchID string, from fakePresence, opCode int64, payload string) {
	msg := fakeMatchData{from: from, opCode: opCode, data: []byte(payload)}
	nk.matches[matchID] = nk.handler.MatchLoop(context.Background(), noopLogger{}, nil, nk, nk.dispatchers[matchID], 0, nk.matches[matchID], []runtime.MatchData{msg})
}

func frameType(t *testing.T, m sentMessage) room.MessageType {
	t.Helper()
	var probe struct {
		Type room.MessageType `json:"type"`
	}
	if err := json.Unmarshal(m.data, &probe); err != nil {
		t.Fatalf("frame is not JSON: %s", m.data)
	}
	return probe.Type
}

func TestMatchLabel_Marshal(t *testing.T) {
	tests := []struct {
		name     string
		summary  room.Summary
		expected string
	}{
		{
			name:     "Waiting",
			summary:  room.Summary{InviteCode: "ABC234", Phase: domain.PhaseWaiting, OpenSeats: 3},
			expected: `{"game":"euchre","invite":"ABC234","open":3,"phase":"waiting"}`,
		},
		{
			name:     "Playing",
			summary:  room.Summary{InviteCode: "ABC234", Phase: domain.PhasePlaying},
			expected: `{"game":"euchre","invite":"ABC234","open":0,"phase":"playing"}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			label, err := matchLabel(test.summary)
			if err != nil {
				t.Fatalf("Failed to marshal label: %v", err)
			}
			var compact bytes.Buffer
			if err := json.Compact(&compact, []byte(label)); err != nil {
				t.Fatalf("Failed to compact label JSON: %v", err)
			}
			if compact.String() != test.expected {
				t.Errorf("Got %s, want %s", compact.String(), test.expected)
			}
		})
	}
}

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name    string
		opCode  int64
		payload string
		want    room.MessageType
		wantErr bool
	}{
		{"TypeFromOpCode", OpAction, `{"action":{"type":"pass"}}`, room.MsgAction, false},
		{"TypeInPayload", OpChat, `{"type":"chat","message":"hi"}`, room.MsgChat, false},
		{"EmptyPing", OpPing, ``, room.MsgPing, false},
		{"StartGame", OpStartGame, `{}`, room.MsgStartGame, false},
		{"TypeMismatch", OpPing, `{"type":"start_game"}`, "", true},
		{"UnknownOpCode", 99, `{}`, "", true},
		{"NotAnObject", OpAction, `[1,2]`, "", true},
		{"InvalidAction", OpAction, `{"action":{"type":"dance"}}`, "", true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			msg, err := decodeFrame(test.opCode, []byte(test.payload))
			if test.wantErr {
				if !errors.Is(err, app.ErrValidation) {
					t.Fatalf("err = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeFrame: %v", err)
			}
			if msg.Type != test.want {
				t.Fatalf("type = %s, want %s", msg.Type, test.want)
			}
		})
	}
}

func TestMatchFlow_CreateJoinStart(t *testing.T) {
	useTokenService(t)
	nk := newFakeNakama()
	nk.names["u1"] = "Ann"

	raw, err := rpcCreateGame(userCtx("u1"), noopLogger{}, nil, nk, `{"pointsToWin":5}`)
	if err != nil {
		t.Fatalf("create_game: %v", err)
	}
	owner := decodeTicket(t, raw)
	if owner.Seat != 0 || len(owner.InviteCode) != app.InviteCodeLength {
		t.Fatalf("owner ticket = %+v", owner)
	}
	matchID := owner.MatchID
	if st := nk.state(matchID).Room.State(); st.Config.PointsToWin != 5 || st.Players[0].DisplayName != "Ann" {
		t.Fatalf("room after create: config %+v, seat 0 %+v", st.Config, st.Players[0])
	}
	record, err := NewNakamaStorageAdapter(nk).GameByID(context.Background(), owner.GameID)
	if err != nil || record.MatchID != matchID {
		t.Fatalf("stored record = %+v, %v", record, err)
	}

	ann := fakePresence{userID: "u1", sessionID: "s1"}
	if joinMatch(t, nk, matchID, fakePresence{userID: "u1", sessionID: "sx"}, "bogus") {
		t.Fatal("a bad token must be rejected")
	}
	if joinMatch(t, nk, matchID, fakePresence{userID: "u2", sessionID: "sx"}, owner.Token) {
		t.Fatal("a token presented by another user must be rejected")
	}
	if !joinMatch(t, nk, matchID, ann, owner.Token) {
		t.Fatal("owner join rejected")
	}
	dispatcher := nk.dispatchers[matchID]
	states := dispatcher.withOp(OpGameState)
	if len(states) != 1 || states[0].sessions[0] != "s1" {
		t.Fatalf("game_state frames = %+v", states)
	}

	raw, err = rpcJoinGame(userCtx("u2"), noopLogger{}, nil, nk, `{"inviteCode":"`+strings.ToLower(owner.InviteCode)+`","seat":2}`)
	if err != nil {
		t.Fatalf("join_game: %v", err)
	}
	guest := decodeTicket(t, raw)
	if guest.Seat != 2 || guest.MatchID != matchID {
		t.Fatalf("guest ticket = %+v", guest)
	}
	if got := dispatcher.withOp(OpPlayerJoined); len(got) != 1 || got[0].sessions[0] != "s1" {
		t.Fatalf("player_joined frames = %+v", got)
	}
	if !strings.Contains(dispatcher.lastLabel, `"open":2`) {
		t.Fatalf("label not refreshed after join: %s", dispatcher.lastLabel)
	}
	if _, err := rpcJoinGame(userCtx("u3"), noopLogger{}, nil, nk, `{"inviteCode":"ZZZZZZ"}`); err == nil {
		t.Fatal("an unknown invite code should fail")
	}

	bob := fakePresence{userID: "u2", sessionID: "s2"}
	if !joinMatch(t, nk, matchID, bob, guest.Token) {
		t.Fatal("guest join rejected")
	}

	// Only the owner manages bots and starts.
	dispatcher.sent = nil
	sendFrame(nk, matchID, bob, OpStartGame, `{}`)
	errs := dispatcher.withOp(OpError)
	if len(errs) != 1 || errs[0].sessions[0] != "s2" || !strings.Contains(string(errs[0].data), "only the game creator can start") {
		t.Fatalf("error frames = %+v", errs)
	}

	sendFrame(nk, matchID, ann, OpAddBot, `{"seat":1,"difficulty":"easy"}`)
	sendFrame(nk, matchID, ann, OpAddBot, `{"seat":3}`)
	sendFrame(nk, matchID, ann, OpStartGame, ``)

	st := nk.state(matchID).Room.State()
	if st.Phase == domain.PhaseWaiting || st.Phase == domain.PhaseGameOver {
		t.Fatalf("phase = %s after start", st.Phase)
	}
	if !strings.Contains(dispatcher.lastLabel, `"open":0`) || strings.Contains(dispatcher.lastLabel, `"waiting"`) {
		t.Fatalf("label after start = %s", dispatcher.lastLabel)
	}
	stored, _ := NewNakamaStorageAdapter(nk).GameByID(context.Background(), owner.GameID)
	if stored.Status != "active" {
		t.Fatalf("stored status = %s", stored.Status)
	}

	turn, ok := app.CurrentTurn(st)
	if !ok || st.Players[turn].IsBot {
		t.Fatalf("bots should have played until a human turn, turn %d ok %v", turn, ok)
	}
	wantSession := map[domain.Seat]string{0: "s1", 2: "s2"}[turn]
	turns := dispatcher.withOp(OpYourTurn)
	if len(turns) == 0 || turns[len(turns)-1].sessions[0] != wantSession {
		t.Fatalf("your_turn frames = %+v, want last to %s", turns, wantSession)
	}
	for _, m := range turns {
		if frameType(t, m) != room.MsgYourTurn || len(m.sessions) != 1 {
			t.Fatalf("bad your_turn frame %+v", m)
		}
	}
}

func TestMatchFlow_ReconnectAndLeave(t *testing.T) {
	useTokenService(t)
	nk := newFakeNakama()
	raw, err := rpcCreateGame(userCtx("u1"), noopLogger{}, nil, nk, ``)
	if err != nil {
		t.Fatalf("create_game: %v", err)
	}
	ticket := decodeTicket(t, raw)
	matchID := ticket.MatchID

	first := fakePresence{userID: "u1", sessionID: "s1"}
	second := fakePresence{userID: "u1", sessionID: "s1b"}
	joinMatch(t, nk, matchID, first, ticket.Token)
	joinMatch(t, nk, matchID, second, ticket.Token)

	dispatcher := nk.dispatchers[matchID]
	if len(dispatcher.kicked) != 1 || dispatcher.kicked[0] != "s1" {
		t.Fatalf("kicked = %v, want the old session", dispatcher.kicked)
	}
	state := nk.state(matchID)
	if _, ok := state.Outbox.presences["s1"]; ok {
		t.Fatal("old presence still routed")
	}

	// The kicked session leaving afterwards must not mark the seat disconnected.
	nk.matches[matchID] = nk.handler.MatchLeave(context.Background(), noopLogger{}, nil, nk, dispatcher, 0, state, []runtime.Presence{first})
	if !state.Room.State().Players[0].Connected {
		t.Fatal("seat should stay connected through the new session")
	}

	nk.matches[matchID] = nk.handler.MatchLeave(context.Background(), noopLogger{}, nil, nk, dispatcher, 0, state, []runtime.Presence{second})
	st := state.Room.State()
	if st.Players[0].Connected || st.Players[0].PlayerID != "u1" {
		t.Fatalf("seat 0 after leave = %+v", st.Players[0])
	}
	if state.Room.Summary().Connected != 0 {
		t.Fatal("no sessions should remain")
	}
}

func TestMatchLoop_BadFrameGetsError(t *testing.T) {
	useTokenService(t)
	nk := newFakeNakama()
	raw, _ := rpcCreateGame(userCtx("u1"), noopLogger{}, nil, nk, ``)
	ticket := decodeTicket(t, raw)
	p := fakePresence{userID: "u1", sessionID: "s1"}
	joinMatch(t, nk, ticket.MatchID, p, ticket.Token)

	dispatcher := nk.dispatchers[ticket.MatchID]
	dispatcher.sent = nil
	sendFrame(nk, ticket.MatchID, p, OpAction, `{"action":`)
	if errs := dispatcher.withOp(OpError); len(errs) != 1 || errs[0].sessions[0] != "s1" {
		t.Fatalf("error frames = %+v", errs)
	}

	dispatcher.sent = nil
	sendFrame(nk, ticket.MatchID, p, OpPing, `{"ts":7}`)
	pongs := dispatcher.withOp(OpPong)
	if len(pongs) != 1 || string(pongs[0].data) != `{"type":"pong","ts":7}` {
		t.Fatalf("pong frames = %+v", pongs)
	}
}

func TestShouldTerminate(t *testing.T) {
	state := newMatchState(noopLogger{}, nil)
	if _, err := state.Room.Create(context.Background(), room.CreateRequest{GameID: "g", PlayerID: "u1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < idleTicksBeforeTerminate+1; i++ {
		if shouldTerminate(state) {
			t.Fatal("a game that has not finished must never terminate")
		}
	}
}

func TestMatchInit_RejectsMissingCreator(t *testing.T) {
	state, _, _ := (&matchHandler{}).MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{})
	if state != nil {
		t.Fatal("MatchInit without a creator should fail")
	}
}
