package nakama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode   int64
	data     []byte
	sessions []string
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	sent         []sentMessage
	kicked       []string
	labelUpdates int
	lastLabel    string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	msg := sentMessage{opCode: opCode, data: append([]byte(nil), data...)}
	for _, p := range presences {
		msg.sessions = append(msg.sessions, p.GetSessionId())
	}
	md.sent = append(md.sent, msg)
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	for _, p := range presences {
		md.kicked = append(md.kicked, p.GetSessionId())
	}
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	md.lastLabel = compactJSON(label)
	return nil
}

// compactJSON strips the whitespace protojson may add so labels compare byte for byte.
func compactJSON(s string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

func (md *mockDispatcher) withOp(opCode int64) []sentMessage {
	var out []sentMessage
	for _, m := range md.sent {
		if m.opCode == opCode {
			out = append(out, m)
		}
	}
	return out
}

type fakePresence struct {
	runtime.Presence
	userID    string
	sessionID string
}

func (p fakePresence) GetUserId() string    { return p.userID }
func (p fakePresence) GetSessionId() string { return p.sessionID }
func (p fakePresence) GetUsername() string  { return p.userID }

type fakeMatchData struct {
	runtime.MatchData
	from   fakePresence
	opCode int64
	data   []byte
}

func (d fakeMatchData) GetUserId() string    { return d.from.userID }
func (d fakeMatchData) GetSessionId() string { return d.from.sessionID }
func (d fakeMatchData) GetOpCode() int64     { return d.opCode }
func (d fakeMatchData) GetData() []byte      { return d.data }

var _ runtime.MatchData = fakeMatchData{}

type storageKey struct {
	collection, key, userID string
}

// fakeNakama implements the storage and match calls this package makes. Matches run
// in-process through matchHandler; every other NakamaModule method panics.
type fakeNakama struct {
	runtime.NakamaModule

	objects     map[storageKey]*api.StorageObject
	version     int
	handler     *matchHandler
	matches     map[string]interface{}
	dispatchers map[string]*mockDispatcher
	names       map[string]string
	nextMatch   int
	failWrites  bool
}

func newFakeNakama() *fakeNakama {
	return &fakeNakama{
		objects:     make(map[storageKey]*api.StorageObject),
		handler:     &matchHandler{},
		matches:     make(map[string]interface{}),
		dispatchers: make(map[string]*mockDispatcher),
		names:       make(map[string]string),
	}
}

func (f *fakeNakama) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	var out []*api.StorageObject
	for _, r := range reads {
		if obj, ok := f.objects[storageKey{r.Collection, r.Key, r.UserID}]; ok {
			cp := *obj
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeNakama) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	acks, _, err := f.MultiUpdate(ctx, nil, writes, nil, nil, false)
	return acks, err
}

func (f *fakeNakama) StorageList(ctx context.Context, callerID, userID, collection string, limit int, cursor string) ([]*api.StorageObject, string, error) {
	var out []*api.StorageObject
	for k, obj := range f.objects {
		if k.collection == collection && k.userID == userID {
			cp := *obj
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, "", nil
}

// MultiUpdate checks every version before applying any write.
func (f *fakeNakama) MultiUpdate(ctx context.Context, accountUpdates []*runtime.AccountUpdate, storageWrites []*runtime.StorageWrite, storageDeletes []*runtime.StorageDelete, walletUpdates []*runtime.WalletUpdate, updateLedger bool) ([]*api.StorageObjectAck, []*runtime.WalletUpdateResult, error) {
	if f.failWrites {
		return nil, nil, errors.New("storage unavailable")
	}
	for _, w := range storageWrites {
		existing, ok := f.objects[storageKey{w.Collection, w.Key, w.UserID}]
		switch {
		case w.Version == "":
		case w.Version == "*" && ok:
			return nil, nil, runtime.ErrStorageRejectedVersion
		case w.Version != "*" && (!ok || existing.Version != w.Version):
			return nil, nil, runtime.ErrStorageRejectedVersion
		}
	}
	var acks []*api.StorageObjectAck
	for _, w := range storageWrites {
		f.version++
		obj := &api.StorageObject{
			Collection: w.Collection,
			Key:        w.Key,
			UserId:     w.UserID,
			Value:      w.Value,
			Version:    strconv.Itoa(f.version),
		}
		f.objects[storageKey{w.Collection, w.Key, w.UserID}] = obj
		acks = append(acks, &api.StorageObjectAck{Collection: w.Collection, Key: w.Key, UserId: w.UserID, Version: obj.Version})
	}
	return acks, nil, nil
}

func (f *fakeNakama) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	if module != MatchNameEuchre {
		return "", fmt.Errorf("unknown module %s", module)
	}
	f.nextMatch++
	id := fmt.Sprintf("match-%d.node", f.nextMatch)
	ctx = context.WithValue(ctx, runtime.RUNTIME_CTX_MATCH_ID, id)
	state, _, label := f.handler.MatchInit(ctx, noopLogger{}, nil, f, params)
	if state == nil {
		return "", errors.New("match init failed")
	}
	f.matches[id] = state
	f.dispatchers[id] = &mockDispatcher{lastLabel: compactJSON(label)}
	return id, nil
}

func (f *fakeNakama) MatchGet(ctx context.Context, id string) (*api.Match, error) {
	if _, ok := f.matches[id]; !ok {
		return nil, nil
	}
	return &api.Match{MatchId: id, Authoritative: true}, nil
}

func (f *fakeNakama) MatchSignal(ctx context.Context, id string, data string) (string, error) {
	state, ok := f.matches[id]
	if !ok {
		return "", errors.New("match not found")
	}
	next, result := f.handler.MatchSignal(ctx, noopLogger{}, nil, f, f.dispatchers[id], 0, state, data)
	f.matches[id] = next
	return result, nil
}

func (f *fakeNakama) AccountGetId(ctx context.Context, userID string) (*api.Account, error) {
	return &api.Account{User: &api.User{Id: userID, Username: "user-" + userID, DisplayName: f.names[userID]}}, nil
}

func (f *fakeNakama) state(matchID string) *MatchState {
	return f.matches[matchID].(*MatchState)
}

func (f *fakeNakama) AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error {
	if f.failWrites {
		return errors.New("accounts unavailable")
	}
	if displayName != "" {
		f.names[userID] = displayName
	}
	return nil
}
