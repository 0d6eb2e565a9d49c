package nakama

import (
	"euchre/internal/room"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// matchLabel renders the listing label, e.g. {"game":"euchre","invite":"ABC234","open":3,"phase":"waiting"}.
func matchLabel(s room.Summary) (string, error) {
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":   "euchre",
		"open":   s.OpenSeats,
		"phase":  string(s.Phase),
		"invite": s.InviteCode,
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}
