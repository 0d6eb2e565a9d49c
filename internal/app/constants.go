package app

const (
	// InviteAlphabet omits characters that are easy to misread (0/O, 1/I).
	InviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// InviteCodeLength is the number of characters in an invite code.
	InviteCodeLength = 6
	// OwnerSeat is where the game creator sits. Only that seat may start the game or manage bots.
	OwnerSeat = 0
)
