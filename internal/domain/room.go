package domain

import "strings"

type (
	RoomName string
	RoomCode string
)

// CodeLen and CodeAlphabet define the room code space: six independent
// draws from 36 symbols.
const (
	CodeLen      = 6
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NormalizeCode uppercases a client-supplied code; codes are
// case-insensitive on the wire.
func NormalizeCode(raw string) RoomCode {
	return RoomCode(strings.ToUpper(strings.TrimSpace(raw)))
}

// ValidCode reports whether code is six symbols over the code alphabet.
func ValidCode(code RoomCode) bool {
	if len(code) != CodeLen {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(CodeAlphabet, rune(code[i])) {
			return false
		}
	}
	return true
}

// DefaultRoomName is used when a room is created without an explicit name.
func DefaultRoomName(username string) RoomName {
	return RoomName(username + "'s Room")
}

// NormalizeRoomName trims an explicit room name, falling back to the
// creator's default when nothing is left.
func NormalizeRoomName(raw, username string) RoomName {
	name := strings.TrimSpace(raw)
	if name == "" {
		return DefaultRoomName(username)
	}
	return RoomName(name)
}
