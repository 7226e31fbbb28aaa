package core

import (
	"errors"
	"time"

	"github.com/dkeye/Parley/internal/domain"
)

// Frame is a marshaled wire event.
type Frame []byte

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrCodeSpaceExhausted = errors.New("room code space exhausted")
)

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// ConnRecord is what the registry stores per live connection: the chosen
// identity, the current room (empty while idle) and the transport endpoint
// the coordinator fans out to.
type ConnRecord struct {
	Username string
	Room     domain.RoomCode
	Signal   SignalConnection
}

// ConnectionRegistry maps live connections to identity and room.
// It owns no transport resources and emits nothing.
type ConnectionRegistry interface {
	Set(sid domain.SessionID, rec ConnRecord)
	Get(sid domain.SessionID) (ConnRecord, bool)
	Remove(sid domain.SessionID)
	Len() int
}

// RoomInfo is a read-only view for APIs (no membership internals).
type RoomInfo struct {
	Code        domain.RoomCode `json:"code"`
	Name        domain.RoomName `json:"name"`
	MemberCount int             `json:"member_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RoomDirectory maps room codes to room state. It owns the membership sets
// but never touches transport resources. A room exists iff its member set
// is non-empty at the time of the last mutation; RemoveMember tears down
// the room the moment the set empties.
type RoomDirectory interface {
	Create(name domain.RoomName) (domain.RoomCode, error)
	Exists(code domain.RoomCode) bool
	Info(code domain.RoomCode) (RoomInfo, bool)
	AddMember(code domain.RoomCode, sid domain.SessionID)
	RemoveMember(code domain.RoomCode, sid domain.SessionID)
	MemberCount(code domain.RoomCode) (int, error)
	Members(code domain.RoomCode) []domain.SessionID
	List() []RoomInfo
}
