package app

import "github.com/dkeye/Parley/internal/domain"

// Outbound wire events. The type field discriminates on the client; field
// names match the original browser protocol.

type roomCreatedEvent struct {
	Type     string          `json:"type"`
	RoomCode domain.RoomCode `json:"roomCode"`
	RoomName domain.RoomName `json:"roomName"`
}

type roomJoinedEvent struct {
	Type     string          `json:"type"`
	RoomCode domain.RoomCode `json:"roomCode"`
	RoomName domain.RoomName `json:"roomName"`
}

type roomErrorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type roomLeftEvent struct {
	Type string `json:"type"`
}

type userJoinedEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

type userLeftEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

type userCountEvent struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type messageEvent struct {
	Type      string `json:"type"`
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
