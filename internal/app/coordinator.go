package app

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
)

const roomNotFoundMsg = "Room not found. Please check the room code."

// Coordinator drives the room/session protocol on top of the registry and
// the directory. One coarse mutex serializes inbound events, so every
// mutation lands atomically with the notifications it produces: a
// concurrently observed user-count never races the membership change.
// Handlers never block on another connection; delivery is TrySend.
type Coordinator struct {
	mu       sync.Mutex
	Registry core.ConnectionRegistry
	Rooms    core.RoomDirectory
	now      func() time.Time
}

func NewCoordinator(reg core.ConnectionRegistry, rooms core.RoomDirectory) *Coordinator {
	return &Coordinator{Registry: reg, Rooms: rooms, now: time.Now}
}

// CreateRoom allocates a fresh room with the initiator as sole member.
// Invalid usernames are dropped without a reply, matching the original
// browser protocol; only join-room answers validation with room-error.
func (c *Coordinator) CreateRoom(sid domain.SessionID, conn core.SignalConnection, rawUsername, rawRoomName string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	username, err := domain.NormalizeUsername(rawUsername)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.coordinator").Str("sid", string(sid)).Msg("create-room ignored")
		return
	}
	name := domain.NormalizeRoomName(rawRoomName, username)

	c.detachLocked(sid)

	code, err := c.Rooms.Create(name)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Str("sid", string(sid)).Msg("create-room failed")
		c.emit(conn, roomErrorEvent{Type: "room-error", Error: "Could not allocate a room code. Please try again."})
		return
	}
	c.Rooms.AddMember(code, sid)
	c.Registry.Set(sid, core.ConnRecord{Username: username, Room: code, Signal: conn})

	c.emit(conn, roomCreatedEvent{Type: "room-created", RoomCode: code, RoomName: name})
	c.emit(conn, userCountEvent{Type: "user-count", Count: 1})
	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Str("username", username).Str("code", string(code)).Msg("room created")
}

// JoinRoom adds the initiator to an existing room. The code is
// case-insensitive on the wire. An unknown code answers room-error to the
// initiator only and mutates nothing.
func (c *Coordinator) JoinRoom(sid domain.SessionID, conn core.SignalConnection, rawUsername, rawCode string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	username, err := domain.NormalizeUsername(rawUsername)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.coordinator").Str("sid", string(sid)).Msg("join-room ignored")
		return
	}
	code := domain.NormalizeCode(rawCode)
	if code == "" {
		log.Warn().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("join-room ignored: empty code")
		return
	}
	if !c.Rooms.Exists(code) {
		log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Str("code", string(code)).Msg("join-room: unknown code")
		c.emit(conn, roomErrorEvent{Type: "room-error", Error: roomNotFoundMsg})
		return
	}

	// A reconnecting or room-hopping client joins cleanly; the previous
	// room sees an ordinary departure.
	c.detachLocked(sid)

	c.Rooms.AddMember(code, sid)
	c.Registry.Set(sid, core.ConnRecord{Username: username, Room: code, Signal: conn})

	info, _ := c.Rooms.Info(code)
	c.broadcastExcept(code, sid, userJoinedEvent{Type: "user-joined", Username: username})
	c.emit(conn, roomJoinedEvent{Type: "room-joined", RoomCode: code, RoomName: info.Name})
	if count, err := c.Rooms.MemberCount(code); err == nil {
		c.broadcast(code, userCountEvent{Type: "user-count", Count: count})
	}
	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Str("username", username).Str("code", string(code)).Msg("joined room")
}

// Message relays text to every member of the sender's room, the sender
// included; clients tell their own messages apart by username. Senders
// outside any room and empty texts are dropped silently. Nothing is stored.
func (c *Coordinator) Message(sid domain.SessionID, rawText string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.Registry.Get(sid)
	if !ok || rec.Room == "" {
		return
	}
	text, err := domain.NormalizeMessage(rawText)
	if err != nil {
		return
	}
	c.broadcast(rec.Room, messageEvent{
		Type:      "message",
		Username:  rec.Username,
		Message:   text,
		Timestamp: c.now().Format(time.TimeOnly),
	})
	log.Debug().Str("module", "app.coordinator").Str("sid", string(sid)).Str("room", string(rec.Room)).Msg("message relayed")
}

// Leave handles an explicit leave-room: shared teardown plus a room-left
// reply, which disconnect never sends since the channel is already gone.
func (c *Coordinator) Leave(sid domain.SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.detachLocked(sid)
	if ok && rec.Room != "" {
		c.emit(rec.Signal, roomLeftEvent{Type: "room-left"})
	}
}

// Disconnect is the transport-driven teardown. Idempotent and safe to race
// an in-flight Leave for the same sid.
func (c *Coordinator) Disconnect(sid domain.SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.detachLocked(sid); ok {
		log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("disconnected")
	}
}

// detachLocked is the shared teardown: remove sid from its room, notify the
// remaining members, drop the registry record. Absent entries are treated
// as a finished teardown, so duplicate leave/disconnect never double-emits
// user-left. Caller holds c.mu.
func (c *Coordinator) detachLocked(sid domain.SessionID) (core.ConnRecord, bool) {
	rec, ok := c.Registry.Get(sid)
	if !ok {
		return core.ConnRecord{}, false
	}
	if rec.Room != "" {
		c.Rooms.RemoveMember(rec.Room, sid)
		// MemberCount fails once the emptied room is torn down; nobody is
		// left to notify in that case.
		if count, err := c.Rooms.MemberCount(rec.Room); err == nil {
			c.broadcast(rec.Room, userLeftEvent{Type: "user-left", Username: rec.Username})
			c.broadcast(rec.Room, userCountEvent{Type: "user-count", Count: count})
		}
		log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Str("room", string(rec.Room)).Msg("left room")
	}
	c.Registry.Remove(sid)
	return rec, true
}

func (c *Coordinator) broadcast(code domain.RoomCode, v any) {
	c.broadcastExcept(code, "", v)
}

func (c *Coordinator) broadcastExcept(code domain.RoomCode, except domain.SessionID, v any) {
	for _, sid := range c.Rooms.Members(code) {
		if sid == except {
			continue
		}
		if rec, ok := c.Registry.Get(sid); ok {
			c.emit(rec.Signal, v)
		}
	}
}

func (c *Coordinator) emit(conn core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("emit marshal")
		return
	}
	if err := conn.TrySend(core.Frame(b)); err != nil {
		log.Warn().Err(err).Str("module", "app.coordinator").Msg("emit dropped")
	}
}
