package app

import (
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
)

// maxCodeAttempts bounds collision retries during code generation. With a
// 36^6 code space it only fires under adversarial or test conditions.
const maxCodeAttempts = 100

type roomState struct {
	name      domain.RoomName
	createdAt time.Time
	members   map[domain.SessionID]struct{}
}

// Directory is the in-memory RoomDirectory.
type Directory struct {
	mu      sync.RWMutex
	rooms   map[domain.RoomCode]*roomState
	now     func() time.Time
	newCode func() (domain.RoomCode, error)
}

func NewDirectory() *Directory {
	return &Directory{
		rooms:   make(map[domain.RoomCode]*roomState),
		now:     time.Now,
		newCode: randomCode,
	}
}

func randomCode() (domain.RoomCode, error) {
	buf := make([]byte, domain.CodeLen)
	alphabetLen := big.NewInt(int64(len(domain.CodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		buf[i] = domain.CodeAlphabet[n.Int64()]
	}
	return domain.RoomCode(buf), nil
}

// Create inserts an empty room under a freshly drawn unique code and
// returns the code. The creator's membership is the caller's job, so the
// insert and the first AddMember must happen under the caller's event lock.
func (d *Directory) Create(name domain.RoomName) (domain.RoomCode, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := d.newCode()
		if err != nil {
			return "", err
		}
		if _, taken := d.rooms[code]; taken {
			continue
		}
		d.rooms[code] = &roomState{
			name:      name,
			createdAt: d.now(),
			members:   make(map[domain.SessionID]struct{}),
		}
		log.Info().Str("module", "app.rooms").Str("code", string(code)).Str("name", string(name)).Msg("room created")
		return code, nil
	}
	return "", core.ErrCodeSpaceExhausted
}

func (d *Directory) Exists(code domain.RoomCode) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[code]
	return ok
}

func (d *Directory) Info(code domain.RoomCode) (core.RoomInfo, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.rooms[code]
	if !ok {
		return core.RoomInfo{}, false
	}
	return core.RoomInfo{Code: code, Name: r.name, MemberCount: len(r.members), CreatedAt: r.createdAt}, true
}

// AddMember is a no-op when the room is gone or the sid already joined.
func (d *Directory) AddMember(code domain.RoomCode, sid domain.SessionID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.rooms[code]
	if !ok {
		return
	}
	r.members[sid] = struct{}{}
	log.Info().Str("module", "app.rooms").Str("code", string(code)).Str("sid", string(sid)).Msg("member added")
}

// RemoveMember deletes the room the moment its member set empties.
func (d *Directory) RemoveMember(code domain.RoomCode, sid domain.SessionID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.rooms[code]
	if !ok {
		return
	}
	delete(r.members, sid)
	log.Info().Str("module", "app.rooms").Str("code", string(code)).Str("sid", string(sid)).Msg("member removed")
	if len(r.members) == 0 {
		delete(d.rooms, code)
		log.Info().Str("module", "app.rooms").Str("code", string(code)).Msg("room deleted (empty)")
	}
}

func (d *Directory) MemberCount(code domain.RoomCode) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.rooms[code]
	if !ok {
		return 0, core.ErrRoomNotFound
	}
	return len(r.members), nil
}

func (d *Directory) Members(code domain.RoomCode) []domain.SessionID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.rooms[code]
	if !ok {
		return nil
	}
	out := make([]domain.SessionID, 0, len(r.members))
	for sid := range r.members {
		out = append(out, sid)
	}
	return out
}

func (d *Directory) List() []core.RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(d.rooms))
	for code, r := range d.rooms {
		out = append(out, core.RoomInfo{Code: code, Name: r.name, MemberCount: len(r.members), CreatedAt: r.createdAt})
	}
	return out
}
