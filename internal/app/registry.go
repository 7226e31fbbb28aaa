package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/core"
	"github.com/dkeye/Parley/internal/domain"
)

// Registry is the in-memory ConnectionRegistry.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.SessionID]core.ConnRecord
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.SessionID]core.ConnRecord)}
}

func (r *Registry) Set(sid domain.SessionID, rec core.ConnRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[sid] = rec
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("username", rec.Username).Str("room", string(rec.Room)).Msg("record set")
}

func (r *Registry) Get(sid domain.SessionID) (core.ConnRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.conns[sid]
	return rec, ok
}

// Remove is a no-op for an absent sid; leave and disconnect may race.
func (r *Registry) Remove(sid domain.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[sid]; !ok {
		return
	}
	delete(r.conns, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("record removed")
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
