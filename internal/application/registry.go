package application

import (
	"sync"
	"time"

	"swapquote-service/internal/domain"

	"go.uber.org/zap"
)

// Registry holds the live swap sessions of this process.
type Registry struct {
	settler  Settler
	receipts ReceiptRepo
	clock    Clock
	ids      IDGen
	log      *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*SwapSession
}

type RegistryOption func(*Registry)

func WithRegistryClock(c Clock) RegistryOption { return func(r *Registry) { r.clock = c } }
func WithIDGen(g IDGen) RegistryOption         { return func(r *Registry) { r.ids = g } }

func NewRegistry(settler Settler, receipts ReceiptRepo, log *zap.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{
		settler:  settler,
		receipts: receipts,
		log:      log,
		sessions: map[string]*SwapSession{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = realClock{}
	}
	if r.ids == nil {
		r.ids = defaultIDGen{}
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// Create starts a session seeded with assets.
func (r *Registry) Create(assets []domain.Asset) *SwapSession {
	s := NewSwapSession(r.ids.NewID(), r.settler,
		WithSessionClock(r.clock),
		WithSessionLogger(r.log),
		WithReceipts(r.receipts),
	)
	s.SetAssets(assets)
	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
	r.log.Info("session.created", zap.String("session_id", s.ID()))
	return s
}

func (r *Registry) Get(id string) (*SwapSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, id)
	r.log.Info("session.deleted", zap.String("session_id", id))
	return nil
}

// Broadcast pushes a rebuilt catalog into every session.
func (r *Registry) Broadcast(assets []domain.Asset) {
	for _, s := range r.list() {
		s.SetAssets(assets)
	}
}

// Evict drops sessions idle for longer than idle. Busy sessions stay.
func (r *Registry) Evict(idle time.Duration) int {
	if idle <= 0 {
		return 0
	}
	cutoff := r.clock.Now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.IdleSince().Before(cutoff) && !s.Snapshot().Busy {
			delete(r.sessions, id)
			n++
		}
	}
	if n > 0 {
		r.log.Info("session.evicted", zap.Int("count", n))
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) list() []*SwapSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*SwapSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
