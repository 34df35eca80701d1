package postcard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kodik/postcard/pkg/logging"
)

// ErrMountNotFound is returned for unknown or expired mount ids
var ErrMountNotFound = errors.New("mount not found")

type mount struct {
	card     *Card
	lastSeen time.Time
}

// Registry holds the mounted cards of the process. Cards idle for longer than
// the TTL are discarded by Sweep.
type Registry struct {
	mu     sync.Mutex
	mounts map[string]*mount
	ttl    time.Duration
	now    func() time.Time
}

// NewRegistry creates a registry. now defaults to time.Now.
func NewRegistry(ttl time.Duration, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		mounts: make(map[string]*mount),
		ttl:    ttl,
		now:    now,
	}
}

// Add registers card and returns its mount id
func (r *Registry) Add(card *Card) string {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.mounts[id] = &mount{card: card, lastSeen: r.now()}
	return id
}

// Get returns the card mounted under id and marks it active
func (r *Registry) Get(id string) (*Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.mounts[id]
	if !ok {
		return nil, ErrMountNotFound
	}

	now := r.now()
	if now.Sub(m.lastSeen) > r.ttl {
		delete(r.mounts, id)
		return nil, ErrMountNotFound
	}

	m.lastSeen = now
	return m.card, nil
}

// Remove unmounts id. It reports whether id was mounted.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.mounts[id]
	delete(r.mounts, id)
	return ok
}

// Len returns the number of mounted cards
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.mounts)
}

// Sweep discards idle cards and returns how many were removed
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, m := range r.mounts {
		if now.Sub(m.lastSeen) > r.ttl {
			delete(r.mounts, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	logger := logging.WithComponent("mount-registry")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				logger.Debug("Swept idle cards", zap.Int("removed", n), zap.Int("mounted", r.Len()))
			}
		}
	}
}
