package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/cart"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/catalog"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/form"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/notify"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

// SinkFactory returns the notifiers, besides the session's own pending
// buffer, that receive a session's notifications.
type SinkFactory func(sessionID string) notify.Notifier

// Registry holds the live sessions and drops the idle ones.
type Registry struct {
	products *catalog.Catalog[models.Product]
	projects *catalog.Catalog[models.Project]
	skills   []models.Skill
	sinks    SinkFactory
	idleTTL  time.Duration
	onExpire func(sessionID string)
	now      func() time.Time
	logger   *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option configures a Registry.
type Option func(*Registry)

// WithSinks sets the extra notification sinks of new sessions.
func WithSinks(f SinkFactory) Option {
	return func(r *Registry) { r.sinks = f }
}

// WithIdleTTL sets how long a session may stay idle before Sweep drops it.
func WithIdleTTL(ttl time.Duration) Option {
	return func(r *Registry) { r.idleTTL = ttl }
}

// OnExpire registers a callback run for every session that is dropped.
func OnExpire(f func(sessionID string)) Option {
	return func(r *Registry) { r.onExpire = f }
}

// NewRegistry creates a registry whose sessions render the given records.
func NewRegistry(
	products *catalog.Catalog[models.Product],
	projects *catalog.Catalog[models.Project],
	skills []models.Skill,
	opts ...Option,
) *Registry {
	r := &Registry{
		products: products,
		projects: projects,
		skills:   append([]models.Skill(nil), skills...),
		idleTTL:  30 * time.Minute,
		now:      time.Now,
		logger:   util.GetLogger(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create starts a new session with fresh page state.
func (r *Registry) Create() *Session {
	id := uuid.New().String()
	pending := notify.NewBuffer()

	var sink notify.Notifier = pending
	if r.sinks != nil {
		sink = notify.Multi{pending, r.sinks(id)}
	}
	sink = notify.Stamp(id, sink)

	now := r.now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
		pending:   pending,
		store: &Storefront{
			Catalog:   r.products,
			Selection: catalog.NewSelection(r.products),
			Cart:      cart.New(sink),
			OrderForm: form.New(form.OrderSchema, sink),
			Notifier:  sink,
		},
		portfolio: &Portfolio{
			Catalog:     r.projects,
			Selection:   catalog.NewSelection(r.projects),
			Skills:      r.skills,
			ContactForm: form.New(form.ContactSchema, sink),
		},
	}

	s.touch(now)

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	util.SessionsActive.Inc()
	r.logger.Debug("Session created", zap.String("session_id", id))
	return s
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete drops a session. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		util.SessionsActive.Dec()
		if r.onExpire != nil {
			r.onExpire(id)
		}
	}
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops every session idle for longer than the idle TTL and returns
// how many were dropped.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.RLock()
	live := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		live = append(live, s)
	}
	r.mu.RUnlock()

	var expired []string
	for _, s := range live {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, s.ID)
		}
	}

	n := 0
	for _, id := range expired {
		if r.Delete(id) {
			n++
		}
	}
	if n > 0 {
		util.SessionsExpiredTotal.Add(float64(n))
		r.logger.Info("Expired idle sessions", zap.Int("count", n))
	}
	return n
}

// Run sweeps every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Sweep()
		}
	}
}
