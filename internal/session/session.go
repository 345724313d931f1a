// Package session owns the state of each page load: a storefront and a
// portfolio page, each with its own filter, cart and form state.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/cart"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/catalog"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/form"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/notify"
)

// Storefront is the e-commerce page state.
type Storefront struct {
	Catalog   *catalog.Catalog[models.Product]
	Selection *catalog.Selection[models.Product]
	Cart      *cart.Cart
	OrderForm *form.Form
	Notifier  notify.Notifier
}

// Portfolio is the portfolio page state.
type Portfolio struct {
	Catalog     *catalog.Catalog[models.Project]
	Selection   *catalog.Selection[models.Project]
	Skills      []models.Skill
	ContactForm *form.Form
}

// Session is one page load. Every event on it runs under its lock, one at a
// time and to completion.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	lastSeen  atomic.Int64
	store     *Storefront
	portfolio *Portfolio
	pending   *notify.Buffer
}

// Do runs fn with exclusive access to the session's pages and returns the
// notifications emitted while it ran.
func (s *Session) Do(fn func(store *Storefront, portfolio *Portfolio) error) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(time.Now())
	s.pending.Drain()
	err := fn(s.store, s.portfolio)
	return s.pending.Drain(), err
}

func (s *Session) touch(t time.Time) {
	s.lastSeen.Store(t.UnixNano())
}

// LastSeen returns when the session last handled an event. It does not wait
// for a running event.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}
