package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/catalog"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	products, err := catalog.New(catalog.StoreSentinel, catalog.Products)
	require.NoError(t, err)
	projects, err := catalog.New(catalog.PortfolioSentinel, catalog.Projects)
	require.NoError(t, err)
	return NewRegistry(products, projects, catalog.Skills, opts...)
}

func TestSessionsAreIndependent(t *testing.T) {
	r := newRegistry(t)
	a, b := r.Create(), r.Create()
	require.NotEqual(t, a.ID, b.ID)

	p, err := catalog.New(catalog.StoreSentinel, catalog.Products)
	require.NoError(t, err)
	shopper, err := p.Get(1)
	require.NoError(t, err)

	_, err = a.Do(func(store *Storefront, portfolio *Portfolio) error {
		store.Cart.Add(shopper)
		require.NoError(t, store.Selection.Select("Сумки"))
		return portfolio.ContactForm.Set("name", "Мария")
	})
	require.NoError(t, err)

	_, err = b.Do(func(store *Storefront, portfolio *Portfolio) error {
		assert.Equal(t, 0, store.Cart.Len())
		assert.Equal(t, catalog.StoreSentinel, store.Selection.Selected())
		assert.Equal(t, "", portfolio.ContactForm.Values()["name"])
		return nil
	})
	require.NoError(t, err)
}

func TestDoReturnsNotificationsOfThatEvent(t *testing.T) {
	extra := notify.NewBuffer()
	r := newRegistry(t, WithSinks(func(string) notify.Notifier { return extra }))
	s := r.Create()

	product := models.Product{ID: 1, Name: "Сумка-шоппер Leopard", Price: 12990}
	notes, err := s.Do(func(store *Storefront, _ *Portfolio) error {
		store.Cart.Add(product)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, s.ID, notes[0].SessionID)
	assert.Equal(t, 1, extra.Len())

	notes, err = s.Do(func(store *Storefront, _ *Portfolio) error {
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.Empty(t, notes)
}

func TestGetAndDelete(t *testing.T) {
	var expired []string
	r := newRegistry(t, OnExpire(func(id string) { expired = append(expired, id) }))
	s := r.Create()

	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	assert.True(t, r.Delete(s.ID))
	assert.False(t, r.Delete(s.ID))
	assert.Equal(t, []string{s.ID}, expired)

	_, err = r.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSweepDropsIdleSessions(t *testing.T) {
	r := newRegistry(t, WithIdleTTL(time.Minute))
	stale := r.Create()
	fresh := r.Create()

	r.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	fresh.touch(r.now())

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())

	_, err := r.Get(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	r := newRegistry(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, time.Millisecond) }()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestBusySessionDoesNotStallOthers(t *testing.T) {
	r := newRegistry(t)
	a, b := r.Create(), r.Create()

	release := make(chan struct{})
	entered := make(chan struct{})
	busy := make(chan struct{})
	go func() {
		defer close(busy)
		_, _ = a.Do(func(*Storefront, *Portfolio) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	swept := make(chan int, 1)
	go func() { swept <- r.Sweep() }()
	created := make(chan *Session, 1)
	go func() { created <- r.Create() }()

	got := make(chan error, 1)
	go func() {
		_, err := r.Get(b.ID)
		got <- err
	}()

	select {
	case err := <-got:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Get on an idle session blocked behind a running event")
	}

	select {
	case n := <-swept:
		assert.Equal(t, 0, n)
	case <-time.After(time.Second):
		t.Fatal("Sweep waited for a running event")
	}
	assert.NotNil(t, <-created)

	close(release)
	<-busy
}
