package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStampAndBuffer(t *testing.T) {
	buf := NewBuffer()
	sink := Stamp("session-1", buf)

	sink.Notify(Success("Сумка добавлена"))
	sink.Notify(Error("Заполните все поля"))

	got := buf.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, models.SeveritySuccess, got[0].Severity)
	assert.Equal(t, "session-1", got[0].SessionID)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].CreatedAt.IsZero())
	assert.Equal(t, models.SeverityError, got[1].Severity)

	assert.Equal(t, 0, buf.Len())
	assert.NotNil(t, buf.Drain())
}

func TestMultiFansOut(t *testing.T) {
	a, b := NewBuffer(), NewBuffer()
	Multi{a, Nop, b}.Notify(Info("Товар удален из корзины"))

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}

var errClosed = errors.New("closed")

type fakeConn struct {
	mu      sync.Mutex
	written []Message
	closed  chan struct{}
	once    sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{closed: make(chan struct{})}
}

func (f *fakeConn) SetReadLimit(int64) {}
func (f *fakeConn) SetReadDeadline(time.Time) error { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}
func (f *fakeConn) WriteMessage(int, []byte) error { return nil }

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, errClosed
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, v.(Message))
	return nil
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, len(f.written))
	copy(out, f.written)
	return out
}

func TestHubBroadcastsToSessionClients(t *testing.T) {
	hub := NewHub()
	conn := newFakeConn()
	other := newFakeConn()

	served := make(chan struct{}, 2)
	go func() { hub.Serve("s1", conn); served <- struct{}{} }()
	go func() { hub.Serve("s2", other); served <- struct{}{} }()

	require.Eventually(t, func() bool {
		return hub.ClientCount("s1") == 1 && hub.ClientCount("s2") == 1
	}, time.Second, 5*time.Millisecond)

	hub.Sink("s1").Notify(Success("Сумка-шоппер Leopard добавлен в корзину"))

	require.Eventually(t, func() bool { return len(conn.messages()) == 2 }, time.Second, 5*time.Millisecond)
	msgs := conn.messages()
	assert.Equal(t, "connected", msgs[0].Type)
	assert.Equal(t, "notification", msgs[1].Type)
	assert.Equal(t, "Сумка-шоппер Leopard добавлен в корзину", msgs[1].Notification.Message)

	hub.CloseSession("s1")
	hub.CloseSession("s2")
	<-served
	<-served

	assert.Equal(t, 0, hub.ClientCount("s1"))
	for _, m := range other.messages() {
		assert.NotEqual(t, "notification", m.Type)
	}
}
