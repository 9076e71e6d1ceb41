package feed

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/blazeintel/go-overlay/pkg/protocol"
)

// fakeDialer fails every dial attempt and counts them.
type fakeDialer struct {
	mu    sync.Mutex
	dials int
	conns chan Conn // nil entries mean a dial error
}

func (d *fakeDialer) Dial(url string) (Conn, error) {
	d.mu.Lock()
	d.dials++
	d.mu.Unlock()

	if d.conns != nil {
		if c := <-d.conns; c != nil {
			return c, nil
		}
	}
	return nil, errors.New("connection refused")
}

func (d *fakeDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

// fakeClock hands out reconnect waits on demand and records each
// scheduled delay.
type fakeClock struct {
	mu     sync.Mutex
	delays []time.Duration
	fire   chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{fire: make(chan time.Time)}
}

func (f *fakeClock) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	f.delays = append(f.delays, d)
	f.mu.Unlock()
	return f.fire
}

func (f *fakeClock) scheduled() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.delays...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

func TestClient_NFailuresScheduleNReconnects(t *testing.T) {
	dialer := &fakeDialer{}
	clock := newFakeClock()

	c := NewClient(Config{
		URL:    "ws://feed.test/game",
		Name:   "game",
		Dialer: dialer,
		After:  clock.After,
	}, nil)

	c.Start()
	defer c.Close()

	const n = 5
	for i := 1; i <= n; i++ {
		want := i
		waitFor(t, "dial attempt", func() bool { return dialer.count() == want })
		waitFor(t, "reconnect scheduled", func() bool { return len(clock.scheduled()) == want })
		if i < n {
			clock.fire <- time.Now() // release the wait, triggering the next attempt
		}
	}

	delays := clock.scheduled()
	if len(delays) != n {
		t.Fatalf("Expected exactly %d scheduled reconnects, got %d", n, len(delays))
	}
	for i, d := range delays {
		if d != ReconnectDelay {
			t.Errorf("Reconnect %d: expected delay %v, got %v", i, ReconnectDelay, d)
		}
	}
}

// scriptedConn feeds canned payloads, then fails.
type scriptedConn struct {
	mu       sync.Mutex
	payloads [][]byte
	closed   bool
}

func (s *scriptedConn) ReadMessage() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.payloads) == 0 {
		return nil, errors.New("connection reset")
	}
	p := s.payloads[0]
	s.payloads = s.payloads[1:]
	return p, nil
}

func (s *scriptedConn) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func TestClient_MalformedMessagesDroppedWithoutDisconnect(t *testing.T) {
	good, _ := protocol.NewGameMessage(0.5, 0.4, nil)
	goodBytes, _ := good.Bytes()

	conn := &scriptedConn{payloads: [][]byte{
		goodBytes,
		[]byte("{garbage"),
		goodBytes,
	}}

	conns := make(chan Conn, 1)
	conns <- conn
	dialer := &fakeDialer{conns: conns}
	clock := newFakeClock()

	var mu sync.Mutex
	var received int
	c := NewClient(Config{
		URL:    "ws://feed.test/game",
		Name:   "game",
		Dialer: dialer,
		After:  clock.After,
	}, func(m *protocol.Message) {
		mu.Lock()
		received++
		mu.Unlock()
	})

	c.Start()
	defer c.Close()

	waitFor(t, "both good messages", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return received == 2
	})
	// The scripted transport failure after the payloads triggers one
	// reconnect schedule; the garbage payload must not add another.
	waitFor(t, "single reconnect", func() bool { return len(clock.scheduled()) == 1 })
}

func TestClient_StateTransitions(t *testing.T) {
	good := &scriptedConn{payloads: [][]byte{}} // fails on first read

	conns := make(chan Conn, 1)
	conns <- good
	dialer := &fakeDialer{conns: conns}
	clock := newFakeClock()

	var mu sync.Mutex
	var states []State
	c := NewClient(Config{
		URL:    "ws://feed.test/pose",
		Name:   "pose",
		Dialer: dialer,
		After:  clock.After,
	}, nil)
	c.OnStateChange(func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	c.Start()
	defer c.Close()

	waitFor(t, "disconnect after read failure", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) >= 3
	})

	mu.Lock()
	got := append([]State(nil), states[:3]...)
	mu.Unlock()
	want := []State{Connecting, Connected, Disconnected}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Transition %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

// gatedDialer blocks every Dial until the test hands it a conn,
// signalling on entered so the test knows a dial is in flight.
type gatedDialer struct {
	entered chan struct{}
	release chan Conn
}

func (d *gatedDialer) Dial(url string) (Conn, error) {
	d.entered <- struct{}{}
	if c := <-d.release; c != nil {
		return c, nil
	}
	return nil, errors.New("connection refused")
}

// blockConn blocks reads until closed.
type blockConn struct {
	once   sync.Once
	closed chan struct{}
}

func newBlockConn() *blockConn {
	return &blockConn{closed: make(chan struct{})}
}

func (b *blockConn) ReadMessage() ([]byte, error) {
	<-b.closed
	return nil, errors.New("use of closed connection")
}

func (b *blockConn) Close() error {
	b.once.Do(func() { close(b.closed) })
	return nil
}

func (b *blockConn) isClosed() bool {
	select {
	case <-b.closed:
		return true
	default:
		return false
	}
}

func TestClient_CloseDuringDialDropsLateConn(t *testing.T) {
	dialer := &gatedDialer{
		entered: make(chan struct{}),
		release: make(chan Conn),
	}
	clock := newFakeClock()

	c := NewClient(Config{
		URL:    "ws://feed.test/pose",
		Name:   "pose",
		Dialer: dialer,
		After:  clock.After,
	}, nil)

	c.Start()
	<-dialer.entered // dial now in flight, c.conn still nil

	closed := make(chan struct{})
	go func() {
		c.Close()
		close(closed)
	}()
	// Give Close time to snapshot the nil conn and park on done
	time.Sleep(10 * time.Millisecond)

	// The dial succeeds after Close: the loop must discard the conn
	// instead of entering a read nothing can unblock
	conn := newBlockConn()
	dialer.release <- conn

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close hung after a dial completed mid-shutdown")
	}
	waitFor(t, "late conn closed", conn.isClosed)
}

func TestClient_CloseHaltsLoop(t *testing.T) {
	dialer := &fakeDialer{}
	clock := newFakeClock()

	c := NewClient(Config{
		URL:    "ws://feed.test/game",
		Name:   "game",
		Dialer: dialer,
		After:  clock.After,
	}, nil)

	c.Start()
	waitFor(t, "first dial", func() bool { return dialer.count() == 1 })

	c.Close()
	c.Close() // idempotent

	if got := c.State(); got != Disconnected {
		t.Errorf("Expected Disconnected after Close, got %v", got)
	}

	// No further dials after Close
	before := dialer.count()
	time.Sleep(20 * time.Millisecond)
	if after := dialer.count(); after != before {
		t.Errorf("Dial attempted after Close: %d -> %d", before, after)
	}
}
