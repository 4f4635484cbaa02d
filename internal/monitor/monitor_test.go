package monitor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/juju/clock/testclock"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/client"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/remote"
)

type fakeLocator struct {
	mu      sync.Mutex
	running bool
	pt      remote.PortToken
	err     error
}

func (l *fakeLocator) set(running bool) {
	l.mu.Lock()
	l.running = running
	l.mu.Unlock()
}

func (l *fakeLocator) Running(context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running, l.err
}

func (l *fakeLocator) PortToken(context.Context) (remote.PortToken, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return remote.PortToken{}, remote.ErrNotRunning
	}
	return l.pt, nil
}

// lcuServer 同时提供状态接口与 WebSocket 接入点
type lcuServer struct {
	pt          remote.PortToken
	statusCode  atomic.Int32
	statusHits  atomic.Int32
	dials       atomic.Int32
	connections chan *websocket.Conn
}

func newLCUServer(t *testing.T) *lcuServer {
	t.Helper()
	s := &lcuServer{connections: make(chan *websocket.Conn, 8)}
	s.statusCode.Store(http.StatusOK)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Basic token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if websocket.IsWebSocketUpgrade(r) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			s.dials.Add(1)
			s.connections <- conn
			// 读到错误即退出，客户端关闭时随之结束
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					_ = conn.Close()
					return
				}
			}
		}
		if r.URL.Path != "/lol-summoner/v1/status" {
			http.NotFound(w, r)
			return
		}
		s.statusHits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(int(s.statusCode.Load()))
		_, _ = io.WriteString(w, `{"ready":true}`)
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	s.pt = remote.PortToken{Port: u.Port(), Token: "token"}
	return s
}

func newMonitor(t *testing.T, locator remote.Locator, clk *testclock.Clock) *Monitor {
	t.Helper()
	config := Config{Locator: locator}
	if clk != nil {
		config.Clock = clk
	}
	m, err := New(config)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(m.Close)
	return m
}

func recordStatuses(m *Monitor) (func() []Status, chan Status) {
	var mu sync.Mutex
	var seen []Status
	ch := make(chan Status, 16)
	m.Subscribe(func(s Status) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
		ch <- s
	})
	return func() []Status {
		mu.Lock()
		defer mu.Unlock()
		return append([]Status(nil), seen...)
	}, ch
}

func waitStatus(t *testing.T, ch <-chan Status, want Status) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("status = %s, want %s", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", want)
	}
}

func TestNewRequiresLocator(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("New() without locator succeeded")
	}
}

func TestStatusString(t *testing.T) {
	if Connected.String() != "Connected" || Disconnected.String() != "Disconnected" {
		t.Fatalf("unexpected names %s %s", Connected, Disconnected)
	}
}

func TestProbeLifecycle(t *testing.T) {
	srv := newLCUServer(t)
	locator := &fakeLocator{pt: srv.pt}
	m := newMonitor(t, locator, nil)
	seen, _ := recordStatuses(m)

	// 未运行且未连接，不做任何事
	if err := m.Probe(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.Client() != nil || srv.statusHits.Load() != 0 {
		t.Fatal("probe acted while remote not running")
	}

	locator.set(true)
	if err := m.Probe(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.Current() != Connected || m.Client() == nil {
		t.Fatalf("after start: status %s client %v", m.Current(), m.Client())
	}
	if srv.statusHits.Load() != 1 || srv.dials.Load() != 1 {
		t.Fatalf("status hits %d dials %d", srv.statusHits.Load(), srv.dials.Load())
	}
	if pt, ok := m.PortToken(); !ok || pt != srv.pt {
		t.Fatalf("PortToken() = %v %v", pt, ok)
	}

	// 状态不变时不再校验也不重新连接
	if err := m.Probe(context.Background()); err != nil {
		t.Fatal(err)
	}
	if srv.statusHits.Load() != 1 || srv.dials.Load() != 1 {
		t.Fatal("probe repeated work while state unchanged")
	}

	cl := m.Client()
	locator.set(false)
	if err := m.Probe(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.Current() != Disconnected || m.Client() != nil {
		t.Fatal("client kept after remote stopped")
	}
	if cl.State() != client.StateClosed {
		t.Fatalf("old client state = %s", cl.State())
	}

	got := seen()
	if len(got) != 2 || got[0] != Connected || got[1] != Disconnected {
		t.Fatalf("published %v", got)
	}
}

func TestProbeValidationFailure(t *testing.T) {
	srv := newLCUServer(t)
	srv.statusCode.Store(http.StatusServiceUnavailable)
	locator := &fakeLocator{pt: srv.pt, running: true}
	m := newMonitor(t, locator, nil)

	if err := m.Probe(context.Background()); err == nil {
		t.Fatal("Probe() succeeded against a failing status endpoint")
	}
	if m.Current() != Disconnected || m.Client() != nil || srv.dials.Load() != 0 {
		t.Fatal("connected without a valid status response")
	}

	// 下一次探测重新校验
	srv.statusCode.Store(http.StatusOK)
	if err := m.Probe(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.Current() != Connected {
		t.Fatalf("status = %s", m.Current())
	}
}

func TestProbeInvalidPortToken(t *testing.T) {
	locator := &fakeLocator{pt: remote.PortToken{Port: "0", Token: "x"}, running: true}
	m := newMonitor(t, locator, nil)
	if err := m.Probe(context.Background()); err == nil {
		t.Fatal("Probe() accepted an invalid port")
	}
	if m.Current() != Disconnected {
		t.Fatalf("status = %s", m.Current())
	}
}

func TestProbeLocatorError(t *testing.T) {
	locator := &fakeLocator{running: true, err: errors.New("boom")}
	m := newMonitor(t, locator, nil)
	if err := m.Probe(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.Client() != nil {
		t.Fatal("connected although the locator failed")
	}
}

func TestProbeDialFailure(t *testing.T) {
	srv := newLCUServer(t)
	locator := &fakeLocator{pt: srv.pt, running: true}
	m, err := New(Config{
		Locator: locator,
		Dial: func(context.Context, remote.PortToken) (*client.Client, error) {
			return nil, errors.New("refused")
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Probe(context.Background()); err == nil {
		t.Fatal("Probe() ignored dial failure")
	}
	if m.Current() != Disconnected {
		t.Fatalf("status = %s", m.Current())
	}
}

func TestProbeDiscardsDroppedClient(t *testing.T) {
	srv := newLCUServer(t)
	locator := &fakeLocator{pt: srv.pt, running: true}
	m := newMonitor(t, locator, nil)
	_, statuses := recordStatuses(m)

	if err := m.Probe(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitStatus(t, statuses, Connected)
	first := m.Client()

	// 服务端断开连接
	conn := <-srv.connections
	_ = conn.Close()
	select {
	case <-first.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("client did not notice the dropped connection")
	}

	if err := m.Probe(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitStatus(t, statuses, Disconnected)
	waitStatus(t, statuses, Connected)
	if second := m.Client(); second == nil || second == first {
		t.Fatal("dropped client was not replaced")
	}
	if srv.dials.Load() != 2 {
		t.Fatalf("dials = %d", srv.dials.Load())
	}
}

func TestSubscribeDispose(t *testing.T) {
	m := newMonitor(t, &fakeLocator{}, nil)
	var calls atomic.Int32
	dispose := m.Subscribe(func(Status) { calls.Add(1) })
	m.setStatus(Connected)
	dispose()
	dispose()
	m.setStatus(Disconnected)
	if calls.Load() != 1 {
		t.Fatalf("listener called %d times", calls.Load())
	}
}

func TestRunPollsOnClock(t *testing.T) {
	srv := newLCUServer(t)
	locator := &fakeLocator{pt: srv.pt}
	clk := testclock.NewClock(time.Now())
	m := newMonitor(t, locator, clk)
	_, statuses := recordStatuses(m)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	// 第一次探测立即执行，之后等待时钟推进
	if err := clk.WaitAdvance(DefaultPollInterval, 5*time.Second, 1); err != nil {
		t.Fatal(err)
	}
	locator.set(true)
	if err := clk.WaitAdvance(DefaultPollInterval, 5*time.Second, 1); err != nil {
		t.Fatal(err)
	}
	waitStatus(t, statuses, Connected)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	waitStatus(t, statuses, Disconnected)
	if m.Client() != nil {
		t.Fatal("Run left a client open")
	}
}
