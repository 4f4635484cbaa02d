package client

import (
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type inbound struct {
	messageType int
	data        []byte
	err         error
}

// fakeConn 模拟服务端，inbound 中的帧按顺序交给读协程
type fakeConn struct {
	in        chan inbound
	writes    chan []byte
	closed    chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	written  [][]byte
	writeErr error
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan inbound, 64),
		writes: make(chan []byte, 64),
		closed: make(chan struct{}),
	}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-f.in:
		if msg.err != nil {
			return 0, nil, msg.err
		}
		return msg.messageType, msg.data, nil
	case <-f.closed:
		return 0, nil, net.ErrClosed
	}
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	select {
	case <-f.closed:
		return net.ErrClosed
	default:
	}
	f.mu.Lock()
	if f.writeErr != nil {
		err := f.writeErr
		f.mu.Unlock()
		return err
	}
	f.written = append(f.written, data)
	f.mu.Unlock()
	f.writes <- data
	return nil
}

// failWrites 使后续写操作返回 err，传入 nil 恢复
func (f *fakeConn) failWrites(err error) {
	f.mu.Lock()
	f.writeErr = err
	f.mu.Unlock()
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) push(data string) {
	f.in <- inbound{messageType: websocket.TextMessage, data: []byte(data)}
}

func (f *fakeConn) pushFrame(t *testing.T, frame []byte, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
	f.in <- inbound{messageType: websocket.TextMessage, data: frame}
}

func (f *fakeConn) Written() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.written))
	for i, w := range f.written {
		out[i] = string(w)
	}
	return out
}

// nextWrite 等待客户端写出下一帧并解码
func (f *fakeConn) nextWrite(t *testing.T) []any {
	t.Helper()
	select {
	case data := <-f.writes:
		var frame []any
		if err := json.Unmarshal(data, &frame); err != nil {
			t.Fatalf("client wrote invalid frame %s: %v", data, err)
		}
		return frame
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for client frame")
		return nil
	}
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
		var zero T
		return zero
	}
}
