package journal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/logger"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/wamp"
)

const DefaultBufferSize = 256

// Recorder 异步写入事件记录，缓冲区满时丢弃新记录
type Recorder struct {
	store      Store
	connection string
	ch         chan *Entry
	now        func() time.Time

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewRecorder(store Store, connection string, bufferSize int) *Recorder {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	r := &Recorder{
		store:      store,
		connection: connection,
		ch:         make(chan *Entry, bufferSize),
		now:        time.Now,
		done:       make(chan struct{}),
	}
	go r.worker()
	return r
}

func (r *Recorder) worker() {
	defer close(r.done)
	for entry := range r.ch {
		if err := r.store.Save(context.Background(), entry); err != nil {
			logger.ErrorF("Fail to save journal entry for %s, details: %v", entry.Event, err)
		}
	}
}

// Record 的签名与 client.EventHook 一致，可直接作为事件钩子
func (r *Recorder) Record(eventName string, envelope wamp.Envelope, data any) {
	entry := &Entry{
		ID:         uuid.NewString(),
		Connection: r.connection,
		Event:      eventName,
		EventType:  envelope.EventType,
		URI:        envelope.URI,
		Data:       data,
		ReceivedAt: r.now().UTC(),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.ch <- entry:
	default:
		logger.WarnF("Journal buffer full, dropping %s event", eventName)
	}
}

// Close 停止接收新记录并等待缓冲区写完
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.ch)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Invoke 用于注册到 shutdown.Cleaner
func (r *Recorder) Invoke(ctx context.Context) error {
	if err := r.Close(ctx); err != nil {
		return err
	}
	return r.store.Close(ctx)
}
