package journal

import (
	"context"
	"sync"
)

const DefaultMemoryCapacity = 1024

// MemoryStore 只保留最近 capacity 条记录
type MemoryStore struct {
	mu       sync.Mutex
	entries  []*Entry
	capacity int
	closed   bool
}

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{capacity: capacity}
}

func (ms *MemoryStore) Save(_ context.Context, entry *Entry) error {
	if entry.Event == "" {
		return ErrEventNameEmpty
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.closed {
		return ErrStoreClosed
	}
	ms.entries = append(ms.entries, entry)
	if over := len(ms.entries) - ms.capacity; over > 0 {
		ms.entries = append(ms.entries[:0:0], ms.entries[over:]...)
	}
	return nil
}

// Recent 返回最近的记录，event 为空时不过滤，limit <= 0 时不限制数量
func (ms *MemoryStore) Recent(_ context.Context, event string, limit int) ([]*Entry, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	var out []*Entry
	for i := len(ms.entries) - 1; i >= 0; i-- {
		if event != "" && ms.entries[i].Event != event {
			continue
		}
		out = append(out, ms.entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.entries)
}

func (ms *MemoryStore) Close(context.Context) error {
	ms.mu.Lock()
	ms.closed = true
	ms.mu.Unlock()
	return nil
}
