// Package journal 记录客户端分发过的事件，便于事后查看
package journal

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEventNameEmpty = errors.New("event name is empty")
	ErrStoreClosed    = errors.New("journal store closed")
)

type Entry struct {
	ID         string    `bson:"_id" json:"id"`
	Connection string    `bson:"connection" json:"connection"`
	Event      string    `bson:"event" json:"event"`
	EventType  string    `bson:"event_type" json:"eventType"`
	URI        string    `bson:"uri" json:"uri"`
	Data       any       `bson:"data" json:"data"`
	ReceivedAt time.Time `bson:"received_at" json:"receivedAt"`
}

// Store 保存事件记录，Recent 按接收时间倒序返回
type Store interface {
	Save(ctx context.Context, entry *Entry) error
	Recent(ctx context.Context, event string, limit int) ([]*Entry, error)
	Close(ctx context.Context) error
}
