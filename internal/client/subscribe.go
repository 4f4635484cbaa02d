package client

import (
	"sync"

	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/logger"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/wamp"
)

// DefaultEventType 是订阅未指定过滤条件时匹配的事件类型
const DefaultEventType = wamp.EventUpdate

type SubscribeOption func(*subscriber)

// WithEventType 只接收指定类型的事件：Create、Update 或 Delete
func WithEventType(eventType string) SubscribeOption {
	return func(s *subscriber) {
		s.filter = eventType
	}
}

func noop() {}

// Subscribe 订阅事件，返回的函数用于取消本次订阅，可重复调用
// eventName 为空或连接已关闭时不做任何事
func (c *Client) Subscribe(eventName string, callback func(data any), opts ...SubscribeOption) func() {
	if eventName == "" || callback == nil {
		return noop
	}
	sub := &subscriber{callback: callback, filter: DefaultEventType}
	for _, opt := range opts {
		opt(sub)
	}

	c.mu.Lock()
	if c.state != StateOpen {
		c.mu.Unlock()
		return noop
	}
	c.subscriptions[eventName] = append(c.subscriptions[eventName], sub)
	// 之前的 SUBSCRIBE 发送失败时由本次订阅重发
	needSend := c.subscribed[eventName] == nil
	if needSend {
		c.subscribed[eventName] = sub
		c.writeMu.Lock()
	}
	c.mu.Unlock()

	if needSend {
		err := c.send(wamp.NewSubscribeFrame(eventName))
		c.writeMu.Unlock()
		if err == nil {
			c.metrics.SubscriptionAdded()
			logger.DebugF("[%s] Subscribed to %s", c.id, eventName)
		} else {
			c.mu.Lock()
			if c.subscribed[eventName] == sub {
				delete(c.subscribed, eventName)
			}
			c.mu.Unlock()
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			c.unsubscribe(eventName, sub)
		})
	}
}

func (c *Client) unsubscribe(eventName string, sub *subscriber) {
	c.mu.Lock()
	if c.state != StateOpen {
		c.mu.Unlock()
		return
	}
	list := c.subscriptions[eventName]
	index := -1
	for i, s := range list {
		if s == sub {
			index = i
			break
		}
	}
	if index < 0 {
		c.mu.Unlock()
		return
	}
	sub.removed.Store(true)

	rest := make([]*subscriber, 0, len(list)-1)
	rest = append(rest, list[:index]...)
	rest = append(rest, list[index+1:]...)
	last := len(rest) == 0
	// 从未成功订阅的事件名无需发送 UNSUBSCRIBE
	sendUnsubscribe := last && c.subscribed[eventName] != nil
	if last {
		delete(c.subscriptions, eventName)
		delete(c.subscribed, eventName)
	} else {
		c.subscriptions[eventName] = rest
	}
	if sendUnsubscribe {
		c.writeMu.Lock()
	}
	c.mu.Unlock()

	if sendUnsubscribe {
		err := c.send(wamp.NewUnsubscribeFrame(eventName))
		c.writeMu.Unlock()
		if err == nil {
			c.metrics.SubscriptionRemoved()
			logger.DebugF("[%s] Unsubscribed from %s", c.id, eventName)
		}
	}
}

// Subscriptions 返回每个事件名当前的订阅者数量
func (c *Client) Subscriptions() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.subscriptions))
	for name, list := range c.subscriptions {
		out[name] = len(list)
	}
	return out
}
