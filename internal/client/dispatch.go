package client

import (
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/logger"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/wamp"
)

// handleFrame 处理一帧入站消息，任何错误都只记录日志后丢弃
func (c *Client) handleFrame(data []byte) {
	frame, err := wamp.DecodeFrame(data)
	if err != nil {
		logger.WarnF("[%s] Dropping undecodable frame, details: %v", c.id, err)
		c.metrics.FrameDropped("decode")
		return
	}
	if !frame.Type.Known() {
		logger.WarnF("[%s] Dropping frame with unknown message type %d", c.id, int(frame.Type))
		c.metrics.FrameDropped("unknown_type")
		return
	}
	c.metrics.FrameReceived(frame.Type.String())

	switch frame.Type {
	case wamp.WELCOME, wamp.PREFIX, wamp.CALL, wamp.SUBSCRIBE, wamp.UNSUBSCRIBE, wamp.PUBLISH:
		logger.DebugF("[%s] Receive %s frame, data %s", c.id, frame.Type, frame.Raw)
	case wamp.CALLRESULT:
		c.handleCallResult(frame)
	case wamp.CALLERROR:
		c.handleCallError(frame)
	case wamp.EVENT:
		c.handleEvent(frame)
	}
}

// takePending 取出并移除请求，不存在时返回 nil
func (c *Client) takePending(requestID string) *pendingCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[requestID]
	if !ok {
		return nil
	}
	delete(c.pending, requestID)
	return p
}

func (c *Client) handleCallResult(frame *wamp.Frame) {
	result, err := wamp.ParseCallResult(frame)
	if err != nil {
		logger.WarnF("[%s] Dropping CALLRESULT frame, details: %v", c.id, err)
		c.metrics.FrameDropped("decode")
		return
	}
	p := c.takePending(result.RequestID)
	if p == nil {
		logger.DebugF("[%s] Dropping result of unknown or abandoned request %s", c.id, result.RequestID)
		c.metrics.FrameDropped("no_pending_call")
		return
	}

	value, err := wamp.DecodeValue(result.Result)
	if err == nil {
		value, err = c.table.ReturnSchema(p.endpointID).Validate(value)
	}
	if err != nil {
		logger.WarnF("[%s] Result of %s does not match its schema, details: %v", c.id, p.endpointID, err)
	}
	p.done <- callResult{value: value, err: err}
}

func (c *Client) handleCallError(frame *wamp.Frame) {
	callErr, err := wamp.ParseCallError(frame)
	if err != nil {
		logger.WarnF("[%s] Dropping CALLERROR frame, details: %v", c.id, err)
		c.metrics.FrameDropped("decode")
		return
	}
	p := c.takePending(callErr.RequestID)
	if p == nil {
		logger.DebugF("[%s] Dropping error of unknown or abandoned request %s", c.id, callErr.RequestID)
		c.metrics.FrameDropped("no_pending_call")
		return
	}
	p.done <- callResult{err: &RemoteCallError{ErrorType: callErr.ErrorType, Message: callErr.Message}}
}

func (c *Client) handleEvent(frame *wamp.Frame) {
	event, err := wamp.ParseEvent(frame)
	if err != nil {
		logger.WarnF("[%s] Dropping EVENT frame, details: %v", c.id, err)
		c.metrics.FrameDropped("decode")
		return
	}
	envelope := event.Envelope

	raw, err := wamp.DecodeValue(envelope.Data)
	if err != nil {
		logger.WarnF("[%s] Dropping event %s, details: %v", c.id, event.EventName, err)
		c.metrics.FrameDropped("decode")
		return
	}

	data, err := c.table.SchemaForEvent(event.EventName).Validate(raw)
	if err != nil {
		logger.WarnF("[%s] Dropping event %s (%s), details: %v", c.id, event.EventName, envelope.URI, err)
		c.metrics.FrameDropped("schema")
		return
	}

	if c.hook != nil {
		c.hook(event.EventName, envelope, data)
	}

	c.mu.Lock()
	var targets []*subscriber
	for _, sub := range c.subscriptions[event.EventName] {
		if sub.filter == envelope.EventType {
			targets = append(targets, sub)
		}
	}
	c.mu.Unlock()

	if len(targets) == 0 {
		return
	}
	c.metrics.EventDispatched(event.EventName)

	c.dispatching.Add(1)
	defer c.dispatching.Add(-1)
	for _, sub := range targets {
		// 分发过程中被取消的订阅不再收到事件
		if sub.removed.Load() {
			continue
		}
		c.invoke(event.EventName, sub, data)
	}
}

func (c *Client) invoke(eventName string, sub *subscriber, data any) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorF("[%s] Subscriber of %s panicked, details: %v", c.id, eventName, r)
		}
	}()
	sub.callback(data)
}
