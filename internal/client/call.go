package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/endpoint"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/logger"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/schema"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/wamp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Call 发送 [2, requestId, endpointId] 并等待结果，结果按端点的返回 Schema 校验
// 调用本身没有超时；ctx 结束时只是放弃等待，迟到的结果会被丢弃
func (c *Client) Call(ctx context.Context, endpointID string) (any, error) {
	ctx, span := c.tracer.Start(ctx, "lcu.call",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("lcu.endpoint", endpointID)),
	)
	defer span.End()

	value, err := c.call(ctx, endpointID)
	c.metrics.CallFinished(callOutcome(err))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return value, err
}

func (c *Client) call(ctx context.Context, endpointID string) (any, error) {
	requestID := uuid.NewString()
	p := &pendingCall{endpointID: endpointID, done: make(chan callResult, 1)}

	c.mu.Lock()
	if c.state != StateOpen {
		c.mu.Unlock()
		return nil, ErrConnectionClosed
	}
	c.pending[requestID] = p
	c.writeMu.Lock()
	c.mu.Unlock()

	err := c.send(wamp.NewCallFrame(requestID, endpointID))
	c.writeMu.Unlock()
	if err != nil && c.takePending(requestID) != nil {
		return nil, fmt.Errorf("send call %s: %w", endpointID, errors.Join(ErrConnectionClosed, err))
	}

	select {
	case result := <-p.done:
		return result.value, result.err
	case <-ctx.Done():
		if c.takePending(requestID) == nil {
			// 结果已经送达
			result := <-p.done
			return result.value, result.err
		}
		return nil, ctx.Err()
	}
}

func callOutcome(err error) string {
	var remoteErr *RemoteCallError
	var mismatch *schema.MismatchError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &remoteErr):
		return "remote_error"
	case errors.As(err, &mismatch):
		return "schema_mismatch"
	case errors.Is(err, ErrConnectionClosed):
		return "closed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "abandoned"
	default:
		return "error"
	}
}

// CallAs 是 Call 的泛型版本
func CallAs[T any](ctx context.Context, c *Client, e endpoint.Endpoint[T]) (T, error) {
	v, err := c.Call(ctx, e.ID)
	if err != nil {
		var zero T
		return zero, err
	}
	return schema.Decode[T](v)
}

// SubscribeAs 订阅端点对应的事件，并将数据解码为 T 后回调
// 解码失败的事件只记录日志
func SubscribeAs[T any](c *Client, e endpoint.Endpoint[T], callback func(T), opts ...SubscribeOption) func() {
	eventName := e.Event()
	return c.Subscribe(eventName, func(data any) {
		v, err := schema.Decode[T](data)
		if err != nil {
			logger.WarnF("[%s] Fail to decode event %s, details: %v", c.id, eventName, err)
			return
		}
		callback(v)
	}, opts...)
}
