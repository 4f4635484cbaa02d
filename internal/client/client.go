// Package client 实现 LCU 的持久连接客户端
//
// 一个 Client 对应一条 WebSocket 连接，负责调用关联、订阅引用计数与事件分发。
// 连接关闭后 Client 不可复用，重连需要新建 Client。
package client

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/endpoint"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/logger"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/metrics"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/wamp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/life-stream-dev/life-stream-go-lcu-client/internal/client"

var ErrConnectionClosed = errors.New("connection closed")

// RemoteCallError 是服务端通过 CALLERROR 返回的错误
type RemoteCallError struct {
	ErrorType string
	Message   string
}

func (e *RemoteCallError) Error() string {
	if e.Message == "" {
		return e.ErrorType
	}
	return fmt.Sprintf("%s: %s", e.ErrorType, e.Message)
}

type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

var StateMap = map[State]string{
	StateConnecting: "Connecting",
	StateOpen:       "Open",
	StateClosed:     "Closed",
}

func (s State) String() string {
	return StateMap[s]
}

// EventHook 在事件通过校验后、分发给订阅者之前调用
type EventHook func(eventName string, envelope wamp.Envelope, data any)

type options struct {
	table   *endpoint.Table
	metrics *metrics.Metrics
	dialer  *websocket.Dialer
	hook    EventHook
}

type Option func(*options)

func WithTable(table *endpoint.Table) Option {
	return func(o *options) {
		o.table = table
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithDialer 仅对 Connect 生效
func WithDialer(dialer *websocket.Dialer) Option {
	return func(o *options) {
		o.dialer = dialer
	}
}

func WithEventHook(hook EventHook) Option {
	return func(o *options) {
		o.hook = hook
	}
}

func newOptions(opts []Option) *options {
	o := &options{table: endpoint.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type callResult struct {
	value any
	err   error
}

type pendingCall struct {
	endpointID string
	// 容量为 1，每个请求最多写入一次
	done chan callResult
}

type subscriber struct {
	callback func(data any)
	filter   string
	removed  atomic.Bool
}

type Client struct {
	id      string
	conn    Conn
	table   *endpoint.Table
	metrics *metrics.Metrics
	hook    EventHook
	tracer  trace.Tracer

	// mu 保护 state、pending、subscriptions 与 subscribed
	// subscribed 记录每个事件名发出 SUBSCRIBE 的订阅者，发送失败时撤销
	mu            sync.Mutex
	state         State
	pending       map[string]*pendingCall
	subscriptions map[string][]*subscriber
	subscribed    map[string]*subscriber

	// writeMu 在持有 mu 时获取，保证帧的发送顺序与状态变化顺序一致
	writeMu sync.Mutex

	// 正在执行订阅回调时不等待读协程退出
	dispatching atomic.Int32

	closeOnce  sync.Once
	closeErr   error
	done       chan struct{}
	readerDone chan struct{}
}

// New 接管一个已建立的连接并启动读协程
func New(conn Conn, opts ...Option) *Client {
	return newClient(conn, newOptions(opts))
}

func newClient(conn Conn, o *options) *Client {
	c := &Client{
		id:            uuid.NewString()[:8],
		conn:          conn,
		table:         o.table,
		metrics:       o.metrics,
		hook:          o.hook,
		tracer:        otel.Tracer(tracerName),
		state:         StateConnecting,
		pending:       make(map[string]*pendingCall),
		subscriptions: make(map[string][]*subscriber),
		subscribed:    make(map[string]*subscriber),
		done:          make(chan struct{}),
		readerDone:    make(chan struct{}),
	}

	c.mu.Lock()
	c.state = StateOpen
	c.mu.Unlock()
	c.metrics.SetConnected(true)
	logger.InfoF("[%s] Connection open", c.id)

	go c.readLoop()
	return c
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done 在连接关闭后关闭
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err 返回导致连接关闭的读错误，主动调用 Close 时为 nil
func (c *Client) Err() error {
	select {
	case <-c.done:
		return c.closeErr
	default:
		return nil
	}
}

// Close 关闭连接：所有未完成的调用以 ErrConnectionClosed 失败，
// 订阅直接清空而不发送 UNSUBSCRIBE，并等待读协程退出。可重复调用
func (c *Client) Close() error {
	c.shutdown(nil)
	if c.dispatching.Load() == 0 {
		<-c.readerDone
	}
	return nil
}

func (c *Client) shutdown(cause error) {
	c.closeOnce.Do(func() {
		// 先关闭传输，使阻塞中的写操作返回
		if cw, ok := c.conn.(controlWriter); ok && cause == nil {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = cw.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		}
		if err := c.conn.Close(); err != nil {
			logger.DebugF("[%s] Fail to close transport, details: %v", c.id, err)
		}

		c.mu.Lock()
		c.state = StateClosed
		pending := c.pending
		c.pending = make(map[string]*pendingCall)
		subscriptions := c.subscriptions
		c.subscriptions = make(map[string][]*subscriber)
		wired := len(c.subscribed)
		c.subscribed = make(map[string]*subscriber)
		c.closeErr = cause
		c.mu.Unlock()

		for _, p := range pending {
			p.done <- callResult{err: ErrConnectionClosed}
		}
		for _, list := range subscriptions {
			for _, sub := range list {
				sub.removed.Store(true)
			}
		}
		c.metrics.SubscriptionsCleared(wired)
		c.metrics.SetConnected(false)

		close(c.done)
		logger.InfoF("[%s] Connection closed, %d pending calls rejected", c.id, len(pending))
	})
}

func (c *Client) readLoop() {
	defer close(c.readerDone)
	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			c.shutdown(err)
			return
		}
		if messageType != websocket.TextMessage {
			logger.DebugF("[%s] Ignoring non-text frame of type %d", c.id, messageType)
			continue
		}
		if len(data) == 0 {
			continue
		}
		c.handleFrame(data)
	}
}
