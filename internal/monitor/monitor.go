// Package monitor 轮询 LCU 进程状态，并在进程可用时维护一个客户端连接
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/client"
	c "github.com/life-stream-dev/life-stream-go-lcu-client/internal/config"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/endpoint"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/fetch"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/logger"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/remote"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/utils"
)

const DefaultPollInterval = time.Second

type Status int

const (
	Disconnected Status = iota
	Connected
)

var StatusMap = map[Status]string{
	Disconnected: "Disconnected",
	Connected:    "Connected",
}

func (s Status) String() string {
	return StatusMap[s]
}

// DialFunc 建立一条新的客户端连接
type DialFunc func(ctx context.Context, pt remote.PortToken) (*client.Client, error)

type Config struct {
	Locator remote.Locator
	Fetcher *fetch.Fetcher
	Clock   clock.Clock
	// PollInterval 为 0 时使用 DefaultPollInterval
	PollInterval   time.Duration
	StatusEndpoint string
	ClientOptions  []client.Option
	Dial           DialFunc
}

// ConfigFrom 从配置文件构造监视器配置，Locator 与 Fetcher 由调用方补充
func ConfigFrom(config c.Config) Config {
	return Config{
		PollInterval:   utils.ParseStringTimeOr(config.Monitor.PollInterval, DefaultPollInterval),
		StatusEndpoint: config.Monitor.StatusEndpoint,
	}
}

type listener struct {
	fn func(Status)
}

type Monitor struct {
	config Config

	// probeMu 保证探测不会重叠
	probeMu sync.Mutex

	mu        sync.Mutex
	status    Status
	client    *client.Client
	pt        remote.PortToken
	listeners []*listener
}

func New(config Config) (*Monitor, error) {
	if config.Locator == nil {
		return nil, errors.New("monitor: locator is required")
	}
	if config.Fetcher == nil {
		config.Fetcher = fetch.New()
	}
	if config.Clock == nil {
		config.Clock = clock.WallClock
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.StatusEndpoint == "" {
		config.StatusEndpoint = endpoint.PathSummonerStatus
	}
	if config.Dial == nil {
		opts := config.ClientOptions
		config.Dial = func(ctx context.Context, pt remote.PortToken) (*client.Client, error) {
			return client.Connect(ctx, pt, opts...)
		}
	}
	return &Monitor{config: config}, nil
}

// Current 返回最近一次发布的状态
func (m *Monitor) Current() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Client 返回当前的客户端，未连接时为 nil
func (m *Monitor) Client() *client.Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client
}

// PortToken 返回当前连接使用的端口与凭据
func (m *Monitor) PortToken() (remote.PortToken, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pt, m.client != nil
}

// Subscribe 注册状态变化监听，返回的函数用于取消
func (m *Monitor) Subscribe(fn func(Status)) func() {
	if fn == nil {
		return func() {}
	}
	l := &listener{fn: fn}
	m.mu.Lock()
	m.listeners = append(m.listeners, l)
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, item := range m.listeners {
				if item == l {
					m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Probe 执行一次探测
// 进程状态与连接状态一致时不做任何事；进程启动后先校验端口再建立新连接，
// 进程退出后关闭连接。已断开的连接会被丢弃，下一次探测重新建立。
func (m *Monitor) Probe(ctx context.Context) error {
	m.probeMu.Lock()
	defer m.probeMu.Unlock()

	m.discardDropped()

	running, err := m.config.Locator.Running(ctx)
	if err != nil {
		logger.WarnF("Fail to query remote process state, details: %v", err)
		running = false
	}

	current := m.Client()
	if running == (current != nil) {
		return nil
	}

	if !running {
		m.disconnect(current)
		return nil
	}

	pt, err := m.config.Locator.PortToken(ctx)
	if err == nil {
		err = pt.Validate()
	}
	if err != nil {
		m.setStatus(Disconnected)
		return fmt.Errorf("port token: %w", err)
	}

	if _, err := m.config.Fetcher.Fetch(ctx, m.config.StatusEndpoint, pt, nil, nil, nil); err != nil {
		logger.WarnF("Fail to validate remote at %s, details: %v", pt.Host(), err)
		m.setStatus(Disconnected)
		return fmt.Errorf("validate %s: %w", pt.Host(), err)
	}

	cl, err := m.config.Dial(ctx, pt)
	if err != nil {
		logger.WarnF("Fail to connect to %s, details: %v", pt.Host(), err)
		m.setStatus(Disconnected)
		return err
	}

	m.mu.Lock()
	m.client = cl
	m.pt = pt
	m.mu.Unlock()
	logger.InfoF("[%s] Remote available at %s", cl.ID(), pt.Host())
	m.setStatus(Connected)
	return nil
}

// discardDropped 丢弃连接已关闭的客户端
func (m *Monitor) discardDropped() {
	m.mu.Lock()
	cl := m.client
	if cl == nil {
		m.mu.Unlock()
		return
	}
	select {
	case <-cl.Done():
	default:
		m.mu.Unlock()
		return
	}
	m.client = nil
	m.pt = remote.PortToken{}
	m.mu.Unlock()

	logger.WarnF("[%s] Connection dropped, details: %v", cl.ID(), cl.Err())
	m.setStatus(Disconnected)
}

func (m *Monitor) disconnect(cl *client.Client) {
	m.mu.Lock()
	if m.client == cl {
		m.client = nil
		m.pt = remote.PortToken{}
	}
	m.mu.Unlock()

	if cl != nil {
		if err := cl.Close(); err != nil {
			logger.WarnF("[%s] Fail to close connection, details: %v", cl.ID(), err)
		}
		logger.InfoF("[%s] Remote stopped", cl.ID())
	}
	m.setStatus(Disconnected)
}

// setStatus 仅在状态变化时通知监听者，回调在锁外执行
func (m *Monitor) setStatus(status Status) {
	m.mu.Lock()
	if m.status == status {
		m.mu.Unlock()
		return
	}
	m.status = status
	targets := make([]*listener, len(m.listeners))
	copy(targets, m.listeners)
	m.mu.Unlock()

	logger.DebugF("Remote status changed to %s", status)
	for _, l := range targets {
		l.fn(status)
	}
}

// Run 立即探测一次，之后每隔 PollInterval 探测，直到 ctx 结束
// 退出前关闭当前连接
func (m *Monitor) Run(ctx context.Context) error {
	defer m.Close()
	for {
		if err := m.Probe(ctx); err != nil {
			logger.DebugF("Probe failed, details: %v", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.config.Clock.After(m.config.PollInterval):
		}
	}
}

// Close 关闭当前连接并发布 Disconnected
func (m *Monitor) Close() {
	m.probeMu.Lock()
	defer m.probeMu.Unlock()
	m.disconnect(m.Client())
}
