package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/client"
	c "github.com/life-stream-dev/life-stream-go-lcu-client/internal/config"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/endpoint"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/fetch"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/journal"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/logger"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/metrics"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/monitor"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/remote"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/shutdown"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// app 保存所有子命令共享的组件
type app struct {
	configPath string

	config   c.Config
	cleaner  *shutdown.Cleaner
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	fetcher  *fetch.Fetcher
	locator  remote.Locator
}

func (a *app) init() error {
	config, err := c.ReadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("error occured while reading config: %w", err)
	}
	a.config = config

	loggerCallback := logger.Init(config)
	logger.Debug("Application initializing...")
	a.cleaner = shutdown.NewCleaner()
	a.cleaner.Init(loggerCallback)

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(a.registry)
	a.fetcher = fetch.New(fetch.WithMetrics(a.metrics))
	a.locator = remote.NewStaticLocator(config)

	if config.Metrics.Listen != "" {
		a.serveMetrics(config.Metrics.Listen)
	}
	return nil
}

// serveMetrics 在后台提供 /metrics，进程退出时关闭
func (a *app) serveMetrics(listen string) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: listen, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.InfoF("Metrics listening on %s", listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorF("Fail to serve metrics, details: %v", err)
		}
	}()
	a.cleaner.Add(shutdown.CallableFunc(srv.Shutdown))
}

func (a *app) portToken(ctx context.Context) (remote.PortToken, error) {
	running, err := a.locator.Running(ctx)
	if err != nil {
		return remote.PortToken{}, err
	}
	if !running {
		return remote.PortToken{}, remote.ErrNotRunning
	}
	return a.locator.PortToken(ctx)
}

// connect 校验端口后建立一条连接，连接在进程退出时关闭
func (a *app) connect(ctx context.Context, opts ...client.Option) (*client.Client, remote.PortToken, error) {
	pt, err := a.portToken(ctx)
	if err != nil {
		return nil, pt, err
	}
	if _, err := a.fetcher.Fetch(ctx, a.statusEndpoint(), pt, nil, nil, nil); err != nil {
		return nil, pt, fmt.Errorf("validate %s: %w", pt.Host(), err)
	}
	opts = append([]client.Option{client.WithMetrics(a.metrics)}, opts...)
	cl, err := client.Connect(ctx, pt, opts...)
	if err != nil {
		return nil, pt, err
	}
	a.cleaner.Add(shutdown.CallableFunc(func(context.Context) error { return cl.Close() }))
	return cl, pt, nil
}

func (a *app) statusEndpoint() string {
	if e := monitor.ConfigFrom(a.config).StatusEndpoint; e != "" {
		return e
	}
	return endpoint.PathSummonerStatus
}

// openJournal 根据配置选择 MongoDB 或内存存储
func (a *app) openJournal(ctx context.Context, connection string) (*journal.Recorder, journal.Store, error) {
	var store journal.Store
	if a.config.Journal.Enabled {
		db, err := journal.Connect(ctx, a.config)
		if err != nil {
			return nil, nil, err
		}
		store = db
	} else {
		store = journal.NewMemoryStore(0)
	}
	recorder := journal.NewRecorder(store, connection, 0)
	a.cleaner.Add(recorder)
	return recorder, store, nil
}

// parsePairs 解析 key=value 形式的参数
func parsePairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid pair %q, expected key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}

// parseQuery 与 parsePairs 相同，但同名键会合并为列表
func parseQuery(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query %q, expected key=value", pair)
		}
		switch existing := out[key].(type) {
		case nil:
			out[key] = value
		case string:
			out[key] = []string{existing, value}
		case []string:
			out[key] = append(existing, value)
		}
	}
	return out, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
