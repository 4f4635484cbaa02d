// Package metrics 定义客户端、资源请求与连接监控的 Prometheus 指标
// 所有方法在 nil *Metrics 上调用时不做任何事
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lcu"

type Metrics struct {
	calls           *prometheus.CounterVec
	frames          *prometheus.CounterVec
	framesDropped   *prometheus.CounterVec
	eventsDispatch  *prometheus.CounterVec
	subscriptions   prometheus.Gauge
	fetchDuration   *prometheus.HistogramVec
	connectionState prometheus.Gauge
}

// New 在 registry 上注册全部指标，registry 为 nil 时返回 nil
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		return nil
	}
	factory := promauto.With(registry)

	return &Metrics{
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_total",
			Help:      "Total number of RPC calls by outcome",
		}, []string{"outcome"}),

		frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total number of inbound frames by message type",
		}, []string{"kind"}),

		framesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Total number of inbound frames or events dropped",
		}, []string{"reason"}),

		eventsDispatch: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dispatched_total",
			Help:      "Total number of events delivered to subscribers",
		}, []string{"event"}),

		subscriptions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscriptions",
			Help:      "Number of topics currently subscribed on the wire",
		}),

		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Resource fetch duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		connectionState: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_state",
			Help:      "1 when the persistent connection is established, 0 otherwise",
		}),
	}
}

func (m *Metrics) CallFinished(outcome string) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(outcome).Inc()
}

func (m *Metrics) FrameReceived(kind string) {
	if m == nil {
		return
	}
	m.frames.WithLabelValues(kind).Inc()
}

func (m *Metrics) FrameDropped(reason string) {
	if m == nil {
		return
	}
	m.framesDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) EventDispatched(event string) {
	if m == nil {
		return
	}
	m.eventsDispatch.WithLabelValues(event).Inc()
}

func (m *Metrics) SubscriptionAdded() {
	if m == nil {
		return
	}
	m.subscriptions.Inc()
}

func (m *Metrics) SubscriptionRemoved() {
	if m == nil {
		return
	}
	m.subscriptions.Dec()
}

// SubscriptionsCleared 在连接关闭时扣除该连接的全部订阅
func (m *Metrics) SubscriptionsCleared(n int) {
	if m == nil {
		return
	}
	m.subscriptions.Sub(float64(n))
}

func (m *Metrics) FetchObserved(method string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.fetchDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) SetConnected(connected bool) {
	if m == nil {
		return
	}
	if connected {
		m.connectionState.Set(1)
	} else {
		m.connectionState.Set(0)
	}
}
