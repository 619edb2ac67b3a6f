package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mikajoos-cmyk/pfotencard/internal/common/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry    *prometheus.Registry
	httpReqCnt  *prometheus.CounterVec
	httpDur     *prometheus.HistogramVec
	httpInfl    *prometheus.GaugeVec
	gateCnt     *prometheus.CounterVec
	backendCnt  *prometheus.CounterVec
	backendDur  *prometheus.HistogramVec
	previewCnt  *prometheus.CounterVec
	previewSubs prometheus.Gauge
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	r := prometheus.NewRegistry()
	// Register standard process and Go collectors
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	// Register basic HTTP metrics
	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: cfg.Buckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	gateCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "gate_decisions_total"}, []string{"state"})
	r.MustRegister(gateCnt)

	backendCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "backend_requests_total"}, []string{"operation", "status"})
	backendDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "backend_request_duration_seconds", Buckets: cfg.Buckets}, []string{"operation"})
	r.MustRegister(backendCnt, backendDur)

	previewCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "preview_pushes_total"}, []string{"kind"})
	previewSubs := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: ns, Name: "preview_subscribers"})
	r.MustRegister(previewCnt, previewSubs)

	return &Metrics{
		registry:    r,
		httpReqCnt:  httpReqCnt,
		httpDur:     httpDur,
		httpInfl:    httpInfl,
		gateCnt:     gateCnt,
		backendCnt:  backendCnt,
		backendDur:  backendDur,
		previewCnt:  previewCnt,
		previewSubs: previewSubs,
	}
}

// GateDecision counts one finished gate evaluation by terminal state
func (m *Metrics) GateDecision(state string) {
	m.gateCnt.WithLabelValues(state).Inc()
}

// BackendReqDone records one finished backend API call
func (m *Metrics) BackendReqDone(operation, status string, since time.Time) {
	m.backendCnt.WithLabelValues(operation, status).Inc()
	m.backendDur.WithLabelValues(operation).Observe(time.Since(since).Seconds())
}

// PreviewPush counts one update delivered to preview surfaces
func (m *Metrics) PreviewPush(kind string) {
	m.previewCnt.WithLabelValues(kind).Inc()
}

// PreviewSubscribe tracks an attached preview surface
func (m *Metrics) PreviewSubscribe() {
	m.previewSubs.Inc()
}

// PreviewUnsubscribe tracks a detached preview surface
func (m *Metrics) PreviewUnsubscribe() {
	m.previewSubs.Dec()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := httpStatus(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func httpStatus(code int) string { return strconv.Itoa(code) }
