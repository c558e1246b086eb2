package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 服务级指标集合, 每个服务持有独立的注册表
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	CronJobRunsTotal   *prometheus.CounterVec
	CronJobErrorsTotal *prometheus.CounterVec
	CronJobDuration    *prometheus.HistogramVec

	// DomainEvents 业务事件计数, 例如权限切换、整改状态流转、GHG 导入行数
	DomainEvents *prometheus.CounterVec
}

// New 创建指标集合并注册默认采集器
func New(service string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	constLabels := prometheus.Labels{"service": service}
	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CronJobRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "cron_job_runs_total",
			Help:        "Total number of cron job runs",
			ConstLabels: constLabels,
		}, []string{"job_name"}),
		CronJobErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "cron_job_errors_total",
			Help:        "Total number of cron job errors",
			ConstLabels: constLabels,
		}, []string{"job_name"}),
		CronJobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "cron_job_run_duration_seconds",
			Help:        "Duration of cron job runs in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(0.001, 2, 15),
		}, []string{"job_name"}),
		DomainEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "domain_events_total",
			Help:        "Total number of domain events",
			ConstLabels: constLabels,
		}, []string{"event"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CronJobRunsTotal,
		m.CronJobErrorsTotal,
		m.CronJobDuration,
		m.DomainEvents,
	)
	return m
}

// Registry 获取注册表
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 暴露 /metrics 的处理函数
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
}

// Middleware HTTP请求指标中间件
func (m *Metrics) Middleware(skipPaths ...string) fiber.Handler {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		if _, ok := skip[c.Path()]; ok {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// ObserveJob 记录一次定时任务执行
func (m *Metrics) ObserveJob(name string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.CronJobRunsTotal.WithLabelValues(name).Inc()
	m.CronJobDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.CronJobErrorsTotal.WithLabelValues(name).Inc()
	}
}

// Inc 业务事件计数加一
func (m *Metrics) Inc(event string) {
	m.Add(event, 1)
}

// Add 业务事件计数
func (m *Metrics) Add(event string, n float64) {
	if m == nil {
		return
	}
	m.DomainEvents.WithLabelValues(event).Add(n)
}
