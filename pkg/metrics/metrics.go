// Package metrics 提供 Prometheus helper，包含常用 counter/gauge/histogram 模板
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyfcoding/videorating/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration prometheus.Histogram

	// 数据库查询计数
	DBQueriesTotal prometheus.Counter
	// 数据库查询耗时
	DBQueryDuration prometheus.Histogram

	// 业务指标
	UsersRegisteredTotal    prometheus.Counter
	UsersDeletedTotal       prometheus.Counter
	RatingsCreatedTotal     prometheus.Counter
	RatingVisibilityUpdates prometheus.Counter
	ComparisonsCreatedTotal prometheus.Counter
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "videorating",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "videorating",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		DBQueriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "videorating",
			Subsystem: serviceName,
			Name:      "db_queries_total",
			Help:      "Total database queries",
		}),
		DBQueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "videorating",
			Subsystem: serviceName,
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		UsersRegisteredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "videorating",
			Subsystem: serviceName,
			Name:      "users_registered_total",
			Help:      "Total registered users",
		}),
		UsersDeletedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "videorating",
			Subsystem: serviceName,
			Name:      "users_deleted_total",
			Help:      "Total deleted users",
		}),
		RatingsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "videorating",
			Subsystem: serviceName,
			Name:      "ratings_created_total",
			Help:      "Total contributor ratings created",
		}),
		RatingVisibilityUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "videorating",
			Subsystem: serviceName,
			Name:      "rating_visibility_updates_total",
			Help:      "Total rating visibility updates (single and bulk)",
		}),
		ComparisonsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "videorating",
			Subsystem: serviceName,
			Name:      "comparisons_created_total",
			Help:      "Total comparisons created",
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.UsersRegisteredTotal,
		m.UsersDeletedTotal,
		m.RatingsCreatedTotal,
		m.RatingVisibilityUpdates,
		m.ComparisonsCreatedTotal,
	}

	for _, c := range collectors {
		if err := prometheus.DefaultRegisterer.Register(c); err != nil {
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}
	return nil
}

// StartHTTPServer 启动 Prometheus HTTP 服务器
func StartHTTPServer(port int, path string) error {
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "Starting Prometheus HTTP server", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error(context.Background(), "Failed to start Prometheus HTTP server", "error", err)
		}
	}()

	return nil
}
