// Package metrics はゲートウェイのPrometheusメトリクスを定義する。
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 結果ラベルの値。
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	// HTTPRequests はHTTPリクエスト数。
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cardhub_http_requests_total",
		Help: "Total number of HTTP requests handled by the gateway.",
	}, []string{"method", "route", "status"})

	// HTTPDuration はHTTPリクエストの処理時間。
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cardhub_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// UpstreamRequests は上流API（apitcg、Scryfall）への呼び出し数。
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cardhub_upstream_requests_total",
		Help: "Total number of calls to upstream card APIs.",
	}, []string{"upstream", "outcome"})

	// StoreQueries はドキュメントストアへのクエリ数。
	StoreQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cardhub_store_queries_total",
		Help: "Total number of document store queries.",
	}, []string{"op", "outcome"})
)

// ObserveHTTP は1件のHTTPリクエストを記録する。
func ObserveHTTP(method, route string, status int, start time.Time) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// ObserveUpstream は上流呼び出しの結果を記録する。
func ObserveUpstream(upstream string, err error) {
	UpstreamRequests.WithLabelValues(upstream, outcome(err)).Inc()
}

// ObserveStore はストアクエリの結果を記録する。
func ObserveStore(op string, err error) {
	StoreQueries.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
