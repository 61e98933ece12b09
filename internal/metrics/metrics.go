// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ミドルウェアやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(route string, duration time.Duration)
	RecordUserRegistered()
	RecordSessionIssued()
	RecordLoginFailure()
	RecordEntryCreated()
	RecordEntryUpdated()
	RecordEntryDeleted()
	RecordSummaryComputed(total int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus      *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	usersRegistered prometheus.Counter
	sessionsIssued  prometheus.Counter
	loginFailures   prometheus.Counter
	entryOperations *prometheus.CounterVec
	summaryEntries  prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "diety_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "diety_http_request_duration_seconds",
			Help:    "ルート別のリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "diety_users_registered_total",
			Help: "登録されたユーザーの合計数",
		}),
		sessionsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "diety_sessions_issued_total",
			Help: "新規に発行されたセッションIDの合計数",
		}),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "diety_login_failures_total",
			Help: "認証情報不一致によるログイン失敗の合計数",
		}),
		entryOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "diety_diet_entry_operations_total",
			Help: "操作種別ごとの食事記録の変更数",
		}, []string{"operation"}),
		summaryEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "diety_summary_entries",
			Help:    "サマリー計算1回あたりの食事記録数",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.usersRegistered,
		c.sessionsIssued,
		c.loginFailures,
		c.entryOperations,
		c.summaryEntries,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はルートパターン単位でリクエスト処理時間を記録する。
// routeには実パスではなくchiのルートパターンを渡すこと（ラベルの爆発を防ぐ）。
func (c *Collector) RecordRequestLatency(route string, duration time.Duration) {
	c.requestLatency.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordUserRegistered はユーザー登録を記録する。
func (c *Collector) RecordUserRegistered() {
	c.usersRegistered.Inc()
}

// RecordSessionIssued はセッションIDの新規発行を記録する。
func (c *Collector) RecordSessionIssued() {
	c.sessionsIssued.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFailures.Inc()
}

// RecordEntryCreated は食事記録の作成を記録する。
func (c *Collector) RecordEntryCreated() {
	c.entryOperations.WithLabelValues("create").Inc()
}

// RecordEntryUpdated は食事記録の更新を記録する。
func (c *Collector) RecordEntryUpdated() {
	c.entryOperations.WithLabelValues("update").Inc()
}

// RecordEntryDeleted は食事記録の削除を記録する。
func (c *Collector) RecordEntryDeleted() {
	c.entryOperations.WithLabelValues("delete").Inc()
}

// RecordSummaryComputed はサマリー計算の対象件数を記録する。
func (c *Collector) RecordSummaryComputed(total int) {
	c.summaryEntries.Observe(float64(total))
}

// NopCollector は何も記録しないMetricsCollector。
type NopCollector struct{}

func (NopCollector) RecordHTTPStatus(int) {}
func (NopCollector) RecordRequestLatency(string, time.Duration) {}
func (NopCollector) RecordUserRegistered() {}
func (NopCollector) RecordSessionIssued() {}
func (NopCollector) RecordLoginFailure() {}
func (NopCollector) RecordEntryCreated() {}
func (NopCollector) RecordEntryUpdated() {}
func (NopCollector) RecordEntryDeleted() {}
func (NopCollector) RecordSummaryComputed(int) {}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = NopCollector{}
)

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
