package middleware

import (
	"net/http"
	"time"

	"github.com/hitoshi/diety/internal/metrics"
)

// unmatchedRoute はどのルートにもマッチしなかったリクエストのラベル。
const unmatchedRoute = "unmatched"

// NewMetricsMiddleware はステータスコードとルート別の処理時間を記録するミドルウェアを返す。
// chiのルーター内で使用すること（ルートパターンをラベルに使う）。
func NewMetricsMiddleware(collector metrics.MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			route := routePattern(r)
			if route == "" {
				route = unmatchedRoute
			}
			collector.RecordHTTPStatus(rec.statusCode)
			collector.RecordRequestLatency(r.Method+" "+route, time.Since(start))
		})
	}
}
