package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// HealthChecker はヘルスチェックで疎通を確認する依存先。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// healthCheckTimeout はDBへの疎通確認の上限時間。
const healthCheckTimeout = 2 * time.Second

type healthResponse struct {
	Status string `json:"status"`
}

// NewHealthHandler はDBへの疎通を確認するヘルスチェックハンドラーを返す。
// 疎通できれば200、できなければ503を返す。
func NewHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := checker.PingContext(ctx); err != nil {
			slog.WarnContext(r.Context(), "health check failed", slog.String("error", err.Error()))
			writeJSON(w, r, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
		writeJSON(w, r, http.StatusOK, healthResponse{Status: "ok"})
	}
}
