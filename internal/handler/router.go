package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/diety/internal/metrics"
	"github.com/hitoshi/diety/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ルーティング
	RoutePrefix string

	// ミドルウェア依存
	Logger             *slog.Logger
	Metrics            metrics.MetricsCollector
	MetricsHandler     http.Handler
	SessionResolver    middleware.SessionResolver
	SessionRequireUser bool
	CORSAllowedOrigin  string

	// ヘルスチェック
	HealthChecker HealthChecker

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ユーザー
	UserService UserServiceInterface

	// 食事記録
	DietService DietServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → SecurityHeaders → CORS → (Session)
//
// /users と /sessions はセッションミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	prefix := deps.RoutePrefix
	if prefix == "" {
		prefix = "/"
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewMetricsMiddleware(collector))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	userHandler := NewUserHandler(deps.UserService)
	dietHandler := NewDietHandler(deps.DietService)

	// --- プレフィックス外の運用エンドポイント ---
	if deps.HealthChecker != nil {
		r.Get("/health", NewHealthHandler(deps.HealthChecker))
	}
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route(prefix, func(r chi.Router) {
		// --- 認証不要のルート ---
		r.Post("/users", userHandler.Register)
		r.Post("/sessions", authHandler.Login)

		// --- セッションが必要なルート ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewSessionMiddleware(deps.SessionResolver, deps.SessionRequireUser))

			r.Post("/", dietHandler.Create)
			r.Get("/", dietHandler.List)
			r.Get("/summary", dietHandler.Summary)
			r.Get("/{id}", dietHandler.Get)
			r.Put("/{id}", dietHandler.Update)
			r.Delete("/{id}", dietHandler.Delete)
		})
	})

	return r
}
