package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hitoshi/diety/internal/auth"
	"github.com/hitoshi/diety/internal/config"
	"github.com/hitoshi/diety/internal/database"
	"github.com/hitoshi/diety/internal/diet"
	"github.com/hitoshi/diety/internal/handler"
	"github.com/hitoshi/diety/internal/logger"
	"github.com/hitoshi/diety/internal/metrics"
	"github.com/hitoshi/diety/internal/repository"
	"github.com/hitoshi/diety/internal/security"
	"github.com/hitoshi/diety/internal/telemetry"
	"github.com/hitoshi/diety/internal/user"
)

// defaultServerPort はSERVER_PORT未設定時のポート番号。
const defaultServerPort = "3333"

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd, err := ParseCommand(args)
	if err != nil {
		return err
	}

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = defaultServerPort
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("route_prefix", cfg.RoutePrefix),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. 必要ならマイグレーションを適用
	if cfg.AutoMigrate {
		if err := runMigrate(cfg); err != nil {
			return err
		}
	}

	// 3. トレーシングの初期化（エンドポイント未設定なら何もしない）
	shutdownTracing := telemetry.Setup(context.Background(), telemetry.Options{
		Endpoint:    cfg.OTELEndpoint,
		Insecure:    cfg.OTELInsecure,
		ServiceName: cfg.OTELServiceName,
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			slog.Warn("failed to shutdown tracer provider", slog.String("error", err.Error()))
		}
	}()

	// 4. ルーターの構築
	router := newHandler(cfg, db, prometheus.NewRegistry())

	// 5. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serverErr:
		return fmt.Errorf("server listen error: %w", err)
	}
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// newHandler はリポジトリ・サービス・ハンドラーをワイヤリングし、
// トレーシングで包んだHTTPハンドラーを返す。
// メトリクスはregに登録され、/metricsで公開される。
func newHandler(cfg *config.Config, db *sql.DB, reg *prometheus.Registry) http.Handler {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "diety"),
	)
	collector := metrics.NewCollector(reg)

	// 1. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	dietRepo := repository.NewPostgresDietEntryRepo(db)

	// 2. ドメインサービスの初期化
	authService := auth.NewService(userRepo, collector)
	userService := user.NewService(userRepo, collector)
	dietService := diet.NewService(dietRepo, security.NewMarkupChecker(), collector)

	// 3. ルーターの構築
	router := handler.NewRouter(&handler.RouterDeps{
		RoutePrefix:        cfg.RoutePrefix,
		Logger:             slog.Default(),
		Metrics:            collector,
		MetricsHandler:     metrics.Handler(reg),
		SessionResolver:    authService,
		SessionRequireUser: cfg.SessionRequireUser,
		CORSAllowedOrigin:  cfg.CORSAllowedOrigin,
		HealthChecker:      db,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		UserService: userService,
		DietService: dietService,
	})

	return otelhttp.NewHandler(router, cfg.OTELServiceName)
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	version, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully",
		slog.Uint64("version", uint64(version)),
	)
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
// URLとして解析できない場合は全体を伏せる。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}
