// Package logger はJSON構造化ログの初期化を提供する。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup は指定レベル以上を出力するJSON構造化ログのslog.Loggerを生成して返す。
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// SetupDefault はJSON構造化ログ出力をグローバルロガーとして設定する。
// ログレベルは設定読み込み前に決める必要があるため、環境変数LOG_LEVELを直接参照する。
// writerがnilの場合はos.Stdoutに出力する。
func SetupDefault(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	logger := Setup(w, ParseLevel(os.Getenv("LOG_LEVEL")))
	slog.SetDefault(logger)
	return logger
}

// ParseLevel はdebug/info/warn/errorの文字列をslog.Levelに変換する。
// 未知の値や空文字列はInfoとして扱う。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
