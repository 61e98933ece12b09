// Package telemetry はOpenTelemetryによる分散トレーシングの初期化を提供する。
package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ShutdownFunc はトレーサープロバイダーを停止し、未送信のスパンをフラッシュする。
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Options はOTLPエクスポーターの設定。
type Options struct {
	Endpoint    string
	Insecure    bool
	ServiceName string
}

// Setup はOTLP/gRPCエクスポーターを持つトレーサープロバイダーをグローバルに設定する。
// Endpointが空の場合は何もせず、何もしないShutdownFuncを返す。
// エクスポーター生成に失敗してもサーバーの起動は妨げず、警告ログを出してトレーシングを無効化する。
func Setup(ctx context.Context, opts Options) ShutdownFunc {
	if opts.Endpoint == "" {
		return noopShutdown
	}

	exporterOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		slog.Warn("failed to create OTLP exporter, tracing disabled",
			slog.String("endpoint", opts.Endpoint),
			slog.String("error", err.Error()),
		)
		return noopShutdown
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(opts.ServiceName)))
	if err != nil {
		slog.Warn("failed to build OTel resource",
			slog.String("error", err.Error()),
		)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	slog.Info("tracing enabled",
		slog.String("endpoint", opts.Endpoint),
		slog.String("service", opts.ServiceName),
	)

	return provider.Shutdown
}
