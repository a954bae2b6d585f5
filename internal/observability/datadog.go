// Package observability provides OpenTelemetry integration for distributed
// tracing.
//
// Traces are exported over OTLP HTTP to a local Datadog Agent rather than
// directly to the Datadog API: the agent buffers and retries locally, and
// handles authentication so the app never sees DD_API_KEY. Tracing is
// opt-in; with no agent host configured the subsystem is a no-op.
//
// Environment variables (optional):
//   - DD_AGENT_HOST: agent OTLP endpoint (e.g. localhost:4318)
//
// Config file (~/.socialproof/config.yaml):
//
//	datadog:
//	  agent_host: "localhost:4318"
//	  environment: "dev"
//	  service_name: "socialproof"
package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/firebase/genkit/go/core/tracing"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config for the Datadog OTLP exporter.
type Config struct {
	// AgentHost is the Datadog Agent OTLP endpoint. Empty disables tracing.
	AgentHost string
	// Environment is the deployment environment tag (dev, staging, prod).
	Environment string
	// ServiceName is the service name shown in Datadog APM.
	ServiceName string
}

// noopShutdown is returned when tracing is disabled or degraded.
func noopShutdown(context.Context) error { return nil }

// Setup registers a Datadog Agent exporter with Genkit's TracerProvider.
// Returns a shutdown function that flushes pending spans.
//
// Setup never fails the application: with an empty AgentHost tracing is
// simply disabled, and an exporter construction error degrades to a no-op
// with a warning.
func Setup(ctx context.Context, cfg Config, logger *slog.Logger) (shutdown func(context.Context) error, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AgentHost == "" {
		logger.Debug("tracing disabled, no agent host configured")
		return noopShutdown, nil
	}

	// Genkit's TracerProvider reads service identity from the standard
	// OTEL environment variables.
	if cfg.ServiceName != "" {
		_ = os.Setenv("OTEL_SERVICE_NAME", cfg.ServiceName)
	}
	if cfg.Environment != "" {
		_ = os.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment="+cfg.Environment)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.AgentHost),
		otlptracehttp.WithInsecure(), // local agent, no TLS
	)
	if err != nil {
		logger.Warn("failed to create trace exporter, tracing disabled", "error", err)
		return noopShutdown, nil
	}

	processor := sdktrace.NewBatchSpanProcessor(exporter)
	tracing.TracerProvider().RegisterSpanProcessor(processor)

	logger.Debug("datadog tracing enabled",
		"agent", cfg.AgentHost,
		"service", cfg.ServiceName,
		"environment", cfg.Environment)

	return tracing.TracerProvider().Shutdown, nil
}
