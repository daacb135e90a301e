// Package telemetry groups the observability packages of Prompt Factory.
//
// # Components
//
//   - logging: Structured logging with log/slog and context fields
//   - metrics: Prometheus metrics written to a textfile
//   - tracing: OpenTelemetry tracing with a stdout exporter
//
// # Usage
//
//	cfg := config.GetConfig()
//
//	logger, err := logging.FromConfig(cfg.Telemetry.Logging, os.Stderr)
//	if err != nil {
//	    return err
//	}
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	defer collector.WriteTextfile(cfg.Telemetry.Metrics.Textfile)
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
// Each component is configured under the telemetry section of the
// configuration file and is independent of the others.
package telemetry
