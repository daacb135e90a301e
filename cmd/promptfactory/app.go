package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/promptfactory/pkg/catalog"
	"mercator-hq/promptfactory/pkg/cli"
	"mercator-hq/promptfactory/pkg/config"
	"mercator-hq/promptfactory/pkg/prompt"
	"mercator-hq/promptfactory/pkg/telemetry/logging"
	"mercator-hq/promptfactory/pkg/telemetry/metrics"
	"mercator-hq/promptfactory/pkg/telemetry/tracing"
)

// shutdownTimeout bounds flushing spans on exit.
const shutdownTimeout = 5 * time.Second

// app holds the components shared by the commands.
type app struct {
	logger   *slog.Logger
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	registry *catalog.Registry
	builder  *prompt.Builder
	out      io.Writer
}

// newApp publishes the configuration and sets up telemetry. The catalog is
// loaded only when loadCatalog is true.
func newApp(cmd *cobra.Command, loadCatalog bool) (*app, error) {
	cfg, err := config.ReloadConfig(cfgFile, applyFlags)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, cmd.ErrOrStderr()))
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, cmd.ErrOrStderr())
	if err != nil {
		return nil, cli.NewConfigError("telemetry.tracing", err.Error())
	}

	a := &app{
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
		tracer:  tracer,
		out:     cmd.OutOrStdout(),
	}

	loader := catalog.NewLoader(&catalog.LoaderConfig{
		MaxFileSize:       cfg.Catalog.MaxFileSize,
		AllowedExtensions: cfg.Catalog.Extensions,
		FollowSymlinks:    true,
		SkipHidden:        true,
	}, logger)
	a.registry = catalog.NewRegistry(loader, catalog.Paths{
		NodesDir:      cfg.Catalog.NodesDir,
		VariablesFile: cfg.Catalog.VariablesFile,
		RulesDir:      cfg.Catalog.RulesDir,
	}, logger)
	a.registry.OnReload(a.recordReload)

	a.builder = prompt.NewBuilder(a.registry,
		prompt.WithLogger(logger),
		prompt.WithMetrics(a.metrics),
		prompt.WithTracer(tracer),
	)

	if loadCatalog {
		if _, err := a.registry.Load(); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

// applyFlags applies the global flags on top of a loaded configuration.
func applyFlags(cfg *config.Config) {
	if catalogDir != "" {
		cfg.Catalog.NodesDir = filepath.Join(catalogDir, "nodes")
		cfg.Catalog.VariablesFile = variablesFile(catalogDir)
		cfg.Catalog.RulesDir = filepath.Join(catalogDir, "rules")
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
}

// variablesFile picks the global variables document of a catalog
// directory, preferring JSON.
func variablesFile(dir string) string {
	for _, name := range []string{"variables.json", "variables.yaml", "variables.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			return path
		}
	}
	return filepath.Join(dir, "variables.json")
}

func (a *app) recordReload(snap *catalog.Snapshot, err error, elapsed time.Duration) {
	if err != nil {
		a.metrics.RecordReload(metrics.StatusError, elapsed, -1, 0, 0)
		return
	}
	a.metrics.RecordReload(metrics.StatusSuccess, elapsed, len(snap.Nodes), len(snap.Rules.Names()), snap.Files)
}

// Close writes the metrics textfile and flushes pending spans.
func (a *app) Close() {
	textfile := config.MustGetConfig().Telemetry.Metrics.Textfile
	if err := a.metrics.WriteTextfile(textfile); err != nil {
		a.logger.Error("failed to write metrics textfile", "path", textfile, "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Error("failed to shut down tracer", "error", err)
	}
}

// seed returns the --seed flag when given, else the configured default.
// The default is read on every call so watch sees a reloaded config file.
func (a *app) seed(cmd *cobra.Command, flag uint64) uint64 {
	if f := cmd.Flags().Lookup("seed"); f != nil && f.Changed {
		return flag
	}
	return config.MustGetConfig().Build.Seed
}

// ruleSet returns the --rules flag when given, else the configured default.
func (a *app) ruleSet(flag string) string {
	if flag != "" {
		return flag
	}
	return config.MustGetConfig().Build.RuleSet
}

// commandContext returns the command's context, or a background context
// when the command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// formatter returns the formatter for the global --format flag.
func formatter() (cli.Formatter, cli.OutputFormat, error) {
	format, err := cli.ParseFormat(outFormat)
	if err != nil {
		return nil, "", cli.NewConfigError("format", err.Error())
	}
	return cli.NewFormatter(format), format, nil
}
