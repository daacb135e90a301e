package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/promptfactory/pkg/catalog"
	"mercator-hq/promptfactory/pkg/cli"
	"mercator-hq/promptfactory/pkg/config"
	"mercator-hq/promptfactory/pkg/override"
)

var watchFlags struct {
	node     string
	seed     uint64
	set      []string
	rules    string
	debounce time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild a prompt whenever the catalog changes",
	Long: `Build a node, then rebuild it with the same seed every time a catalog
document changes. A catalog that fails to load is reported and the
previous snapshot stays in use. Stop with Ctrl+C.

Examples:
  promptfactory watch --node portrait --seed 42
  promptfactory watch --node portrait --debounce 500ms`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.node, "node", "n", "", "node ID to build (required)")
	watchCmd.Flags().Uint64VarP(&watchFlags.seed, "seed", "s", 0, "random seed (default from config)")
	watchCmd.Flags().StringArrayVar(&watchFlags.set, "set", nil, "override a tag as key=value (repeatable)")
	watchCmd.Flags().StringVarP(&watchFlags.rules, "rules", "r", "", "rule set applied after building")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 0, "quiet period before reloading (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchFlags.node == "" {
		return cli.NewConfigError("node", "--node must be specified")
	}
	overrides, err := override.ParseAssignments(watchFlags.set)
	if err != nil {
		return cli.NewConfigError("set", err.Error())
	}

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.watchNode(cmd, watchFlags.node, watchFlags.seed, overrides, watchFlags.rules, watchFlags.debounce)
}

// watchNode prints node's prompt, then prints it again after every catalog
// reload and every change of the config file until interrupted. The seed
// and rule set flags fall back to the current config on each rebuild. A
// zero debounce uses the configured one.
func (a *app) watchNode(cmd *cobra.Command, node string, seedFlag uint64, overrides override.Overrides, rulesFlag string, debounce time.Duration) error {
	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	var mu sync.Mutex
	rebuild := func() {
		mu.Lock()
		defer mu.Unlock()
		rec, err := a.build(ctx, node, a.seed(cmd, seedFlag), overrides, a.ruleSet(rulesFlag))
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ Error: %v\n", err)
			return
		}
		fmt.Fprintln(a.out, rec.Prompt)
	}

	rebuild()
	a.registry.OnReload(func(_ *catalog.Snapshot, err error, _ time.Duration) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ Catalog reload failed: %v\n", err)
			return
		}
		rebuild()
	})

	if debounce == 0 {
		debounce = config.MustGetConfig().Catalog.Debounce
	}

	stopConfig, err := a.watchConfig(ctx, debounce, func(err error) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ Config reload failed: %v\n", err)
			return
		}
		rebuild()
	})
	if err != nil {
		return err
	}
	defer stopConfig()

	return a.registry.Watch(ctx, debounce)
}

// watchConfig reloads the global configuration whenever the config file
// changes and reports each attempt to onReload. A missing config file is
// not watched. The returned function stops watching.
func (a *app) watchConfig(ctx context.Context, debounce time.Duration, onReload func(error)) (func(), error) {
	if _, err := os.Stat(cfgFile); err != nil {
		return func() {}, nil
	}

	wcfg := catalog.DefaultFileWatcherConfig()
	wcfg.Paths = []string{cfgFile}
	wcfg.DebounceInterval = debounce
	fw, err := catalog.NewFileWatcher(wcfg, a.logger)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := fw.Watch(ctx, func() error {
			_, err := config.ReloadConfig(cfgFile, applyFlags)
			if err == nil {
				a.logger.Info("configuration reloaded", "path", cfgFile)
			}
			onReload(err)
			return err
		})
		if err != nil {
			a.logger.Error("config watch stopped", "path", cfgFile, "error", err)
		}
	}()

	return func() {
		_ = fw.Stop()
		<-done
	}, nil
}
