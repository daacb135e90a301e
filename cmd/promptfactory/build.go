package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mercator-hq/promptfactory/pkg/cli"
	"mercator-hq/promptfactory/pkg/config"
	"mercator-hq/promptfactory/pkg/override"
	"mercator-hq/promptfactory/pkg/prompt"
)

var buildFlags struct {
	node     string
	seed     uint64
	set      []string
	rules    string
	count    int
	progress bool
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build prompts for a node",
	Long: `Build one or more prompts by sampling a node's tag tree.

Overrides replace a tag's behaviour for this build only. The value decides
the kind of override:
  - "random"          sample normally (default)
  - "none"            drop the tag
  - "true" / "false"  enable or disable the tag
  - a number in [0,1] replace the tag's probability
  - anything else     force the named alternative

With --count N, seeds seed, seed+1, ... seed+N-1 are built. When the
configuration sets catalog.watch, a single text build keeps running and
rebuilds on every catalog change like the watch command.

Examples:
  # One prompt
  promptfactory build --node portrait --seed 42

  # Force an alternative and drop a tag
  promptfactory build --node portrait --set outfit=formal --set extra=none

  # Apply a rule set after building
  promptfactory build --node portrait --rules cleanup

  # Ten prompts as JSON
  promptfactory build --node portrait --count 10 --format json`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildFlags.node, "node", "n", "", "node ID to build (required)")
	buildCmd.Flags().Uint64VarP(&buildFlags.seed, "seed", "s", 0, "random seed (default from config)")
	buildCmd.Flags().StringArrayVar(&buildFlags.set, "set", nil, "override a tag as key=value (repeatable)")
	buildCmd.Flags().StringVarP(&buildFlags.rules, "rules", "r", "", "rule set applied after building (\"all\" for every rule)")
	buildCmd.Flags().IntVar(&buildFlags.count, "count", 1, "number of prompts to build")
	buildCmd.Flags().BoolVar(&buildFlags.progress, "progress", false, "report progress on stderr")
}

// buildRecord is one built prompt in structured output.
type buildRecord struct {
	Node   string       `json:"node" yaml:"node"`
	Seed   uint64       `json:"seed" yaml:"seed"`
	Prompt string       `json:"prompt" yaml:"prompt"`
	Tags   []prompt.Tag `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildFlags.node == "" {
		return cli.NewConfigError("node", "--node must be specified")
	}
	if buildFlags.count < 1 {
		return cli.NewConfigError("count", "must be at least 1")
	}

	overrides, err := override.ParseAssignments(buildFlags.set)
	if err != nil {
		return cli.NewConfigError("set", err.Error())
	}

	f, format, err := formatter()
	if err != nil {
		return err
	}

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if config.MustGetConfig().Catalog.Watch && buildFlags.count == 1 && format == cli.FormatText {
		return a.watchNode(cmd, buildFlags.node, buildFlags.seed, overrides, buildFlags.rules, 0)
	}
	first := a.seed(cmd, buildFlags.seed)

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	var progress cli.ProgressReporter = cli.NopProgress{}
	if buildFlags.progress {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr())
	}

	records := make([]buildRecord, 0, buildFlags.count)
	progress.Start(int64(buildFlags.count))
	for i := 0; i < buildFlags.count; i++ {
		if err := ctx.Err(); err != nil {
			progress.Error(err)
			return err
		}

		rec, err := a.build(ctx, buildFlags.node, first+uint64(i), overrides, a.ruleSet(buildFlags.rules))
		if err != nil {
			progress.Error(err)
			return cli.NewCommandError("build", err)
		}
		records = append(records, rec)
		progress.Update(int64(i + 1))
	}
	progress.Finish()

	switch format {
	case cli.FormatText:
		lines := make([]string, len(records))
		for i, r := range records {
			lines[i] = r.Prompt
		}
		return f.FormatTo(a.out, lines)
	case cli.FormatCSV:
		table := &cli.Table{Headers: []string{"node", "seed", "prompt"}}
		for _, r := range records {
			table.Append(r.Node, strconv.FormatUint(r.Seed, 10), r.Prompt)
		}
		return f.FormatTo(a.out, table)
	default:
		if len(records) == 1 {
			return f.FormatTo(a.out, records[0])
		}
		return f.FormatTo(a.out, records)
	}
}

// build builds one prompt and applies ruleSet when it is not empty.
func (a *app) build(ctx context.Context, node string, seed uint64, overrides override.Overrides, ruleSet string) (buildRecord, error) {
	res, err := a.builder.Build(ctx, node, seed, overrides)
	if err != nil {
		return buildRecord{}, err
	}

	rec := buildRecord{Node: res.Node, Seed: res.Seed, Prompt: res.Prompt, Tags: res.Tags}
	if ruleSet == "" {
		return rec, nil
	}

	rec.Prompt, err = a.builder.ApplyRules(ctx, res.Prompt, ruleSet, seed)
	if err != nil {
		return buildRecord{}, fmt.Errorf("apply rules %q: %w", ruleSet, err)
	}
	return rec, nil
}
