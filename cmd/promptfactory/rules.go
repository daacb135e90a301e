package main

import (
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/promptfactory/pkg/cli"
	"mercator-hq/promptfactory/pkg/rules"
)

var rulesFlags struct {
	rules  string
	seed   uint64
	report bool
}

var rulesCmd = &cobra.Command{
	Use:   "rules [flags] PROMPT",
	Short: "Apply a rule set to a prompt",
	Long: `Apply a rule set to a comma-separated prompt.

Each rule fires when one of its shell-style triggers matches the whole
prompt. Its actions then add or remove tags. Added values may be catalog
paths such as "scene/tags/weather", which pick one element at random.

Examples:
  # Apply one rule set
  promptfactory rules --rules cleanup "1girl, red hat"

  # Apply every rule as one composite rule and show what fired
  promptfactory rules --rules all --report "1girl, red hat"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVarP(&rulesFlags.rules, "rules", "r", "", "rule set name, \"all\" for every rule (default from config)")
	rulesCmd.Flags().Uint64VarP(&rulesFlags.seed, "seed", "s", 0, "random seed (default from config)")
	rulesCmd.Flags().BoolVar(&rulesFlags.report, "report", false, "print the rules that fired")
}

func runRules(cmd *cobra.Command, args []string) error {
	f, format, err := formatter()
	if err != nil {
		return err
	}

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	set := a.ruleSet(rulesFlags.rules)
	if set == "" {
		set = rules.AllSets
	}

	res, err := a.builder.ApplyRulesWithReport(commandContext(cmd), strings.Join(args, " "), set, a.seed(cmd, rulesFlags.seed))
	if err != nil {
		return cli.NewCommandError("rules", err)
	}

	switch format {
	case cli.FormatText:
		lines := []string{res.Prompt}
		if rulesFlags.report {
			for _, fired := range res.Report.Fired {
				lines = append(lines, "# fired "+fired.Rule+" on "+fired.Trigger)
			}
		}
		return f.FormatTo(a.out, lines)
	case cli.FormatCSV:
		table := &cli.Table{Headers: []string{"rule", "trigger", "added", "removed"}}
		for _, fired := range res.Report.Fired {
			table.Append(fired.Rule, fired.Trigger, strings.Join(fired.Added, ", "), strings.Join(fired.Removed, ", "))
		}
		return f.FormatTo(a.out, table)
	default:
		return f.FormatTo(a.out, res)
	}
}
