package main

import (
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/promptfactory/pkg/cli"
)

var composeFlags struct {
	seed uint64
}

var composeCmd = &cobra.Command{
	Use:   "compose [flags] TEMPLATE",
	Short: "Substitute catalog variables in free text",
	Long: `Replace {name} placeholders in free text with catalog values.

Variables come from the global variables document and from every node,
hidden nodes included. Every node tag is also available by name. Unknown
placeholders are left as they are.

Examples:
  promptfactory compose --seed 7 "{subject} walking in the {where}"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompose,
}

func init() {
	rootCmd.AddCommand(composeCmd)

	composeCmd.Flags().Uint64VarP(&composeFlags.seed, "seed", "s", 0, "random seed (default from config)")
}

func runCompose(cmd *cobra.Command, args []string) error {
	f, _, err := formatter()
	if err != nil {
		return err
	}

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.builder.Compose(commandContext(cmd), strings.Join(args, " "), a.seed(cmd, composeFlags.seed))
	if err != nil {
		return cli.NewCommandError("compose", err)
	}
	return f.FormatTo(a.out, []string{out})
}
