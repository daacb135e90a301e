package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/promptfactory/pkg/cli"
	"mercator-hq/promptfactory/pkg/prompt"
)

var tidyFlags struct {
	dedupe     bool
	sort       string
	seed       uint64
	customSort string
	sortFile   string
}

var tidyCmd = &cobra.Command{
	Use:   "tidy [flags] PROMPT",
	Short: "Deduplicate and reorder the tags of a prompt",
	Long: `Split a prompt on ", ", drop repeated tags unless --dedupe=false, sort
them and join them again.

Custom sort patterns are shell-style and separated by newlines or ", ".
Tags are ordered by the last pattern they match; tags matching no pattern
go last. Custom sorting runs after --sort and keeps its order among equals.

Examples:
  promptfactory tidy "b, a, b"
  promptfactory tidy --dedupe=false --sort asc "b, a, b"
  promptfactory tidy --sort asc "b, c, a"
  promptfactory tidy --custom-sort "1girl, *hair*, *" "red hat, long hair, 1girl"
  promptfactory tidy --sort random --seed 3 "a, b, c, d"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTidy,
}

func init() {
	rootCmd.AddCommand(tidyCmd)

	tidyCmd.Flags().BoolVar(&tidyFlags.dedupe, "dedupe", true, "drop repeated tags (--dedupe=false keeps them)")
	tidyCmd.Flags().StringVar(&tidyFlags.sort, "sort", "none", "sort mode: none, asc, desc, random")
	tidyCmd.Flags().Uint64VarP(&tidyFlags.seed, "seed", "s", 0, "seed for --sort random")
	tidyCmd.Flags().StringVar(&tidyFlags.customSort, "custom-sort", "", "custom sort patterns")
	tidyCmd.Flags().StringVar(&tidyFlags.sortFile, "custom-sort-file", "", "file holding custom sort patterns, one per line")
}

func runTidy(cmd *cobra.Command, args []string) error {
	mode, err := prompt.ParseSortMode(tidyFlags.sort)
	if err != nil {
		return cli.NewConfigError("sort", err.Error())
	}

	patterns := prompt.ParsePatterns(tidyFlags.customSort)
	if tidyFlags.sortFile != "" {
		data, err := os.ReadFile(tidyFlags.sortFile)
		if err != nil {
			return cli.NewCommandError("tidy", err)
		}
		patterns = append(patterns, prompt.ParsePatterns(string(data))...)
	}

	f, _, err := formatter()
	if err != nil {
		return err
	}

	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.builder.Tidy(commandContext(cmd), strings.Join(args, " "), prompt.TidyOptions{
		Dedupe:     tidyFlags.dedupe,
		Sort:       mode,
		Seed:       tidyFlags.seed,
		CustomSort: patterns,
	})
	if err != nil {
		return cli.NewCommandError("tidy", err)
	}
	return f.FormatTo(a.out, []string{out})
}
