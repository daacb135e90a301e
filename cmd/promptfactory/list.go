package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/promptfactory/pkg/cli"
)

var listFlags struct {
	seed  uint64
	rules string
	all   bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every node's prompt for a seed",
	Long: `Build every visible node with the same seed and print one line per node:
the node name padded to 16 columns followed by its prompt.

Examples:
  # Every visible node
  promptfactory list --seed 42

  # Include hidden nodes
  promptfactory list --all`,
	RunE: runList,
}

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List the nodes of the catalog",
	Long: `List node IDs, display names, tags and local variables.

Examples:
  promptfactory nodes
  promptfactory nodes --all --format json`,
	RunE: runNodes,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(nodesCmd)

	listCmd.Flags().Uint64VarP(&listFlags.seed, "seed", "s", 0, "random seed (default from config)")
	listCmd.Flags().StringVarP(&listFlags.rules, "rules", "r", "", "rule set applied after building")
	listCmd.Flags().BoolVarP(&listFlags.all, "all", "a", false, "include hidden nodes")

	nodesCmd.Flags().BoolVarP(&listFlags.all, "all", "a", false, "include hidden nodes")
}

func runList(cmd *cobra.Command, args []string) error {
	f, format, err := formatter()
	if err != nil {
		return err
	}

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	nodes, err := a.builder.Nodes(listFlags.all)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	seed := a.seed(cmd, listFlags.seed)
	table := &cli.Table{Headers: []string{"node", "name", "prompt"}}
	for _, n := range nodes {
		rec, err := a.build(ctx, n.ID, seed, nil, a.ruleSet(listFlags.rules))
		if err != nil {
			return cli.NewCommandError("list", err)
		}
		table.Append(n.ID, n.Name, rec.Prompt)
	}

	if format == cli.FormatText {
		for _, row := range table.Rows {
			if _, err := fmt.Fprintf(a.out, "%-16s %s\n", row[1], row[2]); err != nil {
				return err
			}
		}
		return nil
	}
	return f.FormatTo(a.out, table)
}

func runNodes(cmd *cobra.Command, args []string) error {
	f, _, err := formatter()
	if err != nil {
		return err
	}

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	nodes, err := a.builder.Nodes(listFlags.all)
	if err != nil {
		return err
	}

	table := &cli.Table{Headers: []string{"id", "name", "hidden", "tags", "variables"}}
	for _, n := range nodes {
		table.Append(n.ID, n.Name, strconv.FormatBool(n.Hide),
			strings.Join(n.Tags, " "), strings.Join(n.Variables, " "))
	}
	return f.FormatTo(a.out, table)
}
