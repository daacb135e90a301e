package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/promptfactory/pkg/cli"
)

var (
	// Global flags
	cfgFile    string
	catalogDir string
	verbose    bool
	outFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "promptfactory",
	Short: "Prompt Factory - weighted tag-tree prompt generator",
	Long: `Prompt Factory generates text prompts by recursively sampling a weighted,
conditional tag tree, substituting reusable variables and optionally
post-filtering the result through trigger/action rule sets.

Catalog documents are YAML or JSON:
  - nodes/       one node per file, the file name is the node ID
  - variables    global variables shared by every node
  - rules/       one rule set per file, the file name is the set name

Builds are deterministic: the same node, seed and overrides always yield
the same prompt.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a status derived from the
// returned error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "promptfactory.yaml", "config file path (defaults apply when missing)")
	rootCmd.PersistentFlags().StringVar(&catalogDir, "catalog", "", "catalog directory holding nodes/, rules/ and a variables document (overrides the config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVarP(&outFormat, "format", "o", "text", "output format: text, json, yaml, csv")
}
