package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mercator-hq/promptfactory/pkg/catalog"
	"mercator-hq/promptfactory/pkg/cli"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate the catalog",
	Long: `Load every node, variable and rule document and report all problems
found, with file positions when known.

The lint command checks:
  - YAML and JSON syntax
  - Tag shapes, probabilities, number ranges and distributions
  - Duplicate node IDs and reserved names
  - Rule trigger patterns

Examples:
  # Lint the configured catalog
  promptfactory lint

  # Lint a catalog directory, JSON output for CI/CD
  promptfactory lint --catalog ./catalog --format json`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

// LintResult is the outcome of linting a catalog.
type LintResult struct {
	Valid    bool          `json:"valid" yaml:"valid"`
	Snapshot string        `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
	Nodes    int           `json:"nodes" yaml:"nodes"`
	RuleSets int           `json:"rule_sets" yaml:"rule_sets"`
	Files    int           `json:"files" yaml:"files"`
	Problems []LintProblem `json:"problems,omitempty" yaml:"problems,omitempty"`
}

// LintProblem is one catalog error.
type LintProblem struct {
	File    string `json:"file,omitempty" yaml:"file,omitempty"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column  int    `json:"column,omitempty" yaml:"column,omitempty"`
	Message string `json:"message" yaml:"message"`
}

func runLint(cmd *cobra.Command, args []string) error {
	f, format, err := formatter()
	if err != nil {
		return err
	}

	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, loadErr := a.registry.Load()
	result := LintResult{Valid: loadErr == nil}
	if loadErr == nil {
		result.Snapshot = snap.Version()
		result.Nodes = len(snap.Nodes)
		result.RuleSets = len(snap.Rules.Names())
		result.Files = snap.Files
	} else {
		result.Problems = lintProblems(loadErr)
	}

	switch format {
	case cli.FormatText:
		err = outputLintText(a, result)
	case cli.FormatCSV:
		table := &cli.Table{Headers: []string{"file", "line", "column", "message"}}
		for _, p := range result.Problems {
			table.Append(p.File, strconv.Itoa(p.Line), strconv.Itoa(p.Column), p.Message)
		}
		err = f.FormatTo(a.out, table)
	default:
		err = f.FormatTo(a.out, result)
	}
	if err != nil {
		return err
	}

	if loadErr != nil {
		return cli.NewCommandError("lint", fmt.Errorf("%d problem(s) found: %w", len(result.Problems), loadErr))
	}
	return nil
}

// lintProblems flattens a load error into one problem per document error.
func lintProblems(err error) []LintProblem {
	var list *catalog.ErrorList
	if errors.As(err, &list) && list != nil {
		var out []LintProblem
		for _, e := range list.Errors {
			out = append(out, lintProblems(e)...)
		}
		return out
	}

	var perr *catalog.ParseError
	if errors.As(err, &perr) {
		return []LintProblem{{File: perr.FilePath, Line: perr.Line, Column: perr.Column, Message: perr.Message}}
	}

	var lerr *catalog.LoadError
	if errors.As(err, &lerr) {
		msg := lerr.Message
		if lerr.Cause != nil {
			msg = fmt.Sprintf("%s: %v", msg, lerr.Cause)
		}
		return []LintProblem{{File: lerr.FilePath, Message: msg}}
	}

	return []LintProblem{{Message: err.Error()}}
}

func outputLintText(a *app, result LintResult) error {
	w := a.out
	if result.Valid {
		fmt.Fprintf(w, "✓ Catalog valid (%d nodes, %d rule sets, %d files)\n", result.Nodes, result.RuleSets, result.Files)
		_, err := fmt.Fprintf(w, "  snapshot %s\n", result.Snapshot)
		return err
	}

	for _, p := range result.Problems {
		fmt.Fprintf(w, "✗ Error: %s", p.Message)
		if p.File != "" {
			fmt.Fprintf(w, " [%s", p.File)
			if p.Line > 0 {
				fmt.Fprintf(w, ":%d", p.Line)
				if p.Column > 0 {
					fmt.Fprintf(w, ":%d", p.Column)
				}
			}
			fmt.Fprint(w, "]")
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary:")
	_, err := fmt.Fprintf(w, "  %d error(s)\n", len(result.Problems))
	return err
}
