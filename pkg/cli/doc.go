/*
Package cli provides command-line interface utilities for Prompt Factory.

The cli package includes output formatters, a progress reporter, error to
exit code mapping and signal handling used by the promptfactory command.

Output Formatting:

Command results are printed as text, JSON, YAML or CSV. Tabular results
use Table so every format can render them:

	formatter := cli.NewFormatter(cli.FormatJSON)
	table := &cli.Table{Headers: []string{"node", "prompt"}}
	table.Append("portrait", "1girl, long hair")
	if err := formatter.FormatTo(os.Stdout, table); err != nil {
		return err
	}

Progress Reporting:

Batch builds report progress on stderr:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(count)
	for i := 0; i < count; i++ {
		// Build one prompt
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
	// ctx is cancelled on SIGINT or SIGTERM
*/
package cli
