package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"mercator-hq/promptfactory/pkg/cli"
)

// Set with -ldflags "-X main.Version=...".
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, Git commit, build date and Go runtime.`,
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := versionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	f, format, err := formatter()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	switch format {
	case cli.FormatText:
		_, err = fmt.Fprintf(w, "Prompt Factory %s\nGit Commit: %s\nBuild Date: %s\nGo Version: %s\nOS/Arch: %s\n",
			info.Version, info.GitCommit, info.BuildDate, info.GoVersion, info.Platform)
		return err
	case cli.FormatCSV:
		t := &cli.Table{Headers: []string{"version", "git_commit", "build_date", "go_version", "platform"}}
		t.Append(info.Version, info.GitCommit, info.BuildDate, info.GoVersion, info.Platform)
		return f.FormatTo(w, t)
	default:
		return f.FormatTo(w, info)
	}
}
