package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/blogseo/blogseo/internal/optimizer"
)

// Build metadata, injected with -ldflags "-X github.com/blogseo/blogseo/cmd.Version=...".
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print blogseo build information",
	Run: func(cmd *cobra.Command, args []string) {
		writeVersion(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// writeVersion prints the release, the VCS revision (from ldflags or the
// module build info) and the default optimizer endpoint.
func writeVersion(w io.Writer) {
	commit, date := Commit, Date
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if commit == "" {
					commit = s.Value
				}
			case "vcs.time":
				if date == "" {
					date = s.Value
				}
			}
		}
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if commit == "" {
		commit = "unknown"
	}

	fmt.Fprintf(w, "blogseo %s (commit %s", Version, commit)
	if date != "" {
		fmt.Fprintf(w, ", built %s", date)
	}
	fmt.Fprintf(w, ") %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "optimizer endpoint: %s\n", optimizer.DefaultEndpoint)
}
