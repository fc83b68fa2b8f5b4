package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version 在发布构建时通过 -ldflags "-X lang-visible/cmd.Version=..." 覆盖。
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "lang-visible %s\n", Version)

		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		fmt.Fprintf(out, "go: %s\n", info.GoVersion)
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				fmt.Fprintf(out, "commit: %s\n", s.Value)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
