package cmd

import (
	"fmt"
	"runtime"

	"github.com/nchapman/prefetch/internal/config"
	"github.com/nchapman/prefetch/internal/ui"
	"github.com/nchapman/prefetch/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show prefetch version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Bold(fmt.Sprintf("prefetch %s (%s/%s)", version.Version, runtime.GOOS, runtime.GOARCH)))

		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.Bold("Paths:"))
		fmt.Fprintf(out, "  Config:      %s\n", ui.Muted(config.ConfigPath()))
		fmt.Fprintf(out, "  Local cache: %s\n", ui.Muted(config.LocalCachePath()))
		fmt.Fprintf(out, "  Hub cache:   %s\n", ui.Muted(config.HubCachePath()))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
