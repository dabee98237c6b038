package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scoreboard",
		Short: "Live scoreboard overlay driven by a TOML layout",
		Long: `Scoreboard renders a broadcast overlay described by a TOML document and
updates it from keyboard shortcuts, gamepad buttons and a web control page.

Examples:
  scoreboard serve                   # Load basketball.toml from . or ..
  scoreboard serve league.toml -p 9000
  scoreboard check league.toml       # Validate a layout without serving it
  scoreboard keys league.toml        # List the shortcuts a layout binds`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newCheckCmd(),
		newKeysCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scoreboard %s\n", version)
		},
	}
}
