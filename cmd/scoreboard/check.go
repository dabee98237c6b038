package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kai-65537/AOLOT-scoreboard/internal/compiler"
	"github.com/kai-65537/AOLOT-scoreboard/internal/engine"
	"github.com/kai-65537/AOLOT-scoreboard/internal/hotkeys"
	"github.com/kai-65537/AOLOT-scoreboard/internal/schema"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a layout document",
		Long: `Compile a layout document and build its trigger table, reporting the
first error found. Nothing is served.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sb, table, err := compileWithTable(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s%s is valid%s\n", green, args[0], reset)
			fmt.Fprintf(out, "  canvas background: %s\n", sb.Global.BackgroundColor)
			for _, c := range sb.Components {
				fmt.Fprintf(out, "  %-20s %-13s (%d, %d)\n", c.ID, c.Type(), c.Position.X, c.Position.Y)
			}
			fmt.Fprintf(out, "  %d components, %d hotkeys\n", len(sb.Components), table.Len())
			return nil
		},
	}
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys <file>",
		Short: "List the shortcuts a layout binds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, table, err := compileWithTable(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			bindings := table.Bindings()
			if len(bindings) == 0 {
				fmt.Fprintln(out, "No hotkeys bound.")
				return nil
			}
			for _, b := range bindings {
				fmt.Fprintf(out, "  %s%-22s%s %s\n", cyan, b.Shortcut, reset, b.Action)
			}
			return nil
		},
	}
}

func compileWithTable(path string) (*schema.Scoreboard, *hotkeys.Table, error) {
	sb, err := compiler.CompileFile(path)
	if err != nil {
		return nil, nil, err
	}
	table, err := hotkeys.Build(engine.CollectHotkeys(sb))
	if err != nil {
		return nil, nil, err
	}
	return sb, table, nil
}
