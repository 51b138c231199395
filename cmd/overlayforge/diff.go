package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/overlayforge/pkg/cli/render"
	"github.com/arthur-debert/overlayforge/pkg/diff"
	"github.com/arthur-debert/overlayforge/pkg/mergeblock"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <baseline> <current>",
		Short: "Print the conflict-fenced diff between two files",
		Long: `diff exposes the line differ and block parser directly: baseline is
diffed against current and the result is printed in the same conflict-fence
format the Orchestrator uses for Result.Files.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseline, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			current, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}

			changes := diff.Diff(string(baseline), string(current))
			blocks := mergeblock.ToBlocks(changes)
			text := mergeblock.ToText(blocks)

			format := render.Resolve(render.ParseFormat(colorFlag), os.Stdout)
			fmt.Fprintln(cmd.OutOrStdout(), render.Conflict(args[1], text, format))
			return nil
		},
	}
}
