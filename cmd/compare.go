package cmd

import (
	"time"

	"github.com/huangsam/diffscore/internal/contract"
	"github.com/huangsam/diffscore/internal/outwriter"
	"github.com/huangsam/diffscore/internal/runner"
	"github.com/spf13/cobra"
)

// compareCmd scores one document against another.
var compareCmd = &cobra.Command{
	Use:   "compare <left> <right>",
	Short: "Score how different two JSON or YAML documents are.",
	Long: `Compare two documents and print their diff score.

The score is 0 when the documents are identical. Otherwise it grows with
every difference: changed numbers add their absolute difference, changed text
adds its edit cost, and missing members or items add their missing cost.

Examples:
  # Compare two JSON files
  diffscore compare before.json after.json

  # Weigh the id member heavily and only check it for equality
  diffscore compare --members 'id:10:eq' --explain a.yaml b.yaml

  # Export the comparison to JSON
  diffscore compare a.json b.json --output json --output-file diff.json`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		start := time.Now()
		result, err := runner.ExecuteCompare(rootCtx, cfg, loader, args[0], args[1])
		if err != nil {
			contract.LogFatal("Cannot compare documents", err)
		}
		if err := outwriter.NewOutWriter().WriteComparison(result, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write comparison", err)
		}
	},
}
