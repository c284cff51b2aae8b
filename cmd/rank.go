package cmd

import (
	"errors"
	"time"

	"github.com/huangsam/diffscore/internal/contract"
	"github.com/huangsam/diffscore/internal/outwriter"
	"github.com/huangsam/diffscore/internal/runner"
	"github.com/spf13/cobra"
)

// rankCmd orders candidate documents by their distance to a reference.
var rankCmd = &cobra.Command{
	Use:   "rank <reference> <candidate>...",
	Short: "Rank candidate documents by how closely they match a reference.",
	Long: `Score every candidate against the reference document and print the
closest candidates first. Directories are expanded to the JSON and YAML
files they contain. Ties keep the order the candidates were given in.

Examples:
  # Find the fixture closest to a captured response
  diffscore rank response.json fixtures/

  # Show the top 5 with their member breakdown
  diffscore rank --limit 5 --explain ref.yaml a.yaml b.yaml c.yaml

  # Export the ranking to Parquet
  diffscore rank ref.json candidates/ --output parquet --output-file ranking.parquet`,
	Args:    cobra.MinimumNArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		start := time.Now()
		candidates, err := runner.ExpandCandidates(args[1:], args[0])
		if err != nil {
			contract.LogFatal("Cannot list candidates", err)
		}
		if len(candidates) == 0 {
			contract.LogFatal("Cannot rank documents", errors.New("no candidate documents found"))
		}
		results, err := runner.ExecuteRank(rootCtx, cfg, loader, args[0], candidates)
		if err != nil {
			contract.LogFatal("Cannot rank documents", err)
		}
		if err := outwriter.NewOutWriter().WriteRanking(results, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write ranking", err)
		}
	},
}
