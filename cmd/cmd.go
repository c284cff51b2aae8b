// Package cmd defines the command-line interface for diffscore.
package cmd

import (
	"github.com/huangsam/diffscore/internal/contract"
	"github.com/huangsam/diffscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Int("match-window", schema.DefaultMatchWindow, "Max index distance between matched array items and characters")
	rootCmd.PersistentFlags().Float64("order-penalty", schema.DefaultOrderPenalty, "Cost per index of positional drift between matched items")
	rootCmd.PersistentFlags().String("members", "", "Root member specs (format: 'name:weight[:mode],...', mode is recurse or eq)")
	rootCmd.PersistentFlags().String("format", string(schema.AutoFormat), "Input format: auto or json or yaml")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for scores")
	rootCmd.PersistentFlags().Bool("explain", false, "Print the per-member score breakdown")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of rankCmd to Viper
	rankCmd.Flags().IntP("limit", "l", contract.DefaultResultLimit, "Number of candidates to display")
	rankCmd.Flags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	if err := viper.BindPFlags(rankCmd.Flags()); err != nil {
		contract.LogFatal("Error binding rank flags", err)
	}
}
