package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/huangsam/diffscore/internal/contract"
	"github.com/huangsam/diffscore/internal/docload"
	"github.com/huangsam/diffscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Build metadata, overridden through -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	rootCtx = context.Background()

	// cfg is the validated configuration shared by every command.
	cfg = &contract.Config{}
	// input receives whatever viper resolved from defaults, file, env and flags.
	input   = &contract.ConfigRawInput{}
	profile = &contract.ProfileConfig{}

	// loader reads the documents named on the command line.
	loader contract.DocumentLoader = docload.NewFileLoader()
)

// profiler owns the CPU profile file while profiling is active.
type profiler struct {
	cpuFile *os.File
}

var activeProfiler *profiler

// startProfiling begins CPU profiling into <prefix>.cpu.prof.
func startProfiling() error {
	cpuFile, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		_ = cpuFile.Close()
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}
	activeProfiler = &profiler{cpuFile: cpuFile}

	// stdout may carry machine-readable results
	_, err = fmt.Fprintf(os.Stderr, "📈 Profiling to %s.cpu.prof and %s.mem.prof\n", profile.Prefix, profile.Prefix)
	return err
}

// stopProfiling flushes the CPU profile and writes a heap profile. It is a
// no-op when profiling never started.
func stopProfiling() error {
	if activeProfiler == nil {
		return nil
	}
	pprof.StopCPUProfile()
	cpuErr := activeProfiler.cpuFile.Close()
	activeProfiler = nil

	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()
	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	if cpuErr != nil {
		return fmt.Errorf("could not close CPU profile: %w", cpuErr)
	}

	_, err = fmt.Fprintf(os.Stderr, "📈 Profiles written, inspect with 'go tool pprof %s.cpu.prof'\n", profile.Prefix)
	return err
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "diffscore",
	Short: "Score how different two structured documents are.",
	Long: `Diffscore compares JSON and YAML documents and reports a single non-negative
score: 0 when they are identical, growing with every added, removed or changed value.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig points viper at the config file and DIFFSCORE_ environment variables.
func initConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".diffscore")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("DIFFSCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("match-window", schema.DefaultMatchWindow)
	viper.SetDefault("order-penalty", schema.DefaultOrderPenalty)
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("format", schema.AutoFormat)
	viper.SetDefault("color", "yes")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	if err := contract.ProcessProfilingConfig(profile, viper.GetString("profile")); err != nil {
		return err
	}
	if profile.Enabled && activeProfiler == nil {
		if err := startProfiling(); err != nil {
			return fmt.Errorf("failed to start profiling: %w", err)
		}
	}

	// Defaults, file, env and flags are merged by viper.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return contract.ProcessAndValidate(cfg, input)
}

// sharedSetupWrapper adapts sharedSetup to cobra's PreRunE signature.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// StopProfiling finishes any profile started by a command.
func StopProfiling() error {
	return stopProfiling()
}
