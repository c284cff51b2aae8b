package contract

import (
	"fmt"
	"maps"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/huangsam/diffscore/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 2
	MaxPrecision       = 6
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// MemberWeightRaw holds the custom spec of one root member (e.g., 'id').
// Use a pointer for the weight so an omitted weight keeps the default.
type MemberWeightRaw struct {
	Weight *float64 `mapstructure:"weight"`
	Mode   string   `mapstructure:"mode"`
}

// Config holds the runtime configuration for a comparison.
// This struct remains the "final, validated" config.
type Config struct {
	Window      schema.Window
	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Format      schema.InputFormat
	Explain     bool
	Width       int // Terminal width override (0 = auto-detect)

	// Members is a mapping of [RootMemberName] = Spec, merged from the config file and --members
	Members map[string]schema.MemberSpec

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	MatchWindow  int     `mapstructure:"match-window"`
	OrderPenalty float64 `mapstructure:"order-penalty"`
	Output       string  `mapstructure:"output"`
	OutputFile   string  `mapstructure:"output-file"`
	Precision    int     `mapstructure:"precision"`
	Limit        int     `mapstructure:"limit"`
	Workers      int     `mapstructure:"workers"`
	Format       string  `mapstructure:"format"`
	Explain      bool    `mapstructure:"explain"`
	Width        int     `mapstructure:"width"`
	Color        string  `mapstructure:"color"`
	MembersStr   string  `mapstructure:"members"`

	// --- Member weights from config file ---
	Weights map[string]MemberWeightRaw `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Members != nil {
		clone.Members = make(map[string]schema.MemberSpec, len(c.Members))
		maps.Copy(clone.Members, c.Members)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. Every error matches schema.ErrConfiguration.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWindow(cfg, input); err != nil {
		return err
	}
	if err := processMembers(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates the output and concurrency fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Explain = input.Explain
	cfg.Width = input.Width

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return schema.NewConfigurationError("--color", "%v", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return schema.NewConfigurationError("--limit", "must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return schema.NewConfigurationError("--workers", "must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return schema.NewConfigurationError("--precision", "must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return schema.NewConfigurationError("--output", "invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return schema.NewConfigurationError("--output", "parquet output requires --output-file")
	}

	// --- 4. Input Format Validation ---
	cfg.Format = schema.InputFormat(strings.ToLower(input.Format))
	if cfg.Format == "" {
		cfg.Format = schema.AutoFormat
	}
	if _, ok := schema.ValidInputFormats[cfg.Format]; !ok {
		return schema.NewConfigurationError("--format", "invalid input format '%s'. must be auto, json, yaml", input.Format)
	}

	return nil
}

// processWindow validates the alignment window shared by arrays and text.
func processWindow(cfg *Config, input *ConfigRawInput) error {
	w := schema.Window{MatchWindow: input.MatchWindow, OrderPenalty: input.OrderPenalty}
	if err := w.Validate(); err != nil {
		return err
	}
	cfg.Window = w
	return nil
}

// ProcessWeightsRawInput converts the config file weights into member specs.
func ProcessWeightsRawInput(weights map[string]MemberWeightRaw) (map[string]schema.MemberSpec, error) {
	result := make(map[string]schema.MemberSpec, len(weights))
	for name, raw := range weights {
		spec := schema.DefaultMemberSpec()
		if raw.Weight != nil {
			spec.Weight = *raw.Weight
		}
		mode, err := schema.ParseMode(raw.Mode)
		if err != nil {
			return nil, err
		}
		spec.Mode = mode
		if err := spec.Validate("weights." + name); err != nil {
			return nil, err
		}
		result[name] = spec
	}
	return result, nil
}

// processMembers merges config file weights with the --members flag.
// Command-line --members takes precedence over config file settings.
func processMembers(cfg *Config, input *ConfigRawInput) error {
	members, err := ProcessWeightsRawInput(input.Weights)
	if err != nil {
		return err
	}

	if input.MembersStr != "" {
		parsed, err := ParseMembersString(input.MembersStr)
		if err != nil {
			return err
		}
		maps.Copy(members, parsed)
	}

	cfg.Members = members
	return nil
}

// ParseMembersString parses a string like "id:5:eq,age:2,notes:0"
// into a map of member name to spec. The mode defaults to recurse.
func ParseMembersString(s string) (map[string]schema.MemberSpec, error) {
	members := make(map[string]schema.MemberSpec)

	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		fields := strings.Split(part, ":")
		if len(fields) < 2 || len(fields) > 3 {
			return nil, schema.NewConfigurationError("--members", "invalid member format '%s', expected 'name:weight[:mode]'", part)
		}

		name := strings.TrimSpace(fields[0])
		if name == "" {
			return nil, schema.NewConfigurationError("--members", "member name must not be empty in '%s'", part)
		}

		weight, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil || math.IsNaN(weight) {
			return nil, schema.NewConfigurationError("--members", "invalid weight '%s' for member %s", fields[1], name)
		}

		spec := schema.MemberSpec{Weight: weight, Mode: schema.RecurseMode}
		if len(fields) == 3 {
			if spec.Mode, err = schema.ParseMode(fields[2]); err != nil {
				return nil, err
			}
		}
		if err := spec.Validate("member " + name); err != nil {
			return nil, err
		}
		members[name] = spec
	}

	return members, nil
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	profilePrefix = strings.TrimSpace(profilePrefix)
	if profilePrefix == "" {
		return nil
	}
	if strings.HasSuffix(profilePrefix, "/") {
		return schema.NewConfigurationError("--profile", "prefix must name a file, not a directory (received %s)", profilePrefix)
	}
	profile.Enabled = true
	profile.Prefix = profilePrefix
	return nil
}

// String renders the effective settings on one line. The mcp command logs it at startup.
func (c *Config) String() string {
	return fmt.Sprintf("window=%d penalty=%g output=%s precision=%d limit=%d workers=%d members=%d",
		c.Window.MatchWindow, c.Window.OrderPenalty, c.Output, c.Precision, c.ResultLimit, c.Workers, len(c.Members))
}
