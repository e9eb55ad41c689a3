package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/rankeval/schema"
)

// Default values for configuration.
const (
	DefaultOutputFile       = "results_ndcg.csv"
	DefaultCandidateRoot    = "."
	DefaultPrecision        = 6
	MaxPrecision            = 12
	DefaultPenaltyPrefixLen = 3
)

// DefaultCutoffs is the default comma-separated list of NDCG cutoffs.
var DefaultCutoffs = "3,5,7,10"

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for an evaluation.
// This struct remains the "final, validated" config.
type Config struct {
	RelevanceDir     string
	CandidateRoot    string
	Cutoffs          []int
	Workers          int
	Output           schema.OutputMode
	OutputFile       string
	Precision        int
	PenaltyPrefixLen int
	KeepUnclosed     bool
	FailOnError      bool
	Width            int // Terminal width override (0 = auto-detect)

	ResultsBackend   schema.DatabaseBackend
	ResultsDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RelevanceDirStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	CandidateRoot    string `mapstructure:"candidate-root"`
	Cutoffs          string `mapstructure:"cutoffs"`
	Workers          int    `mapstructure:"workers"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	PenaltyPrefixLen int    `mapstructure:"penalty-prefix-len"`
	KeepUnclosed     bool   `mapstructure:"keep-unclosed"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	ResultsBackend   string `mapstructure:"results-backend"`
	ResultsDBConnect string `mapstructure:"results-db-connect"`

	// --- Fields from evaluateCmd.Flags() ---
	FailOnError bool `mapstructure:"fail-on-error"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Cutoffs != nil {
		clone.Cutoffs = slices.Clone(c.Cutoffs)
	}
	return &clone
}

// Params returns the settings recorded alongside a stored run.
func (c *Config) Params() map[string]any {
	return map[string]any{
		"relevance_dir":      c.RelevanceDir,
		"candidate_root":     c.CandidateRoot,
		"cutoffs":            c.Cutoffs,
		"workers":            c.Workers,
		"penalty_prefix_len": c.PenaltyPrefixLen,
		"keep_unclosed":      c.KeepUnclosed,
	}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processCutoffs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// ResolveRelevanceDir validates the relevance directory positional argument.
func ResolveRelevanceDir(cfg *Config, path string) error {
	if strings.TrimSpace(path) == "" {
		return &schema.ConfigError{Field: "relevance-dir", Msg: "a relevance directory is required"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &schema.ConfigError{Field: "relevance-dir", Msg: fmt.Sprintf("cannot access %q: %v", path, err)}
	}
	if !info.IsDir() {
		return &schema.ConfigError{Field: "relevance-dir", Msg: fmt.Sprintf("%q is not a directory", path)}
	}
	cfg.RelevanceDir = filepath.Clean(path)
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend, "":
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("results-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("results-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the results store configuration.
// An empty backend disables result tracking.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.ResultsBackend = schema.DatabaseBackend(strings.ToLower(input.ResultsBackend))
	if cfg.ResultsBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.ResultsBackend]; !ok {
		return &schema.ConfigError{
			Field: "results-backend",
			Msg:   fmt.Sprintf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", input.ResultsBackend),
		}
	}
	cfg.ResultsDBConnect = input.ResultsDBConnect
	return ValidateDatabaseConnectionString(cfg.ResultsBackend, cfg.ResultsDBConnect)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.KeepUnclosed = input.KeepUnclosed
	cfg.FailOnError = input.FailOnError
	cfg.Width = input.Width

	cfg.CandidateRoot = input.CandidateRoot
	if cfg.CandidateRoot == "" {
		cfg.CandidateRoot = DefaultCandidateRoot
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return &schema.ConfigError{Field: "color", Msg: err.Error()}
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return &schema.ConfigError{Field: "workers", Msg: fmt.Sprintf("must be greater than 0 (received %d)", input.Workers)}
	}
	cfg.Workers = input.Workers

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return &schema.ConfigError{Field: "precision", Msg: fmt.Sprintf("must be between 1 and %d (received %d)", MaxPrecision, input.Precision)}
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return &schema.ConfigError{Field: "output", Msg: fmt.Sprintf("invalid format '%s'. must be csv, text, json, parquet", input.Output)}
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return &schema.ConfigError{Field: "output-file", Msg: "parquet output requires an output file"}
	}

	// --- 3. Candidate filename grammar ---
	if input.PenaltyPrefixLen < 0 {
		return &schema.ConfigError{Field: "penalty-prefix-len", Msg: fmt.Sprintf("cannot be negative (received %d)", input.PenaltyPrefixLen)}
	}
	cfg.PenaltyPrefixLen = input.PenaltyPrefixLen

	return nil
}

// processCutoffs parses the comma-separated cutoff list, keeping its order
// and dropping duplicates.
func processCutoffs(cfg *Config, input *ConfigRawInput) error {
	raw := input.Cutoffs
	if strings.TrimSpace(raw) == "" {
		raw = DefaultCutoffs
	}
	cutoffs, err := ParseCutoffs(raw)
	if err != nil {
		return &schema.ConfigError{Field: "cutoffs", Msg: err.Error()}
	}
	cfg.Cutoffs = cutoffs
	return nil
}

// ParseCutoffs parses a string like "3,5,7,10" into cutoffs. Zero means no cutoff.
func ParseCutoffs(s string) ([]int, error) {
	var cutoffs []int
	seen := make(map[int]struct{})
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid cutoff %q: must be an integer", part)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid cutoff %d: cannot be negative", n)
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		cutoffs = append(cutoffs, n)
	}
	if len(cutoffs) == 0 {
		return nil, fmt.Errorf("at least one cutoff is required")
	}
	return cutoffs, nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
