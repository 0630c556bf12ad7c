package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/alnah/go-office2adoc/internal/config"
)

// envPrefix starts every recognized environment variable.
const envPrefix = "OFFICE2ADOC_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // OFFICE2ADOC_CONFIG: config file name or path
	Pandoc     string // OFFICE2ADOC_PANDOC: pandoc binary
	Timeout    string // OFFICE2ADOC_TIMEOUT: pandoc timeout
	OutputDir  string // OFFICE2ADOC_OUTPUT_DIR: output root
	VectorTool string // OFFICE2ADOC_VECTOR_TOOL: EMF/WMF converter
	LogFile    string // OFFICE2ADOC_LOG_FILE: JSON log file
	LogLevel   string // OFFICE2ADOC_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid OFFICE2ADOC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"OFFICE2ADOC_CONFIG":      true,
	"OFFICE2ADOC_PANDOC":      true,
	"OFFICE2ADOC_TIMEOUT":     true,
	"OFFICE2ADOC_OUTPUT_DIR":  true,
	"OFFICE2ADOC_VECTOR_TOOL": true,
	"OFFICE2ADOC_LOG_FILE":    true,
	"OFFICE2ADOC_LOG_LEVEL":   true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath: os.Getenv("OFFICE2ADOC_CONFIG"),
		Pandoc:     os.Getenv("OFFICE2ADOC_PANDOC"),
		Timeout:    os.Getenv("OFFICE2ADOC_TIMEOUT"),
		OutputDir:  os.Getenv("OFFICE2ADOC_OUTPUT_DIR"),
		VectorTool: os.Getenv("OFFICE2ADOC_VECTOR_TOOL"),
		LogFile:    os.Getenv("OFFICE2ADOC_LOG_FILE"),
		LogLevel:   os.Getenv("OFFICE2ADOC_LOG_LEVEL"),
	}
}

// warnUnknownEnvVars prints a warning for every unrecognized OFFICE2ADOC_*
// variable, sorted by name.
func warnUnknownEnvVars(w io.Writer) {
	var unknown []string
	for _, env := range os.Environ() {
		name, _, _ := strings.Cut(env, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig overrides config file values with the environment variables
// that are set. CLI flags are applied afterwards by mergeFlags, giving:
// flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Pandoc != "" {
		cfg.Pandoc.Binary = env.Pandoc
	}
	if env.Timeout != "" {
		cfg.Pandoc.Timeout = env.Timeout
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.VectorTool != "" {
		cfg.Images.VectorTool = env.VectorTool
	}
	if env.LogFile != "" {
		cfg.Log.File = env.LogFile
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}

// loadConfig returns the configuration named by the --config flag, else by
// OFFICE2ADOC_CONFIG, else the defaults; environment overrides applied.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	applyEnvConfig(env, cfg)
	return cfg, nil
}
