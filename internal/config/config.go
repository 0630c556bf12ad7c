// Package config loads the YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-office2adoc/internal/imaging"
	"github.com/alnah/go-office2adoc/internal/logging"
	"github.com/alnah/go-office2adoc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppName names the user config directory.
const AppName = "office2adoc"

// Limits.
const (
	MaxPathLength    = 4096
	MaxArgLength     = 1024
	MaxExtraArgs     = 32
	MaxDirNameLength = 255
	MaxTimeout       = time.Hour
)

// Defaults.
const (
	DefaultPandocBinary = "pandoc"
	DefaultMediaDir     = "extracted_media"
	DefaultImagesDir    = "extracted_images"
	DefaultLogLevel     = "info"
)

// reservedPandocArgs are set by the converter and may not appear in
// pandoc.extraArgs.
var reservedPandocArgs = []string{
	"-f", "--from", "-r", "--read",
	"-t", "--to", "-w", "--write",
	"-o", "--output",
	"--extract-media",
}

// Config holds all configuration for a conversion run.
type Config struct {
	Pandoc   PandocConfig   `yaml:"pandoc"`
	Output   OutputConfig   `yaml:"output"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Images   ImagesConfig   `yaml:"images"`
	Log      LogConfig      `yaml:"log"`
}

// PandocConfig defines how pandoc is invoked.
type PandocConfig struct {
	Binary    string   `yaml:"binary"`    // name on PATH or absolute path
	ExtraArgs []string `yaml:"extraArgs"` // appended before the input file
	Timeout   string   `yaml:"timeout"`   // Go duration, e.g. "2m"; empty = none
}

// OutputConfig defines the output layout.
type OutputConfig struct {
	Dir              string `yaml:"dir"`              // root of per-document directories (empty = current dir)
	MediaDir         string `yaml:"mediaDir"`         // DOCX media, inside the document directory
	ImagesDir        string `yaml:"imagesDir"`        // XLSX images, inside the document directory
	KeepIntermediate bool   `yaml:"keepIntermediate"` // keep <stem>_no_format.adoc
}

// PipelineConfig toggles optional post-processing stages.
type PipelineConfig struct {
	ReviewMarkers bool `yaml:"reviewMarkers"`
}

// ImagesConfig defines legacy image recoding.
type ImagesConfig struct {
	VectorTool string `yaml:"vectorTool"` // empty = first found on PATH
	Disabled   bool   `yaml:"disabled"`
}

// LogConfig defines logging.
type LogConfig struct {
	File  string `yaml:"file"`  // JSON log file (empty = console only)
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Pandoc: PandocConfig{Binary: DefaultPandocBinary},
		Output: OutputConfig{
			MediaDir:  DefaultMediaDir,
			ImagesDir: DefaultImagesDir,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// Timeout returns pandoc.timeout as a duration. Zero means no timeout.
// Validate guarantees the value parses.
func (c *Config) Timeout() time.Duration {
	if c.Pandoc.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Pandoc.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Validate checks every field. Called by LoadConfig, and again by the CLI
// after flags and environment overrides are applied.
func (c *Config) Validate() error {
	if err := validateFieldLength("pandoc.binary", c.Pandoc.Binary, MaxPathLength); err != nil {
		return err
	}
	if len(c.Pandoc.ExtraArgs) > MaxExtraArgs {
		return fmt.Errorf("%w: pandoc.extraArgs: %d arguments (max %d)", ErrInvalidValue, len(c.Pandoc.ExtraArgs), MaxExtraArgs)
	}
	for i, arg := range c.Pandoc.ExtraArgs {
		if err := validateFieldLength(fmt.Sprintf("pandoc.extraArgs[%d]", i), arg, MaxArgLength); err != nil {
			return err
		}
		name, _, _ := strings.Cut(arg, "=")
		if slices.Contains(reservedPandocArgs, name) {
			return fmt.Errorf("%w: pandoc.extraArgs[%d]: %q is set by office2adoc", ErrInvalidValue, i, name)
		}
	}
	if c.Pandoc.Timeout != "" {
		d, err := time.ParseDuration(c.Pandoc.Timeout)
		if err != nil {
			return fmt.Errorf("%w: pandoc.timeout: %v", ErrInvalidValue, err)
		}
		if d < 0 || d > MaxTimeout {
			return fmt.Errorf("%w: pandoc.timeout: must be between 0 and %s, got %s", ErrInvalidValue, MaxTimeout, d)
		}
	}

	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateDirName("output.mediaDir", c.Output.MediaDir); err != nil {
		return err
	}
	if err := validateDirName("output.imagesDir", c.Output.ImagesDir); err != nil {
		return err
	}

	if tool := c.Images.VectorTool; tool != "" {
		base := strings.TrimSuffix(strings.ToLower(filepath.Base(tool)), ".exe")
		if !slices.Contains(imaging.VectorTools, base) {
			return fmt.Errorf("%w: images.vectorTool: %q (must be one of %s)",
				ErrInvalidValue, tool, strings.Join(imaging.VectorTools, ", "))
		}
	}

	if err := validateFieldLength("log.file", c.Log.File, MaxPathLength); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidValue, err)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateDirName requires a single non-empty path element.
func validateDirName(fieldName, value string) error {
	if err := validateFieldLength(fieldName, value, MaxDirNameLength); err != nil {
		return err
	}
	if value == "" || value == "." || value == ".." || strings.ContainsAny(value, `/\`) {
		return fmt.Errorf("%w: %s: %q must be a plain directory name", ErrInvalidValue, fieldName, value)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields the file leaves out keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.Decode(data, cfg, true); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// YAML renders the configuration as it would appear in a config file.
func (c *Config) YAML() (string, error) {
	out, err := yamlutil.Encode(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, `/\`) || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

// NotFoundError reports a config name that matched no file.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Tried, ", "))
}

// Unwrap lets errors.Is match ErrConfigNotFound.
func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }

// SearchPaths returns the files a config name resolves to, in search order:
// the current directory, then <user config dir>/office2adoc/, each with
// .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first of SearchPaths(name) that exists.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", &NotFoundError{Name: name, Tried: tried}
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
