package dupfind

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-ini/ini"
)

// Config represents the dupfind configuration
type Config struct {
	configPath string
	ini        *ini.File
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format string // Default output format: human, json, fdupes
	Color  string // Colour mode: auto, always, never
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// PerformanceConfig represents performance-related configuration
type PerformanceConfig struct {
	HashWorkers int // Number of concurrent fingerprint workers (default: NumCPU)
}

// ScanConfig represents traversal configuration
type ScanConfig struct {
	IgnoreFile string // Regex ignore file, empty for none
	Progress   bool   // Show a progress spinner on stderr
}

// AllConfig represents all configuration options
type AllConfig struct {
	Output      *OutputConfig
	Verbose     *VerboseConfig
	Performance *PerformanceConfig
	Scan        *ScanConfig
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/dupfind/config (or the platform
// equivalent), or "" when no config directory can be determined
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dupfind", "config")
}

// LoadConfig loads configuration from configPath.
// An empty path or a missing file yields the built-in defaults; nothing is
// ever written back.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		configPath: configPath,
		ini:        ini.Empty(),
	}

	if configPath == "" {
		return cfg, nil
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		VerboseLog(2, "config file %s not found, using defaults", configPath)
		return cfg, nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg.ini = iniFile

	VerboseLog(2, "loaded config from %s", configPath)
	return cfg, nil
}

// Path returns the file the config was loaded from, if any
func (c *Config) Path() string {
	return c.configPath
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		Format: FormatHuman, // fallback default
		Color:  ColorAuto,   // fallback default
	}

	if c.ini.HasSection("output") {
		section := c.ini.Section("output")
		if section.HasKey("format") {
			outputConfig.Format = section.Key("format").String()
		}
		if section.HasKey("color") {
			outputConfig.Color = section.Key("color").String()
		}
	}

	return outputConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{
		Level: 0,  // fallback default
		Debug: "", // fallback default
	}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetPerformanceConfig returns the performance configuration
func (c *Config) GetPerformanceConfig() *PerformanceConfig {
	performanceConfig := &PerformanceConfig{
		HashWorkers: runtime.NumCPU(), // fallback default
	}

	if c.ini.HasSection("performance") {
		section := c.ini.Section("performance")
		if section.HasKey("hash_workers") {
			if workers, err := section.Key("hash_workers").Int(); err == nil {
				performanceConfig.HashWorkers = workers
			}
		}
	}

	return performanceConfig
}

// GetScanConfig returns the traversal configuration
func (c *Config) GetScanConfig() *ScanConfig {
	scanConfig := &ScanConfig{}

	if c.ini.HasSection("scan") {
		section := c.ini.Section("scan")
		if section.HasKey("ignore_file") {
			scanConfig.IgnoreFile = section.Key("ignore_file").String()
		}
		if section.HasKey("progress") {
			if progress, err := section.Key("progress").Bool(); err == nil {
				scanConfig.Progress = progress
			}
		}
	}

	return scanConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Output:      c.GetOutputConfig(),
		Verbose:     c.GetVerboseConfig(),
		Performance: c.GetPerformanceConfig(),
		Scan:        c.GetScanConfig(),
	}
}

// ApplyOverrides applies command-line overrides to the configuration
// Accepts strings like "format:json", "level:2", "debug:walk,hash", "hash_workers:8"
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "format":
			c.ini.Section("output").Key("format").SetValue(value)
		case "color":
			c.ini.Section("output").Key("color").SetValue(value)
		case "level":
			c.ini.Section("verbose").Key("level").SetValue(value)
		case "debug":
			c.ini.Section("verbose").Key("debug").SetValue(value)
		case "hash_workers":
			c.ini.Section("performance").Key("hash_workers").SetValue(value)
		case "ignore_file":
			c.ini.Section("scan").Key("ignore_file").SetValue(value)
		case "progress":
			c.ini.Section("scan").Key("progress").SetValue(value)
		default:
			return fmt.Errorf("unsupported override key '%s' (supported: format, color, level, debug, hash_workers, ignore_file, progress)", key)
		}
	}

	return nil
}

// Validate checks every configured value, including ones the getters would
// silently replace with a fallback because they do not parse
func (c *Config) Validate() error {
	var errs []error

	if err := c.checkParses("verbose", "level", func(k *ini.Key) error { _, err := k.Int(); return err }); err != nil {
		errs = append(errs, err)
	}
	if err := c.checkParses("performance", "hash_workers", func(k *ini.Key) error { _, err := k.Int(); return err }); err != nil {
		errs = append(errs, err)
	}
	if err := c.checkParses("scan", "progress", func(k *ini.Key) error { _, err := k.Bool(); return err }); err != nil {
		errs = append(errs, err)
	}

	all := c.GetAllConfig()
	errs = append(errs,
		ValidateOutputFormat(all.Output.Format),
		ValidateColorMode(all.Output.Color),
		ValidateVerboseLevel(all.Verbose.Level),
		ValidateDebugFlags(all.Verbose.Debug),
		ValidateHashWorkers(all.Performance.HashWorkers),
	)

	return errors.Join(errs...)
}

func (c *Config) checkParses(section, key string, parse func(*ini.Key) error) error {
	if !c.ini.HasSection(section) || !c.ini.Section(section).HasKey(key) {
		return nil
	}
	k := c.ini.Section(section).Key(key)
	if err := parse(k); err != nil {
		return fmt.Errorf("invalid value for %s.%s: %q", section, key, k.String())
	}
	return nil
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	if _, ok := FormatFromName(format); !ok {
		return fmt.Errorf("unsupported output format: %s (supported: %s)", format, strings.Join(SupportedFormats(), ", "))
	}
	return nil
}

// ValidateColorMode validates that a colour mode is supported
func ValidateColorMode(mode string) error {
	if _, ok := ColorModeFromName(mode); !ok {
		return fmt.Errorf("unsupported color mode: %s (supported: auto, always, never)", mode)
	}
	return nil
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateDebugFlags checks that every named flag is one the scanner reads
func ValidateDebugFlags(debug string) error {
	for _, flag := range strings.Split(debug, ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(flag), ":")
		switch strings.ToLower(name) {
		case "", DebugWalk, DebugHash, DebugGroup:
		default:
			return fmt.Errorf("unknown debug flag: %s (supported: %s, %s, %s)", name, DebugWalk, DebugHash, DebugGroup)
		}
	}
	return nil
}

// ValidateHashWorkers validates that the hash worker count is reasonable
func ValidateHashWorkers(workers int) error {
	if workers < MinHashWorkers {
		return fmt.Errorf("hash workers must be at least %d, got: %d", MinHashWorkers, workers)
	}
	if workers > MaxHashWorkers {
		return fmt.Errorf("hash workers should not exceed %d, got: %d", MaxHashWorkers, workers)
	}
	return nil
}
