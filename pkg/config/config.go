/*
Package config manages TOML config for SignServe services.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/WeyehnR/ASL-DEMO-sub000/internal/utils"
	"github.com/charmbracelet/log"
)

// Config is the root of the signserve TOML file.
type Config struct {
	Cache     CacheConfig     `toml:"cache"`
	Media     MediaConfig     `toml:"media"`
	Resolver  ResolverConfig  `toml:"resolver"`
	Highlight HighlightConfig `toml:"highlight"`
	CLI       CliConfig       `toml:"cli"`
}

// CacheConfig has media cache related options.
type CacheConfig struct {
	Capacity int `toml:"capacity"`
	Workers  int `toml:"workers"`
}

// MediaConfig holds clip fetching options.
type MediaConfig struct {
	BaseURL   string `toml:"base_url"`
	TimeoutMs int    `toml:"timeout_ms"`
	Retries   int    `toml:"retries"`
}

// Timeout returns the fetch timeout as a duration.
func (m MediaConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutMs) * time.Millisecond
}

// ResolverConfig holds context window sizes for disambiguation.
type ResolverConfig struct {
	ContextWindow int `toml:"context_window"`
	NearbyWindow  int `toml:"nearby_window"`
}

// HighlightConfig holds highlight layer options.
type HighlightConfig struct {
	Layer string `toml:"layer"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	Colors     bool `toml:"colors"`
	MaxResults int  `toml:"max_results"`
}

// GetConfigDir picks the directory holding config.toml, first writable wins:
// ~/.config/signserve, then ~/Library/Application Support/signserve, then the
// executable's own directory.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "signserve")
	if utils.WritableDir(primaryPath) {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "signserve")
	if utils.WritableDir(macOSPath) {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns where config.toml lives by default.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority resolves the active config: an explicit -config path
// beats the default location, which beats built-in defaults. The returned
// string is the path actually used, empty when running on defaults.
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Could not load config at %s: %v. Trying the default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				config.Validate()
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("No config file at %s: %v. Trying the default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Could not determine the default config path: %v. Running on built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Could not load or create %s: %v. Running on built-in defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	config.Validate()
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Capacity: 20,
			Workers:  3,
		},
		Media: MediaConfig{
			BaseURL:   "http://localhost:8080/media",
			TimeoutMs: 8000,
			Retries:   2,
		},
		Resolver: ResolverConfig{
			ContextWindow: 160,
			NearbyWindow:  80,
		},
		Highlight: HighlightConfig{
			Layer: "asl-signs",
		},
		CLI: CliConfig{
			Colors:     true,
			MaxResults: 24,
		},
	}
}

// Validate clamps out-of-range values to their nearest legal bound so
// a bad config file degrades instead of failing.
func (c *Config) Validate() {
	c.Cache.Capacity = clampInt("cache.capacity", c.Cache.Capacity, 1, 512)
	c.Cache.Workers = clampInt("cache.workers", c.Cache.Workers, 1, 8)
	c.Media.TimeoutMs = clampInt("media.timeout_ms", c.Media.TimeoutMs, 100, 60000)
	c.Media.Retries = clampInt("media.retries", c.Media.Retries, 0, 10)
	c.Resolver.ContextWindow = clampInt("resolver.context_window", c.Resolver.ContextWindow, 16, 4096)
	c.Resolver.NearbyWindow = clampInt("resolver.nearby_window", c.Resolver.NearbyWindow, 16, 4096)
	c.CLI.MaxResults = clampInt("cli.max_results", c.CLI.MaxResults, 1, 256)
	if c.Highlight.Layer == "" {
		c.Highlight.Layer = "asl-signs"
	}
}

func clampInt(name string, val, min, max int) int {
	if val < min {
		log.Warnf("Config %s=%d is below the minimum, using %d", name, val, min)
		return min
	}
	if val > max {
		log.Warnf("Config %s=%d is above the maximum, using %d", name, val, max)
		return max
	}
	return val
}

// InitConfig loads the config file at configPath, writing one with defaults
// first when it does not exist yet.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Could not create config directory %s: %v. Running on built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Could not write a default config to %s: %v. Running on built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Could not load config from %s: %v. Running on built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig decodes a TOML file over the defaults, falling back to partial
// recovery when whole-file decoding fails.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse salvages whole valid sections out of a broken TOML file,
// leaving defaults in place for everything else.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("No valid configuration salvaged from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if cacheSection, ok := utils.ExtractSection(tempConfig, "cache"); ok {
		extractCacheConfig(cacheSection, &config.Cache)
	}
	if mediaSection, ok := utils.ExtractSection(tempConfig, "media"); ok {
		extractMediaConfig(mediaSection, &config.Media)
	}
	if resolverSection, ok := utils.ExtractSection(tempConfig, "resolver"); ok {
		extractResolverConfig(resolverSection, &config.Resolver)
	}
	if highlightSection, ok := utils.ExtractSection(tempConfig, "highlight"); ok {
		extractHighlightConfig(highlightSection, &config.Highlight)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

// extractCacheConfig extracts media cache configuration from a map
func extractCacheConfig(data map[string]any, cache *CacheConfig) {
	if val, ok := utils.ExtractInt(data, "capacity"); ok {
		cache.Capacity = val
	}
	if val, ok := utils.ExtractInt(data, "workers"); ok {
		cache.Workers = val
	}
}

// extractMediaConfig extracts clip fetching configuration from a map
func extractMediaConfig(data map[string]any, media *MediaConfig) {
	if val, ok := utils.ExtractString(data, "base_url"); ok {
		media.BaseURL = val
	}
	if val, ok := utils.ExtractInt(data, "timeout_ms"); ok {
		media.TimeoutMs = val
	}
	if val, ok := utils.ExtractInt(data, "retries"); ok {
		media.Retries = val
	}
}

// extractResolverConfig extracts window sizes from a map
func extractResolverConfig(data map[string]any, resolver *ResolverConfig) {
	if val, ok := utils.ExtractInt(data, "context_window"); ok {
		resolver.ContextWindow = val
	}
	if val, ok := utils.ExtractInt(data, "nearby_window"); ok {
		resolver.NearbyWindow = val
	}
}

// extractHighlightConfig extracts highlight options from a map
func extractHighlightConfig(data map[string]any, highlight *HighlightConfig) {
	if val, ok := utils.ExtractString(data, "layer"); ok {
		highlight.Layer = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "colors"); ok {
		cli.Colors = val
	}
	if val, ok := utils.ExtractInt(data, "max_results"); ok {
		cli.MaxResults = val
	}
}

// RebuildConfigFile overwrites the default-location config.toml with defaults.
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath renders the loaded config path absolute for display.
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig writes the config as TOML.
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update applies the non-nil values, revalidates and persists the result.
func (c *Config) Update(configPath string, capacity, workers *int, baseURL *string) error {
	if capacity != nil {
		c.Cache.Capacity = *capacity
	}
	if workers != nil {
		c.Cache.Workers = *workers
	}
	if baseURL != nil {
		c.Media.BaseURL = *baseURL
	}
	c.Validate()
	return SaveConfig(c, configPath)
}
