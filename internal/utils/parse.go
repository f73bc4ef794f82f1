package utils

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes a TOML file into config, logging a warning on parse
// errors so the caller can fall back to partial recovery.
func LoadTOMLFile(configPath string, config interface{}) error {
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Warnf("TOML parse error in config file %s: %v. Trying partial recovery...", configPath, err)
		return err
	}
	return nil
}

// ParseTOMLWithRecovery re-reads a broken TOML file into a loose map so that
// whole valid sections can still be salvaged.
func ParseTOMLWithRecovery(configPath string) (map[string]any, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	loose := make(map[string]any)
	if _, err := toml.Decode(string(data), &loose); err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v", configPath, err)
		return nil, err
	}
	return loose, nil
}

// ExtractSection pulls one named table out of loosely parsed TOML data.
func ExtractSection(data map[string]any, sectionName string) (map[string]any, bool) {
	section, ok := data[sectionName].(map[string]any)
	return section, ok
}

func extract[T any](data map[string]any, key string) (T, bool) {
	val, ok := data[key].(T)
	return val, ok
}

// ExtractInt reads an integer key from a loose TOML table. TOML integers
// decode as int64, so the value is narrowed on the way out.
func ExtractInt(data map[string]any, key string) (int, bool) {
	val, ok := extract[int64](data, key)
	return int(val), ok
}

// ExtractBool reads a boolean key from a loose TOML table.
func ExtractBool(data map[string]any, key string) (bool, bool) {
	return extract[bool](data, key)
}

// ExtractString reads a string key from a loose TOML table.
func ExtractString(data map[string]any, key string) (string, bool) {
	return extract[string](data, key)
}
