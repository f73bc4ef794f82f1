package utils

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// FileExists reports whether path names an existing file.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dirPath and any missing parents.
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// WritableDir reports whether dirPath accepts writes, creating the directory
// first when missing. Write access is probed with a throwaway file.
func WritableDir(dirPath string) bool {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		log.Warnf("Cannot create directory %s: %v", dirPath, err)
		return false
	}
	probe := filepath.Join(dirPath, ".writecheck")
	f, err := os.Create(probe)
	if err != nil {
		log.Warnf("Directory %s is not writable: %v", dirPath, err)
		return false
	}
	f.Close()
	os.Remove(probe)
	return true
}

// SaveTOMLFile encodes data as TOML at filePath, truncating any existing file.
func SaveTOMLFile(data interface{}, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(data)
}

// GetAbsolutePath resolves a possibly relative path for display in status
// output. Unresolvable paths are returned unchanged.
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
	}
	return path
}

// GetExecutableDir returns the directory holding the running binary, the
// last-resort location for config and glossary files.
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}
