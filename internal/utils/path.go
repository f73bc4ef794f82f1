package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver provides robust path resolution for the signserve binary
type PathResolver struct {
	executablePath string
	executableDir  string
	homeDir        string
	configDir      string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	execDir := filepath.Dir(execPath)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executablePath: execPath,
		executableDir:  execDir,
		homeDir:        homeDir,
		configDir:      getConfigDir(homeDir),
	}

	log.Debugf("PathResolver initialized: exec=%s, execDir=%s, configDir=%s",
		execPath, execDir, pr.configDir)

	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", "signserve")
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "signserve")
		}
		return filepath.Join(homeDir, ".config", "signserve")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "signserve")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "signserve")
	default:
		return filepath.Join(homeDir, ".signserve")
	}
}

// GetDataFile resolves the glossary JSON file.
// Candidates are tried in order of preference:
// 1. User-specified path (if absolute)
// 2. Relative to the executable directory
// 3. Relative to the current working directory
// 4. Common data locations next to the binary or under the config dir
func (pr *PathResolver) GetDataFile(userSpecifiedPath string) (string, error) {
	var candidatePaths []string

	if filepath.IsAbs(userSpecifiedPath) {
		candidatePaths = append(candidatePaths, userSpecifiedPath)
	}

	execRelativePath := filepath.Join(pr.executableDir, userSpecifiedPath)
	candidatePaths = append(candidatePaths, execRelativePath)

	if cwd, err := os.Getwd(); err == nil {
		candidatePaths = append(candidatePaths, filepath.Join(cwd, userSpecifiedPath))
	}

	commonPaths := []string{
		filepath.Join(pr.executableDir, "data", "glossary.json"),
		filepath.Join(filepath.Dir(pr.executableDir), "data", "glossary.json"),
		filepath.Join(pr.configDir, "glossary.json"),
	}
	candidatePaths = append(candidatePaths, commonPaths...)

	for _, path := range candidatePaths {
		if stat, err := os.Stat(path); err == nil && !stat.IsDir() {
			log.Debugf("Found glossary file: %s", path)
			return path, nil
		}
		log.Debugf("Glossary candidate not valid: %s", path)
	}

	// Nothing found, return the most likely path for error reporting
	return execRelativePath, os.ErrNotExist
}

// GetConfigPath returns the full path for a config file.
// It ensures the config directory exists and handles read-only filesystem issues
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	configPath := filepath.Join(pr.configDir, filename)
	if pr.ensureConfigDir(pr.configDir) {
		return configPath, nil
	}

	// Fallback locations if config dir is not writable
	fallbackDirs := []string{
		filepath.Join(pr.homeDir, ".signserve"),
		filepath.Join(os.TempDir(), "signserve"),
		pr.executableDir,
	}

	for _, dir := range fallbackDirs {
		if pr.ensureConfigDir(dir) {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback config location: %s", path)
			return path, nil
		}
	}

	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", tempPath)
	return tempPath, nil
}

// ensureConfigDir creates the directory if it doesn't exist and tests writability
func (pr *PathResolver) ensureConfigDir(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Debugf("Cannot create config directory %s: %v", dir, err)
		return false
	}

	testFile := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		log.Debugf("Config directory %s is not writable: %v", dir, err)
		return false
	}
	os.Remove(testFile)
	return true
}

// GetExecutableDir returns the directory containing the executable
func (pr *PathResolver) GetExecutableDir() string {
	return pr.executableDir
}

// GetConfigDir returns the config directory
func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}

// ResolveRelativePath resolves a path relative to the executable directory
func (pr *PathResolver) ResolveRelativePath(relativePath string) string {
	if filepath.IsAbs(relativePath) {
		return relativePath
	}
	return filepath.Join(pr.executableDir, relativePath)
}
