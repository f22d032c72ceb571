package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "microchess"

// GetDataDir returns the platform-specific data directory for the application.
// - macOS: ~/Library/Application Support/microchess/
// - Linux: ~/.local/share/microchess/
// - Windows: %APPDATA%/microchess/
func GetDataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		// macOS: ~/Library/Application Support/
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		// Windows: %APPDATA%
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		// Linux and other Unix-like: ~/.local/share/
		// Check XDG_DATA_HOME first
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(baseDir, appName)

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// GetFramesDir returns the directory that rendered frames of gameID are
// written to.
func GetFramesDir(gameID string) (string, error) {
	return dataSubdir("frames", gameID)
}

// GetDatabaseDir returns the directory for storing the BadgerDB database.
func GetDatabaseDir() (string, error) {
	return dataSubdir("db")
}

// dataSubdir creates and returns a directory below the data directory.
func dataSubdir(elem ...string) (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(append([]string{dataDir}, elem...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}
