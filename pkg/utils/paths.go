package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// appDataDir returns the per-user data directory for this application.
func appDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(homeDir, "AppData", "Roaming", "healthlog")
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "healthlog")
	default: // Primarily Linux, but also other UNIX-like systems.
		return filepath.Join(homeDir, ".local", "share", "healthlog")
	}
}

// GetDefaultDBPathOnly returns a system-appropriate default path for the
// local guest database.
func GetDefaultDBPathOnly() string {
	return filepath.Join(appDataDir(), "healthlog.db")
}

// GetDefaultSessionPath returns where the remote session cookie is kept
// between invocations.
func GetDefaultSessionPath() string {
	return filepath.Join(appDataDir(), "session")
}

func ResolveAndEnsureDBPath(providedPath string) (string, error) {
	targetPath := providedPath
	if targetPath == "" {
		targetPath = GetDefaultDBPathOnly()
	}

	if strings.HasPrefix(targetPath, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory to expand path '%s': %w", targetPath, err)
		}
		targetPath = filepath.Join(homeDir, targetPath[2:])
	}

	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", targetPath, err)
	}
	targetPath = absPath

	dbDir := filepath.Dir(targetPath)
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dbDir, 0755); err != nil { // 0755 gives rwx for user, rx for group/other
			return "", fmt.Errorf("failed to create directory '%s' for database: %w", dbDir, err)
		}
	} else if err != nil {
		// Some other error occurred when checking the directory.
		return "", fmt.Errorf("failed to stat directory '%s' for database: %w", dbDir, err)
	}

	return targetPath, nil
}

// SaveSessionCookie persists the session cookie string for reuse. An empty
// cookie removes the file.
func SaveSessionCookie(path, cookie string) error {
	if path == "" {
		path = GetDefaultSessionPath()
	}
	if cookie == "" {
		err := os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove session file '%s': %w", path, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for session file '%s': %w", path, err)
	}
	if err := os.WriteFile(path, []byte(cookie), 0600); err != nil {
		return fmt.Errorf("failed to write session file '%s': %w", path, err)
	}
	return nil
}

// LoadSessionCookie reads a previously saved session cookie. A missing file
// reads as an empty cookie.
func LoadSessionCookie(path string) (string, error) {
	if path == "" {
		path = GetDefaultSessionPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read session file '%s': %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}
