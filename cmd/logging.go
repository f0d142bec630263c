package cmd

import (
	"os"
	"path/filepath"
	"strings"
)

// LogDestination is where log output is written
type LogDestination int

const (
	LogToStderr LogDestination = iota
	LogToFile
)

const (
	linuxLogPath  = "~/.config/srenow/debug.log"
	darwinLogPath = "~/Library/Logs/srenow.log"
)

// determineLogDestination picks the log destination for goos. Paths are
// returned unexpanded.
func determineLogDestination(goos string) (LogDestination, string) {
	switch goos {
	case "linux":
		return LogToFile, linuxLogPath
	case "darwin":
		return LogToFile, darwinLogPath
	default:
		return LogToStderr, ""
	}
}

// LogFile returns the log file path for goos, creating its directory. An
// empty path means logs go to stderr.
func LogFile(goos string) (string, error) {
	dest, path := determineLogDestination(goos)
	if dest != LogToFile {
		return "", nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	path = expandHome(path, home)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}
	return path, nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
