package discovery

import (
	"fmt"
	"os"
	"time"
)

// Script is a SQL script selected for splitting or execution
type Script struct {
	Path         string    // Absolute path to file
	RelativePath string    // Path relative to the discovery root, or the base name for a single file
	ModTime      time.Time // Last modification time
}

// Read returns the full script text
func (s Script) Read() (string, error) {
	content, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read script %s: %w", s.RelativePath, err)
	}
	return string(content), nil
}

// Name returns the path used in progress and error messages
func (s Script) Name() string {
	if s.RelativePath != "" {
		return s.RelativePath
	}
	return s.Path
}
