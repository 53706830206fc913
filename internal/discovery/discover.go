package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// IsScriptFile reports whether filename looks like a SQL script
func IsScriptFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".sql")
}

// Discover returns the scripts under rootPath. A file is returned as is,
// whatever its extension. A directory yields its *.sql files sorted by name,
// without descending into subdirectories, so numbered migrations such as
// 001_init.sql and 002_users.sql come out in apply order.
func Discover(rootPath string) ([]Script, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("path not found: %s", absRoot)
		}
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return []Script{{
			Path:         absRoot,
			RelativePath: filepath.Base(absRoot),
			ModTime:      info.ModTime(),
		}}, nil
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var scripts []Script
	for _, entry := range entries {
		if entry.IsDir() || !IsScriptFile(entry.Name()) {
			continue
		}

		fileInfo, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}

		scripts = append(scripts, Script{
			Path:         filepath.Join(absRoot, entry.Name()),
			RelativePath: entry.Name(),
			ModTime:      fileInfo.ModTime(),
		})
	}

	sort.Slice(scripts, func(i, j int) bool {
		return scripts[i].RelativePath < scripts[j].RelativePath
	})

	return scripts, nil
}

// DiscoverAll runs Discover for every path in order and drops duplicates,
// keeping the first occurrence.
func DiscoverAll(paths []string) ([]Script, error) {
	var scripts []Script
	seen := make(map[string]bool)

	for _, path := range paths {
		found, err := Discover(path)
		if err != nil {
			return nil, err
		}
		for _, script := range found {
			if !seen[script.Path] {
				scripts = append(scripts, script)
				seen[script.Path] = true
			}
		}
	}

	return scripts, nil
}
