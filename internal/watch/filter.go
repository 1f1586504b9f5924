package watch

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skippedDirs are directory names never descended into, regardless of the
// configured patterns.
var skippedDirs = []string{
	".git",
	"node_modules",
	"vendor",
	"dist",
	"build",
	"target",
	".idea",
	".vscode",
}

func shouldSkipDir(name string) bool {
	for _, skip := range skippedDirs {
		if strings.EqualFold(name, skip) {
			return true
		}
	}
	return false
}

// matchesInclude returns true if relPath matches any include pattern. An
// empty pattern list includes everything.
func matchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// matchesExclude returns true if relPath matches any exclude pattern.
func matchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// matchesAny checks relPath against each glob, using doublestar for **
// support and also matching against the bare file name.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}

		base := filepath.Base(normalized)
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
