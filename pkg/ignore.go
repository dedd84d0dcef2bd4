package dupfind

import (
	"bufio"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// IgnoreManager holds regular expressions for paths the scan must skip
type IgnoreManager struct {
	fs         afero.Fs
	ignorePath string
	patterns   []*regexp.Regexp
	loaded     bool
}

// NewIgnoreManager creates an ignore manager reading patterns from ignorePath.
// An empty ignorePath means patterns are only added with AddPattern.
func NewIgnoreManager(fsys afero.Fs, ignorePath string) *IgnoreManager {
	return &IgnoreManager{
		fs:         fsys,
		ignorePath: ignorePath,
		patterns:   make([]*regexp.Regexp, 0),
	}
}

// LoadIgnorePatterns loads patterns from the ignore file, once.
// A named file that does not exist is an error.
func (im *IgnoreManager) LoadIgnorePatterns() error {
	if im.loaded {
		return nil
	}
	im.loaded = true

	if im.ignorePath == "" {
		return nil
	}

	file, err := im.fs.Open(im.ignorePath)
	if err != nil {
		return fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pattern, err := regexp.Compile(line)
		if err != nil {
			return fmt.Errorf("invalid regex pattern at line %d: %s - %w", lineNum, line, err)
		}

		im.patterns = append(im.patterns, pattern)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ignore file: %w", err)
	}

	VerboseLog(2, "loaded %d ignore patterns from %s", len(im.patterns), im.ignorePath)
	return nil
}

// AddPattern compiles and appends a single pattern
func (im *IgnoreManager) AddPattern(expr string) error {
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("invalid regex pattern %s: %w", expr, err)
	}
	im.patterns = append(im.patterns, pattern)
	return nil
}

// PatternCount returns the number of active patterns
func (im *IgnoreManager) PatternCount() int {
	return len(im.patterns)
}

// ShouldIgnore checks a root-relative path against the patterns.
// Patterns must be loaded before workers call this concurrently.
func (im *IgnoreManager) ShouldIgnore(relativePath string) bool {
	if im == nil {
		return false
	}

	normalisedPath := filepath.ToSlash(relativePath)

	for _, pattern := range im.patterns {
		if pattern.MatchString(normalisedPath) {
			return true
		}
	}

	return false
}
