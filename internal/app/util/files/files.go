package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry is one file discovered in a batch directory.
type Entry struct {
	Name     string
	FullPath string
	ModTime  time.Time
	Size     int64
}

// ListByExtension returns the files under dir whose extension matches one of
// extensions (case-insensitive, with or without the leading dot), oldest
// first so batches resume in submission order.
func ListByExtension(dir string, extensions []string) ([]Entry, error) {
	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		wanted[ext] = true
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %v", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		if len(wanted) > 0 && !wanted[strings.ToLower(filepath.Ext(de.Name()))] {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:     de.Name(),
			FullPath: filepath.Join(dir, de.Name()),
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ModTime.Before(entries[j].ModTime)
	})
	return entries, nil
}

// EnsureDir creates dir (and parents) when missing.
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}
	return nil
}

// GetAbsolutePath resolves path against the working directory.
func GetAbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %v", path, err)
	}
	return abs, nil
}

// ReplaceExtension swaps the extension of name, keeping the base.
func ReplaceExtension(name, newExt string) string {
	if !strings.HasPrefix(newExt, ".") {
		newExt = "." + newExt
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + newExt
}
