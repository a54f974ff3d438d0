// Package file contains helpers for reading local files as datasources.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one eligible source file.
type Entry struct {
	Path  string // full path to the file
	Name  string // base name, e.g. "purchases.csv"
	Table string // destination table, base name minus extension
}

// ListCSV returns the *.csv files directly inside dir, sorted by file name.
// The extension match is case-insensitive; directories and other files are
// skipped.
func ListCSV(dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var out []Entry
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		ext := filepath.Ext(name)
		if !strings.EqualFold(ext, ".csv") {
			continue
		}
		table := strings.TrimSuffix(name, ext)
		if table == "" {
			continue
		}
		out = append(out, Entry{
			Path:  filepath.Join(dir, name),
			Name:  name,
			Table: table,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
