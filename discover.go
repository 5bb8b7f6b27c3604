package hcv

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover
//
// This function will list the plugin names that have a file at prefix+name+suffix, skipping files whose name part
// would not be accepted by Load. A missing directory yields no names.
func Discover(prefix, suffix string) ([]string, error) {
	dir, base := filepath.Split(prefix)
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		file := entry.Name()
		if !strings.HasPrefix(file, base) || !strings.HasSuffix(file, suffix) || len(file) <= len(base)+len(suffix) {
			continue
		}

		name := file[len(base) : len(file)-len(suffix)]
		if ValidPluginName(name) {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}
