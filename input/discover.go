package input

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/ge0mant1s/soacframe-community/model"
	"github.com/ge0mant1s/soacframe-community/util"
)

var (
	// QueryPatterns are the default file patterns for query rule libraries.
	QueryPatterns = []string{"*.kql"}
	// StructuredPatterns are the default file patterns for structured rules.
	StructuredPatterns = []string{"*.yml", "*.yaml"}
)

// DiscoverRules lists the files under root whose base name matches one of
// patterns, sorted by path. With recursive unset only root itself is listed.
// A root that is a regular file is returned as the only entry.
func DiscoverRules(root string, patterns []string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &model.InputMissingError{Path: root, Hint: "Check the rules directory path."}
		}
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			util.Warn("DiscoverRules: skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesAny(d.Name(), patterns) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	util.Debug("DiscoverRules: found %d files under %s", len(paths), root)
	return paths, nil
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}
