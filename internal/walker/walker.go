package walker

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
)

// FindHTML returns the paths, relative to root and slash separated, of every
// file matching include and not matching exclude. Nil include or exclude
// select the defaults.
func FindHTML(root string, include, exclude []string) ([]string, error) {
	if include == nil {
		include = DefaultInclude
	}
	if exclude == nil {
		exclude = DefaultExcludes
	}

	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		if MatchesExclude(rel, exclude) || !MatchesInclude(rel, include) {
			return nil
		}
		found = append(found, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(found)
	return found, nil
}
