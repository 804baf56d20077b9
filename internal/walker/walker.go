// Package walker finds the HTML pages of a static site and the location
// path each one is served at.
package walker

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
)

// PageFile is one HTML page discovered under a site root.
type PageFile struct {
	Path    string // Absolute path on disk.
	RelPath string // Path relative to the site root, slash-separated.
	URLPath string // Location path the page is served at, e.g. /talk/index.html.
}

// Config controls the behaviour of Walk.
type Config struct {
	RootDir string   // Site root directory.
	Include []string // Glob patterns; DefaultInclude when empty.
	Exclude []string // Glob patterns of pages to skip.
}

// Walk traverses the site rooted at cfg.RootDir and returns the pages that
// pass filtering, sorted by RelPath.
func Walk(cfg Config) ([]PageFile, error) {
	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}

	var pages []PageFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		if d.IsDir() {
			if path != root && shouldExcludeDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if !MatchesInclude(relPath, cfg.Include) || MatchesExclude(relPath, cfg.Exclude) {
			return nil
		}

		pages = append(pages, PageFile{
			Path:    path,
			RelPath: relPath,
			URLPath: "/" + relPath,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].RelPath < pages[j].RelPath })
	return pages, nil
}
