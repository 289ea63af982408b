package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	kerrors "github.com/PolarWolf314/envcloak/internal/errors"
)

// ListOptions controls directory enumeration.
type ListOptions struct {
	// Recursive descends into subdirectories.
	Recursive bool

	// Patterns are doublestar globs matched against the slash-separated
	// relative path. A pattern without a slash also matches the base name.
	// Empty means every file.
	Patterns []string

	// OnlySuffix keeps only files ending in this suffix.
	OnlySuffix string

	// SkipSuffix drops files ending in this suffix.
	SkipSuffix string

	// Exclude is an absolute directory that is never entered.
	Exclude string
}

// ValidatePatterns returns an error wrapping ErrInvalidPattern for the first
// pattern doublestar cannot parse.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: %q", kerrors.ErrInvalidPattern, p)
		}
	}
	return nil
}

// ListFiles enumerates regular files under root using directory metadata only.
// Paths are returned relative to root in lexical walk order.
func ListFiles(root string, opts ListOptions) ([]string, error) {
	if err := ValidatePatterns(opts.Patterns); err != nil {
		return nil, err
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !opts.Recursive || (opts.Exclude != "" && path == opts.Exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		// Skip symlinks, sockets and other irregular files.
		if !d.Type().IsRegular() {
			return nil
		}

		name := d.Name()
		if opts.OnlySuffix != "" && (name == opts.OnlySuffix || !strings.HasSuffix(name, opts.OnlySuffix)) {
			return nil
		}
		if opts.SkipSuffix != "" && strings.HasSuffix(name, opts.SkipSuffix) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if !matchesAny(opts.Patterns, filepath.ToSlash(rel)) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func matchesAny(patterns []string, rel string) bool {
	if len(patterns) == 0 {
		return true
	}
	base := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		base = rel[i+1:]
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if !strings.Contains(p, "/") {
			if ok, _ := doublestar.Match(p, base); ok {
				return true
			}
		}
	}
	return false
}
