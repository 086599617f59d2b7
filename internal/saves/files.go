package saves

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/idresign/internal/errors"

	"github.com/bmatcuk/doublestar/v4"
)

// Extensions lists the recognized save file suffixes, lower-case.
var Extensions = []string{".bin", ".dat", ".details", ".details-backup", ".dat-backup"}

// IsRecognized reports whether path names a save file, by suffix and
// ignoring case.
func IsRecognized(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, ext := range Extensions {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	return false
}

// CollectResult is the outcome of walking an input root.
type CollectResult struct {
	Root string

	// Files are the recognized save files, in walk order.
	Files []string

	// Skipped are regular files that were not recognized or were excluded
	// by include patterns. They are informational only.
	Skipped []string
}

// Collect finds the save files under root. A file root yields itself if
// recognized. A directory root is walked fully; directories are visited
// in lexical order so repeated runs see the same sequence.
//
// include optionally restricts the result to files whose slash-separated
// path relative to root matches one of the doublestar patterns.
//
// Returns ErrPathNotFound if root does not exist and ErrNoSupportedFiles
// if nothing was collected.
func Collect(root string, include []string) (*CollectResult, error) {
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern %q", pattern)
		}
	}

	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrPathNotFound, root)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrIOFailure, err)
	}

	result := &CollectResult{Root: root}

	if !info.IsDir() {
		result.add(root, filepath.Base(root), include)
	} else if err := result.walk(root, include); err != nil {
		return nil, fmt.Errorf("%w: walking %s: %v", kerrors.ErrIOFailure, root, err)
	}

	if len(result.Files) == 0 {
		return nil, fmt.Errorf("%w in %s", kerrors.ErrNoSupportedFiles, root)
	}
	return result, nil
}

func (r *CollectResult) walk(root string, include []string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// Symlinks to regular files are processed; symlinked directories
		// are not descended into.
		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil || !target.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		r.add(path, filepath.ToSlash(rel), include)
		return nil
	})
}

func (r *CollectResult) add(path, rel string, include []string) {
	if IsRecognized(path) && matchesAny(include, rel) {
		r.Files = append(r.Files, path)
		return
	}
	r.Skipped = append(r.Skipped, path)
}

// matchesAny reports whether rel matches one of the patterns. No patterns
// matches everything.
func matchesAny(patterns []string, rel string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
