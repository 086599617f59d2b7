package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteFileAll writes data to path, creating missing parent directories
// and replacing any existing file.
func WriteFileAll(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	// #nosec G306 -- save files are user data and should stay editable.
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	return nil
}

// MirrorPath maps path, which must lie under srcRoot, to the same relative
// location under dstRoot.
func MirrorPath(srcRoot, dstRoot, path string) (string, error) {
	rel, err := filepath.Rel(srcRoot, path)
	if err != nil {
		return "", fmt.Errorf("computing path of %s relative to %s: %w", path, srcRoot, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not inside %s", path, srcRoot)
	}
	return filepath.Join(dstRoot, rel), nil
}
