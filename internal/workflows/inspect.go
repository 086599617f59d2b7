package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/idresign/internal/errors"
	"github.com/PolarWolf314/idresign/internal/saves"
)

// InspectOptions configures the inspect workflow.
type InspectOptions struct {
	// Path is a save file or a directory of saves.
	Path string

	// Include restricts a directory walk, as for Job.Include.
	Include []string
}

// FileReport describes one recognized save file.
type FileReport struct {
	Path    string
	RelPath string
	Size    int64

	// Entropy is in bits per byte over the heuristic window.
	Entropy float64

	// LooksEncrypted is the heuristic verdict used by the encrypt gate.
	LooksEncrypted bool
}

// InspectResult contains the outcome of an inspect operation.
type InspectResult struct {
	Root    string
	Files   []FileReport
	Skipped []string
}

// Encrypted returns how many files look encrypted.
func (r *InspectResult) Encrypted() int {
	n := 0
	for _, f := range r.Files {
		if f.LooksEncrypted {
			n++
		}
	}
	return n
}

// Inspect reports size, entropy and the ciphertext verdict for each save
// file under opts.Path. Unlike a batch, a single file is accepted.
//
// Returns ErrPathNotFound or ErrNoSupportedFiles as Collect does, and a
// *kerrors.FileError wrapping ErrIOFailure if a file cannot be read.
func Inspect(ctx context.Context, opts InspectOptions) (*InspectResult, error) {
	collected, err := saves.Collect(opts.Path, opts.Include)
	if err != nil {
		return nil, err
	}

	result := &InspectResult{
		Root:    collected.Root,
		Skipped: collected.Skipped,
	}

	base := collected.Root
	if info, err := os.Stat(base); err == nil && !info.IsDir() {
		base = filepath.Dir(base)
	}

	for _, path := range collected.Files {
		name := filepath.Base(path)

		info, err := os.Stat(path)
		if err != nil {
			return nil, &kerrors.FileError{Op: "inspect", File: name, Err: fmt.Errorf("%w: %v", kerrors.ErrIOFailure, err)}
		}
		head, err := readPrefix(path, saves.HeuristicWindow)
		if err != nil {
			return nil, &kerrors.FileError{Op: "inspect", File: name, Err: fmt.Errorf("%w: %v", kerrors.ErrIOFailure, err)}
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			rel = name
		}

		result.Files = append(result.Files, FileReport{
			Path:           path,
			RelPath:        rel,
			Size:           info.Size(),
			Entropy:        saves.Entropy(head),
			LooksEncrypted: saves.LooksEncrypted(head),
		})
	}

	return result, nil
}
