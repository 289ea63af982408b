package secrets

import (
	"fmt"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/envcloak/internal/errors"
)

// StagedFile is a fully written temporary file waiting to be renamed over
// its destination.
type StagedFile struct {
	tempPath string
	destPath string
	done     bool
}

// Stage writes data to a temporary file in the destination's directory.
// Nothing is visible at dest until Commit.
func Stage(dest string, data []byte, perm os.FileMode) (*StagedFile, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating directory %s: %v", kerrors.ErrIOFailure, dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("%w: creating temporary file in %s: %v", kerrors.ErrIOFailure, dir, err)
	}
	tempPath := f.Name()

	fail := func(op string, err error) (*StagedFile, error) {
		_ = f.Close()
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("%w: %s %s: %v", kerrors.ErrIOFailure, op, tempPath, err)
	}

	if err := f.Chmod(perm); err != nil {
		return fail("setting permissions on", err)
	}
	if _, err := f.Write(data); err != nil {
		return fail("writing", err)
	}
	if err := f.Sync(); err != nil {
		return fail("syncing", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("%w: closing %s: %v", kerrors.ErrIOFailure, tempPath, err)
	}

	return &StagedFile{tempPath: tempPath, destPath: dest}, nil
}

// Path returns the temporary file's path.
func (s *StagedFile) Path() string {
	return s.tempPath
}

// Commit renames the temporary file over the destination.
func (s *StagedFile) Commit() error {
	if s.done {
		return fmt.Errorf("%w: %s already committed or discarded", kerrors.ErrIOFailure, s.tempPath)
	}
	s.done = true
	if err := os.Rename(s.tempPath, s.destPath); err != nil {
		_ = os.Remove(s.tempPath)
		return fmt.Errorf("%w: moving %s into place: %v", kerrors.ErrIOFailure, s.destPath, err)
	}
	return nil
}

// Discard removes the temporary file. It is a no-op after Commit.
func (s *StagedFile) Discard() {
	if s.done {
		return
	}
	s.done = true
	_ = os.Remove(s.tempPath)
}

// WriteFileAtomic writes data to path via a temporary file and rename, so a
// crash never leaves a partially written file at path.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	staged, err := Stage(path, data, perm)
	if err != nil {
		return err
	}
	return staged.Commit()
}
