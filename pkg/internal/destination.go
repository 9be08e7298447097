package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrDestinationExists means the destination path is already taken.
	ErrDestinationExists = errors.New("destination already exists")
	// ErrDestinationNotWritable means the destination's parent directory
	// refuses writes.
	ErrDestinationNotWritable = errors.New("destination parent directory is not writable")
)

// GuardDestination checks that dest can be materialized: it must not exist
// yet and its parent must accept writes. Writability is probed with a
// throwaway temp file rather than inferred from permission bits.
func GuardDestination(dest string) error {
	if _, err := os.Lstat(dest); err == nil {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dest)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %v", ErrDestinationNotWritable, dest, err)
	}

	parent := filepath.Dir(dest)
	probe, err := os.CreateTemp(parent, ".sprout-probe-")
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDestinationNotWritable, parent)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// RemoveDestination deletes whatever a failed run left at dest. A dest that
// never came into being is not an error.
func RemoveDestination(dest string) error {
	if _, err := os.Lstat(dest); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return os.RemoveAll(dest)
}
