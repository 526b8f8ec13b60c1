package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/athorsen/local2stream/internal/shared"
)

// Scan walks dir recursively and returns one descriptor per supported audio
// file, in lexical walk order. Unreadable subdirectories are skipped; an
// unreadable root is an error.
func Scan(dir string) ([]TrackDescriptor, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read music directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", shared.ErrInvalidArgument, dir)
	}

	var descriptors []TrackDescriptor
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsSupported(path) {
			return nil
		}
		descriptors = append(descriptors, Extract(path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	return descriptors, nil
}
