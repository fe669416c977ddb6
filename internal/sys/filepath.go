// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// AbsolutePath returns the absolute path as resolved by [filepath.Abs].
//
// It returns [ErrEmptyPath] if the given path is empty.
func AbsolutePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}

	return path, nil
}

// ValidateFilePath checks that the given path exists and is a regular file.
func ValidateFilePath(path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if !stat.Mode().IsRegular() {
		return ErrNotRegularFile
	}

	return nil
}

// FindUpwards looks for a regular file with the given name in dir and all of
// its parent directories. The path of the first match is returned.
func FindUpwards(dir, name string) (string, error) {
	dir, err := AbsolutePath(dir)
	if err != nil {
		return "", err
	}

	for {
		path := filepath.Join(dir, name)

		err := ValidateFilePath(path)
		if err == nil {
			return path, nil
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("check %s: %w", path, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s: %w", name, fs.ErrNotExist)
		}

		dir = parent
	}
}
