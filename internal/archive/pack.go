// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrUnsupportedFileType is returned for directory entries that are neither
// directories nor regular files nor symbolic links.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// PackDir writes the tree below dir into w as cpio archive. Entry names are
// relative to dir. Entries are written in lexical order and carry no owner or
// timestamp information.
func PackDir(w io.Writer, dir string) error {
	archive := NewWriter(w)

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}

		if name == "." {
			return nil
		}

		name = filepath.ToSlash(name)

		return packEntry(archive, path, name, entry)
	})
	if err != nil {
		return fmt.Errorf("pack %s: %w", dir, err)
	}

	return archive.Close()
}

func packEntry(archive *Writer, path, name string, entry fs.DirEntry) error {
	info, err := entry.Info()
	if err != nil {
		return fmt.Errorf("file info: %w", err)
	}

	switch {
	case info.IsDir():
		return archive.WriteDirectory(name, info.Mode())
	case info.Mode()&fs.ModeSymlink != 0:
		target, err := os.Readlink(path)
		if err != nil {
			return fmt.Errorf("read link: %w", err)
		}

		return archive.WriteLink(name, target)
	case info.Mode().IsRegular():
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open: %w", err)
		}
		defer file.Close()

		return archive.WriteRegular(name, file, info.Size(), info.Mode())
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, name)
	}
}
