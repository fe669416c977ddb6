// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/cavaliergopher/cpio"
)

const numLinks = 2

// epoch is used as modification time of all entries, so archives of the same
// tree are identical.
var epoch = time.Unix(0, 0)

// Writer writes entries into a cpio archive in "newc" format.
type Writer struct {
	cpioWriter *cpio.Writer
}

// NewWriter creates a new archive writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{cpio.NewWriter(w)}
}

// Close writes the archive trailer and flushes the data to the underlying
// [io.Writer].
func (w *Writer) Close() error {
	err := w.cpioWriter.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

func (w *Writer) writeHeader(hdr *cpio.Header) error {
	hdr.ModTime = epoch

	err := w.cpioWriter.WriteHeader(hdr)
	if err != nil {
		return fmt.Errorf("write header for %s: %w", hdr.Name, err)
	}

	return nil
}

// WriteDirectory adds a directory entry for the given path.
func (w *Writer) WriteDirectory(path string, mode fs.FileMode) error {
	return w.writeHeader(&cpio.Header{
		Name:  path,
		Mode:  cpio.TypeDir | cpio.FileMode(mode.Perm()),
		Links: numLinks,
	})
}

// WriteLink adds a symbolic link for the given path pointing to target.
func (w *Writer) WriteLink(path, target string) error {
	err := w.writeHeader(&cpio.Header{
		Name:  path,
		Mode:  cpio.TypeSymlink | cpio.ModePerm,
		Size:  int64(len(target)),
		Links: 1,
	})
	if err != nil {
		return err
	}

	// Body of a link is the path of the target file.
	_, err = w.cpioWriter.Write([]byte(target))
	if err != nil {
		return fmt.Errorf("write body for %s: %w", path, err)
	}

	return nil
}

// WriteRegular copies size bytes from source into a regular file entry.
func (w *Writer) WriteRegular(
	path string,
	source io.Reader,
	size int64,
	mode fs.FileMode,
) error {
	err := w.writeHeader(&cpio.Header{
		Name:  path,
		Mode:  cpio.TypeReg | cpio.FileMode(mode.Perm()),
		Size:  size,
		Links: 1,
	})
	if err != nil {
		return err
	}

	_, err = io.CopyN(w.cpioWriter, source, size)
	if err != nil {
		return fmt.Errorf("write body for %s: %w", path, err)
	}

	return nil
}
