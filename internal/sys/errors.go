// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import "errors"

var (
	// ErrNotELFFile is returned if the file does not have an ELF magic number.
	ErrNotELFFile = errors.New("is not an ELF file")

	// ErrMachineNotSupported is returned if the machine type of an ELF file
	// does not match the architecture of the target it was built for.
	ErrMachineNotSupported = errors.New("machine type not supported")

	// ErrNoLoadableSegments is returned if an ELF file has no PT_LOAD segment
	// with file data.
	ErrNoLoadableSegments = errors.New("no loadable segments")

	// ErrEmptyPath is returned if an empty path is given.
	ErrEmptyPath = errors.New("path must not be empty")

	// ErrNotRegularFile is returned if a path is expected to be a regular
	// file but is not.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrArchNotSupported is returned if the architecture of a target triple
	// is not known.
	ErrArchNotSupported = errors.New("architecture not supported")
)
