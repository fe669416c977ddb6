// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package imagecache

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/aibor/bootimage/internal/config"
	"github.com/cespare/xxhash/v2"
)

// Key identifies a disk image by all inputs that determine its content.
type Key uint64

// String implements the [fmt.Stringer] interface.
func (k Key) String() string {
	return fmt.Sprintf("%016x", uint64(k))
}

// Input is the set of values a disk image is derived from.
type Input struct {
	// KernelPath is the path of the kernel executable. Its content is part of
	// the key, the path itself is not.
	KernelPath string

	Target            string
	Layout            config.MemoryLayout
	BootloaderVersion string
	PackagePath       string
	MinimumImageSize  uint64
}

// NewKey returns the [Key] for the given input.
func NewKey(input Input) (Key, error) {
	digest := xxhash.New()

	kernel, err := os.Open(input.KernelPath)
	if err != nil {
		return 0, fmt.Errorf("open kernel: %w", err)
	}
	defer kernel.Close()

	_, err = io.Copy(digest, kernel)
	if err != nil {
		return 0, fmt.Errorf("read kernel: %w", err)
	}

	for _, field := range []string{
		input.Target,
		optional(input.Layout.PhysicalMemoryOffset),
		optional(input.Layout.KernelStackAddress),
		strconv.FormatUint(input.Layout.KernelStackSize, 10),
		input.BootloaderVersion,
		input.PackagePath,
		strconv.FormatUint(input.MinimumImageSize, 10),
	} {
		// Separator prevents ambiguous concatenations.
		_, _ = digest.WriteString(field)
		_, _ = digest.Write([]byte{0})
	}

	return Key(digest.Sum64()), nil
}

func optional(value *uint64) string {
	if value == nil {
		return "-"
	}

	return strconv.FormatUint(*value, 10)
}
