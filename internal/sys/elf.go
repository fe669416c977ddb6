// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"slices"
)

// flatImageLimit is the maximum size of a flat image produced by
// [WriteFlatBinary]. Larger address spans are almost certainly segments
// linked at unrelated physical addresses.
const flatImageLimit = 1 << 30

// ValidateKernelELF checks that the file at path is an ELF file. If target
// has a known architecture, the ELF machine type must match.
func ValidateKernelELF(path, target string) error {
	elfFile, err := elf.Open(path)
	if err != nil {
		var formatErr *elf.FormatError
		if errors.As(err, &formatErr) ||
			errors.Is(err, io.EOF) ||
			errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%s %w", path, ErrNotELFFile)
		}

		return fmt.Errorf("open: %w", err)
	}
	defer elfFile.Close()

	arch, err := ArchFromTarget(target)
	if err != nil {
		// Unknown custom targets are accepted as is.
		return nil //nolint:nilerr
	}

	if elfFile.Machine != arch.Machine() {
		return fmt.Errorf(
			"%w: %s for target %s",
			ErrMachineNotSupported,
			elfFile.Machine,
			target,
		)
	}

	return nil
}

// WriteFlatBinary writes the loadable content of the given ELF file as a flat
// binary to w, the same way "objcopy -O binary" does. Each PT_LOAD segment
// with file data is placed at its physical address relative to the lowest
// one. Gaps are filled with zeros.
//
// It returns the number of bytes written.
func WriteFlatBinary(w io.Writer, elfFile *elf.File) (int64, error) {
	segments := make([]*elf.Prog, 0, len(elfFile.Progs))

	for _, prog := range elfFile.Progs {
		if prog.Type == elf.PT_LOAD && prog.Filesz > 0 {
			segments = append(segments, prog)
		}
	}

	if len(segments) == 0 {
		return 0, ErrNoLoadableSegments
	}

	slices.SortStableFunc(segments, func(a, b *elf.Prog) int {
		switch {
		case a.Paddr < b.Paddr:
			return -1
		case a.Paddr > b.Paddr:
			return 1
		default:
			return 0
		}
	})

	base := segments[0].Paddr

	var size uint64

	for _, prog := range segments {
		end := prog.Paddr - base + prog.Filesz
		if end < prog.Filesz || end > flatImageLimit {
			return 0, fmt.Errorf("flat image exceeds %d bytes", flatImageLimit)
		}

		size = max(size, end)
	}

	image := make([]byte, size)

	for _, prog := range segments {
		offset := prog.Paddr - base

		_, err := prog.ReadAt(image[offset:offset+prog.Filesz], 0)
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("read segment at %#x: %w", prog.Paddr, err)
		}
	}

	n, err := w.Write(image)
	if err != nil {
		return int64(n), fmt.Errorf("write: %w", err)
	}

	return int64(n), nil
}
