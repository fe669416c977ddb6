// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
	"testing"
)

const (
	elfHeaderSize     = 64
	elfProgHeaderSize = 56
)

// TestSegment is a loadable segment for [TestELF].
type TestSegment struct {
	Paddr uint64
	Data  []byte
}

// TestELF returns a minimal little endian ELF64 executable for the given
// machine with one PT_LOAD program header per segment.
func TestELF(tb testing.TB, machine elf.Machine, segments ...TestSegment) []byte {
	tb.Helper()

	var buf bytes.Buffer

	header := elf.Header64{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(machine),
		Version:   uint32(elf.EV_CURRENT),
		Phoff:     elfHeaderSize,
		Ehsize:    elfHeaderSize,
		Phentsize: elfProgHeaderSize,
		Phnum:     uint16(len(segments)),
		Shentsize: elfHeaderSize,
	}
	copy(header.Ident[:], elf.ELFMAG)
	header.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	header.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	header.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	if len(segments) > 0 {
		header.Entry = segments[0].Paddr
	}

	write := func(data any) {
		err := binary.Write(&buf, binary.LittleEndian, data)
		if err != nil {
			tb.Fatalf("write test ELF: %v", err)
		}
	}

	write(header)

	offset := uint64(elfHeaderSize + elfProgHeaderSize*len(segments))

	for _, segment := range segments {
		size := uint64(len(segment.Data))
		write(elf.Prog64{
			Type:   uint32(elf.PT_LOAD),
			Flags:  uint32(elf.PF_R | elf.PF_X),
			Off:    offset,
			Vaddr:  segment.Paddr,
			Paddr:  segment.Paddr,
			Filesz: size,
			Memsz:  size,
			Align:  1,
		})

		offset += size
	}

	for _, segment := range segments {
		buf.Write(segment.Data)
	}

	return buf.Bytes()
}

// WriteTestELF writes the result of [TestELF] to path.
func WriteTestELF(
	tb testing.TB,
	path string,
	machine elf.Machine,
	segments ...TestSegment,
) {
	tb.Helper()

	err := os.WriteFile(path, TestELF(tb, machine, segments...), 0o755)
	if err != nil {
		tb.Fatalf("write test ELF file: %v", err)
	}
}
