// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"debug/elf"
	"path/filepath"
	"strings"
)

type Arch string

// Supported kernel architectures.
const (
	AMD64   Arch = "amd64"
	ARM64   Arch = "arm64"
	RISCV64 Arch = "riscv64"
)

func (a Arch) String() string {
	return string(a)
}

// Machine returns the ELF machine type kernels for the architecture are built
// for.
func (a Arch) Machine() elf.Machine {
	switch a {
	case AMD64:
		return elf.EM_X86_64
	case ARM64:
		return elf.EM_AARCH64
	case RISCV64:
		return elf.EM_RISCV
	default:
		return elf.EM_NONE
	}
}

// TargetName returns the name of a compilation target. For custom target
// specification files, this is the file stem, which is also the directory
// name the build tool uses for its output.
func TargetName(target string) string {
	if strings.HasSuffix(target, ".json") {
		return strings.TrimSuffix(filepath.Base(target), ".json")
	}

	return target
}

// ArchFromTarget returns the [Arch] of the given target triple or target
// specification path. It returns [ErrArchNotSupported] if the architecture
// part of the triple is unknown.
func ArchFromTarget(target string) (Arch, error) {
	name := TargetName(target)
	archPart, _, _ := strings.Cut(name, "-")

	switch archPart {
	case "x86_64":
		return AMD64, nil
	case "aarch64":
		return ARM64, nil
	case "riscv64", "riscv64gc", "riscv64imac":
		return RISCV64, nil
	default:
		return "", ErrArchNotSupported
	}
}
