// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import "time"

// ImagePathPlaceholder is replaced with the path of the bootable disk image in
// the run command.
const ImagePathPlaceholder = "{}"

const (
	// PageSize is the size of a memory page in bytes.
	PageSize = 4096

	// DefaultKernelStackSize is the default kernel stack size in pages.
	DefaultKernelStackSize = 512

	// DefaultTestTimeout is used if "test-timeout" is not configured.
	DefaultTestTimeout = 300 * time.Second

	// DefaultBootloaderName is the package name of the bootloader
	// dependency.
	DefaultBootloaderName = "bootloader"

	mebibyte = 1 << 20
)

// DefaultBuildCommand returns the build command used if "build-command" is
// not configured.
func DefaultBuildCommand() []string {
	return []string{"cargo", "build"}
}

// DefaultRunCommand returns the run command used if "run-command" is not
// configured.
func DefaultRunCommand() []string {
	return []string{
		"qemu-system-x86_64",
		"-drive", "format=raw,file=" + ImagePathPlaceholder,
	}
}

// Build is the configuration for building the kernel and the bootloader.
type Build struct {
	// Target is the resolved compilation target. It is never empty once
	// resolved.
	Target string

	// DefaultTarget is the configured "default-target", if any.
	DefaultTarget string

	// Command is the build command template. Target and message format
	// arguments are appended.
	Command []string

	// Args are additional arguments appended to the kernel build command.
	Args []string

	// BootloaderName is the package name of the bootloader dependency.
	BootloaderName string

	// PackagePath is an optional file or directory appended to the disk
	// image.
	PackagePath string

	// MinimumImageSize is the minimum size of the disk image in bytes.
	MinimumImageSize uint64
}

// Run is the configuration for running a bootable disk image.
type Run struct {
	// Command is the run command template. Exactly one token contains
	// [ImagePathPlaceholder].
	Command []string

	// Args are appended to the run command for non-test executables.
	Args []string

	// TestArgs are appended to the run command for test executables.
	TestArgs []string

	// TestSuccessExitCode is the emulator exit code that signals a passed
	// test. If nil, exit code 0 signals success.
	TestSuccessExitCode *int

	// TestTimeout is the time a test may run before it is killed. Zero
	// disables the timeout.
	TestTimeout time.Duration

	// TestNoReboot adds "-no-reboot" to the run command of tests.
	TestNoReboot bool
}

// MemoryLayout is the kernel specific paging and stack configuration the
// bootloader is built with.
type MemoryLayout struct {
	// PhysicalMemoryOffset is the virtual address the complete physical
	// memory is mapped at. If nil, the bootloader does not map it.
	PhysicalMemoryOffset *uint64

	// KernelStackAddress is the virtual start address of the kernel stack.
	// If nil, the bootloader chooses one.
	KernelStackAddress *uint64

	// KernelStackSize is the size of the kernel stack in pages.
	KernelStackSize uint64
}

// KernelStackBytes returns the kernel stack size in bytes.
func (m MemoryLayout) KernelStackBytes() uint64 {
	return m.KernelStackSize * PageSize
}

// Config is the fully resolved configuration of a kernel project.
type Config struct {
	// ManifestPath is the absolute path of the kernel's Cargo.toml.
	ManifestPath string

	Build        Build
	Run          Run
	MemoryLayout MemoryLayout
}
