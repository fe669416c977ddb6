// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kernel

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aibor/bootimage/internal/sys"
)

// testExecutableDir is the directory name cargo puts test executables in.
const testExecutableDir = "deps"

// Artifact is a compiled kernel executable.
type Artifact struct {
	// Path is the absolute path of the executable.
	Path string

	// Name is the name of the build target the executable was built for.
	Name string

	// Target is the compilation target the executable was built for.
	Target string

	// IsTest is true if the executable was built with the test profile.
	IsTest bool
}

// ArtifactFromPath returns the [Artifact] of an executable that was built
// already. It is considered a test executable if it is located in cargo's
// directory for test executables.
func ArtifactFromPath(path, target string) Artifact {
	return Artifact{
		Path:   path,
		Name:   fileStem(path),
		Target: target,
		IsTest: filepath.Base(filepath.Dir(path)) == testExecutableDir,
	}
}

// Validate checks that the executable is an ELF file built for the
// architecture of its target.
func (a Artifact) Validate() error {
	err := sys.ValidateKernelELF(a.Path, a.Target)
	if err != nil {
		return fmt.Errorf("kernel executable %s: %w", a.Path, err)
	}

	return nil
}

// DiskImagePath returns the path of the bootable disk image for the artifact.
// It is located next to the executable, so each artifact has its own image.
func (a Artifact) DiskImagePath() string {
	return filepath.Join(
		filepath.Dir(a.Path),
		"bootimage-"+fileStem(a.Path)+".bin",
	)
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
