// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bootloader

import (
	"fmt"
	"slices"

	"github.com/aibor/bootimage/internal/cargo"
)

const binKind = "bin"

// Bootloader is the resolved bootloader package.
type Bootloader struct {
	// Name is the package name.
	Name string

	// Version is the resolved package version.
	Version string

	// ManifestPath is the path of the package's Cargo.toml.
	ManifestPath string

	// BinaryName is the name of the executable the package builds.
	BinaryName string
}

// Locate returns the bootloader package with the given name the kernel
// package at manifestPath directly depends on.
func Locate(metadata *cargo.Metadata, manifestPath, name string) (Bootloader, error) {
	kernelPkg, ok := metadata.PackageByManifest(manifestPath)
	if !ok {
		return Bootloader{}, fmt.Errorf("%w: no package for %s", ErrNotFound, manifestPath)
	}

	pkg, ok := metadata.Dependency(kernelPkg, name)
	if !ok {
		return Bootloader{}, fmt.Errorf("%w: %s does not depend on %q",
			ErrNotFound, kernelPkg.Name, name)
	}

	bootloader := Bootloader{
		Name:         pkg.Name,
		Version:      pkg.Version,
		ManifestPath: pkg.ManifestPath,
		BinaryName:   pkg.Name,
	}

	for _, target := range pkg.Targets {
		if slices.Contains(target.Kind, binKind) {
			bootloader.BinaryName = target.Name
			break
		}
	}

	return bootloader, nil
}
