// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cargo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
)

// Metadata is the subset of "cargo metadata" output that is needed to locate
// packages and build output.
type Metadata struct {
	Packages        []Package `json:"packages"`
	Resolve         *Resolve  `json:"resolve"`
	TargetDirectory string    `json:"target_directory"`
}

// Package is a package of the dependency graph.
type Package struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	ID           string   `json:"id"`
	ManifestPath string   `json:"manifest_path"`
	Targets      []Target `json:"targets"`
}

// Target is a build target of a package.
type Target struct {
	Name string   `json:"name"`
	Kind []string `json:"kind"`
}

// Resolve is the resolved dependency graph.
type Resolve struct {
	Nodes []Node `json:"nodes"`
}

// Node is a package of the resolved dependency graph with its direct
// dependencies.
type Node struct {
	ID   string    `json:"id"`
	Deps []NodeDep `json:"deps"`
}

// NodeDep is a direct dependency of a [Node].
type NodeDep struct {
	// Name is the crate name the dependency is known as in the dependent
	// package. It may be renamed.
	Name string `json:"name"`
	Pkg  string `json:"pkg"`
}

// PackageByID returns the package with the given package ID.
func (m *Metadata) PackageByID(id string) (Package, bool) {
	for _, pkg := range m.Packages {
		if pkg.ID == id {
			return pkg, true
		}
	}

	return Package{}, false
}

// PackageByManifest returns the package with the given manifest path.
func (m *Metadata) PackageByManifest(manifestPath string) (Package, bool) {
	for _, pkg := range m.Packages {
		if filepath.Clean(pkg.ManifestPath) == filepath.Clean(manifestPath) {
			return pkg, true
		}
	}

	return Package{}, false
}

// Dependency returns the direct dependency of pkg with the given package
// name. Only the resolved graph is considered, so the returned package is the
// exact version pkg is built with.
func (m *Metadata) Dependency(pkg Package, name string) (Package, bool) {
	if m.Resolve == nil {
		return Package{}, false
	}

	for _, node := range m.Resolve.Nodes {
		if node.ID != pkg.ID {
			continue
		}

		for _, dep := range node.Deps {
			depPkg, ok := m.PackageByID(dep.Pkg)
			if ok && depPkg.Name == name {
				return depPkg, true
			}
		}
	}

	return Package{}, false
}

// ParseMetadata decodes the JSON output of "cargo metadata".
func ParseMetadata(r io.Reader) (*Metadata, error) {
	var metadata Metadata

	err := json.NewDecoder(r).Decode(&metadata)
	if err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	return &metadata, nil
}

// ReadMetadata runs "cargo metadata" for the given manifest with the given
// cargo executable and returns the parsed result. The dependency graph is
// included, so dependencies like the bootloader are part of the result.
func ReadMetadata(
	ctx context.Context,
	cargo string,
	manifestPath string,
) (*Metadata, error) {
	var metadata *Metadata

	cmd := Command{
		Args: []string{
			cargo, "metadata",
			"--format-version", "1",
			"--manifest-path", manifestPath,
		},
		Dir: filepath.Dir(manifestPath),
		Stdout: func(stdout io.Reader) error {
			var err error

			metadata, err = ParseMetadata(stdout)

			return err
		},
	}

	err := Exec(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("cargo metadata: %w", err)
	}

	return metadata, nil
}
