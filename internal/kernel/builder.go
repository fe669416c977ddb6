// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kernel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/aibor/bootimage/internal/cargo"
	"github.com/aibor/bootimage/internal/config"
)

// Builder builds kernel executables.
type Builder struct {
	// ManifestPath is the path of the kernel's Cargo.toml.
	ManifestPath string

	// Config is the resolved build configuration.
	Config config.Build

	// Stderr receives the compiler diagnostics, if set.
	Stderr io.Writer
}

// Command returns the build command line.
func (b *Builder) Command() []string {
	cmd := slices.Clone(b.Config.Command)
	cmd = append(cmd,
		"--manifest-path", b.ManifestPath,
		"--target", b.Config.Target,
		cargo.MessageFormatArg,
	)

	return append(cmd, b.Config.Args...)
}

// Build invokes the build command once and returns all kernel executables it
// produced in the order they were reported. The executables are not
// validated, see [Artifact.Validate].
//
// A non-zero exit code of the build command is returned as [BuildError]. It is
// never retried.
func (b *Builder) Build(ctx context.Context) ([]Artifact, error) {
	var executables []cargo.Executable

	cmd := cargo.Command{
		Args: b.Command(),
		Dir:  filepath.Dir(b.ManifestPath),
		Stdout: func(stdout io.Reader) error {
			var err error

			executables, err = cargo.ParseExecutables(stdout)

			return err
		},
		Stderr: b.Stderr,
	}

	err := cargo.Exec(ctx, cmd)
	if err != nil {
		var exitErr *cargo.ExitError
		if errors.As(err, &exitErr) {
			return nil, &BuildError{
				ExitCode: exitErr.ExitCode,
				Output:   exitErr.Output,
			}
		}

		return nil, fmt.Errorf("run build command: %w", err)
	}

	if len(executables) == 0 {
		return nil, ErrNoExecutables
	}

	artifacts := make([]Artifact, 0, len(executables))

	for _, executable := range executables {
		artifact := Artifact{
			Path:   executable.Path,
			Name:   executable.Name,
			Target: b.Config.Target,
			IsTest: executable.IsTest,
		}

		slog.Debug("Built kernel executable",
			slog.String("path", artifact.Path),
			slog.String("name", artifact.Name),
			slog.Bool("test", artifact.IsTest))

		artifacts = append(artifacts, artifact)
	}

	return artifacts, nil
}
