// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bootloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/aibor/bootimage/internal/cargo"
	"github.com/aibor/bootimage/internal/config"
	"github.com/aibor/bootimage/internal/imagecache"
	"github.com/aibor/bootimage/internal/kernel"
	"github.com/aibor/bootimage/internal/sys"
)

// Environment variables the bootloader's build script reads.
const (
	EnvKernel               = "KERNEL"
	EnvKernelManifest       = "KERNEL_MANIFEST"
	EnvPhysicalMemoryOffset = "BOOTLOADER_PHYSICAL_MEMORY_OFFSET"
	EnvKernelStackAddress   = "BOOTLOADER_KERNEL_STACK_ADDRESS"
	EnvKernelStackSize      = "BOOTLOADER_KERNEL_STACK_SIZE"
)

const (
	// bootloaderFeature enables the executable of the bootloader package.
	bootloaderFeature = "binary"

	releaseProfileDir = "release"
)

// Linker builds bootable disk images for kernel executables.
type Linker struct {
	// Config is the resolved configuration of the kernel project.
	Config *config.Config

	// Bootloader is the bootloader package to build.
	Bootloader Bootloader

	// TargetDir is the kernel project's build output directory. The
	// bootloader is built in a sub-directory of it.
	TargetDir string

	// Cache remembers created images. It is optional.
	Cache *imagecache.Cache

	// Stderr receives the compiler diagnostics, if set.
	Stderr io.Writer
}

// NewLinker locates the bootloader dependency of the kernel project described
// by cfg and returns a [Linker] for it.
func NewLinker(
	ctx context.Context,
	cfg *config.Config,
	cache *imagecache.Cache,
) (*Linker, error) {
	metadata, err := cargo.ReadMetadata(ctx, cfg.Build.Command[0], cfg.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	bootloader, err := Locate(metadata, cfg.ManifestPath, cfg.Build.BootloaderName)
	if err != nil {
		return nil, err
	}

	slog.Debug("Located bootloader",
		slog.String("name", bootloader.Name),
		slog.String("version", bootloader.Version),
		slog.String("manifest", bootloader.ManifestPath))

	return &Linker{
		Config:     cfg,
		Bootloader: bootloader,
		TargetDir:  metadata.TargetDirectory,
		Cache:      cache,
	}, nil
}

// BuildDir returns the directory the bootloader is built in.
func (l *Linker) BuildDir() string {
	return filepath.Join(l.TargetDir, "bootimage", l.Bootloader.Name)
}

// Command returns the bootloader build command line.
func (l *Linker) Command() []string {
	cmd := slices.Clone(l.Config.Build.Command)

	return append(cmd,
		"--manifest-path", l.Bootloader.ManifestPath,
		"--target", l.Config.Build.Target,
		"--release",
		"--features", bootloaderFeature,
		"--target-dir", l.BuildDir(),
		cargo.MessageFormatArg,
	)
}

// Env returns the environment variables for building the bootloader with the
// given kernel executable embedded.
func (l *Linker) Env(artifact kernel.Artifact) []string {
	layout := l.Config.MemoryLayout

	env := []string{
		EnvKernel + "=" + artifact.Path,
		EnvKernelManifest + "=" + l.Config.ManifestPath,
		EnvKernelStackSize + "=" + strconv.FormatUint(layout.KernelStackSize, 10),
	}

	if layout.PhysicalMemoryOffset != nil {
		env = append(env, EnvPhysicalMemoryOffset+"="+
			strconv.FormatUint(*layout.PhysicalMemoryOffset, 10))
	}

	if layout.KernelStackAddress != nil {
		env = append(env, EnvKernelStackAddress+"="+
			strconv.FormatUint(*layout.KernelStackAddress, 10))
	}

	return env
}

// Link creates the bootable disk image for the given kernel executable and
// returns its path. The path is derived from the executable's path, so each
// executable gets its own image.
//
// If an identical image was created before by this linker's cache, it is
// copied instead of building the bootloader again.
func (l *Linker) Link(ctx context.Context, artifact kernel.Artifact) (string, error) {
	imagePath := artifact.DiskImagePath()

	key, err := imagecache.NewKey(imagecache.Input{
		KernelPath:        artifact.Path,
		Target:            l.Config.Build.Target,
		Layout:            l.Config.MemoryLayout,
		BootloaderVersion: l.Bootloader.Version,
		PackagePath:       l.Config.Build.PackagePath,
		MinimumImageSize:  l.Config.Build.MinimumImageSize,
	})
	if err != nil {
		return "", fmt.Errorf("image cache key: %w", err)
	}

	cached, ok := l.Cache.Lookup(key)
	if ok {
		slog.Debug("Reuse cached image",
			slog.String("key", key.String()),
			slog.String("cached", cached),
			slog.String("path", imagePath))

		if cached != imagePath {
			err := copyFile(cached, imagePath)
			if err != nil {
				return "", fmt.Errorf("copy cached image: %w", err)
			}
		}

		return imagePath, nil
	}

	bootloaderPath, err := l.build(ctx, artifact)
	if err != nil {
		return "", err
	}

	image := Image{
		BootloaderPath: bootloaderPath,
		PackagePath:    l.Config.Build.PackagePath,
		MinimumSize:    l.Config.Build.MinimumImageSize,
	}

	err = image.WriteFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("write disk image: %w", err)
	}

	l.Cache.Store(key, imagePath)

	slog.Debug("Created disk image",
		slog.String("kernel", artifact.Path),
		slog.String("path", imagePath))

	return imagePath, nil
}

// build builds the bootloader with the kernel embedded and returns the path
// of the resulting executable.
func (l *Linker) build(ctx context.Context, artifact kernel.Artifact) (string, error) {
	var executables []cargo.Executable

	cmd := cargo.Command{
		Args: l.Command(),
		Dir:  filepath.Dir(l.Bootloader.ManifestPath),
		Env:  l.Env(artifact),
		Stdout: func(stdout io.Reader) error {
			var err error

			executables, err = cargo.ParseExecutables(stdout)

			return err
		},
		Stderr: l.Stderr,
	}

	err := cargo.Exec(ctx, cmd)
	if err != nil {
		var exitErr *cargo.ExitError
		if errors.As(err, &exitErr) {
			return "", &LinkError{
				ExitCode: exitErr.ExitCode,
				Output:   exitErr.Output,
			}
		}

		return "", fmt.Errorf("run bootloader build: %w", err)
	}

	for _, executable := range executables {
		if executable.Name == l.Bootloader.BinaryName {
			return executable.Path, nil
		}
	}

	// Build commands that do not report executables get the conventional
	// output path.
	return filepath.Join(
		l.BuildDir(),
		sys.TargetName(l.Config.Build.Target),
		releaseProfileDir,
		l.Bootloader.BinaryName,
	), nil
}
