// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bootloader_test

import (
	"bytes"
	"debug/elf"
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/bootimage/internal/bootloader"
	"github.com/aibor/bootimage/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBootloaderELF(t *testing.T, path string) {
	t.Helper()

	sys.WriteTestELF(t, path, elf.EM_X86_64,
		sys.TestSegment{Paddr: 0x7c00, Data: []byte("boot")},
		sys.TestSegment{Paddr: 0x7e00, Data: []byte("more")},
	)
}

// flatImage is the flat binary of the ELF written by writeBootloaderELF.
func flatImage() []byte {
	image := make([]byte, 0x204)
	copy(image, "boot")
	copy(image[0x200:], "more")

	return image
}

func padded(data []byte, size int) []byte {
	out := make([]byte, size)
	copy(out, data)

	return out
}

func TestImageWriteFile(t *testing.T) {
	dir := t.TempDir()
	bootloaderPath := filepath.Join(dir, "bootloader")
	writeBootloaderELF(t, bootloaderPath)

	pkgFile := filepath.Join(dir, "pkg.bin")
	require.NoError(t, os.WriteFile(pkgFile, []byte("payload"), 0o600))

	t.Run("padded flat binary", func(t *testing.T) {
		imagePath := filepath.Join(t.TempDir(), "bootimage-kernel.bin")

		image := bootloader.Image{BootloaderPath: bootloaderPath}
		require.NoError(t, image.WriteFile(imagePath))

		actual, err := os.ReadFile(imagePath)
		require.NoError(t, err)
		assert.Equal(t, padded(flatImage(), 1024), actual)
	})

	t.Run("package file and minimum size", func(t *testing.T) {
		imagePath := filepath.Join(t.TempDir(), "bootimage-kernel.bin")

		image := bootloader.Image{
			BootloaderPath: bootloaderPath,
			PackagePath:    pkgFile,
			MinimumSize:    4096,
		}
		require.NoError(t, image.WriteFile(imagePath))

		actual, err := os.ReadFile(imagePath)
		require.NoError(t, err)
		require.Len(t, actual, 4096)
		assert.Equal(t, padded(flatImage(), 1024), actual[:1024])
		assert.Equal(t, padded([]byte("payload"), 512), actual[1024:1536])
		assert.Equal(t, make([]byte, 4096-1536), actual[1536:])
	})

	t.Run("minimum size smaller than image", func(t *testing.T) {
		imagePath := filepath.Join(t.TempDir(), "bootimage-kernel.bin")

		image := bootloader.Image{
			BootloaderPath: bootloaderPath,
			MinimumSize:    10,
		}
		require.NoError(t, image.WriteFile(imagePath))

		info, err := os.Stat(imagePath)
		require.NoError(t, err)
		assert.Equal(t, int64(1024), info.Size())
	})

	t.Run("package directory", func(t *testing.T) {
		pkgDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "a"), []byte("a"), 0o600))

		imagePath := filepath.Join(t.TempDir(), "bootimage-kernel.bin")

		image := bootloader.Image{
			BootloaderPath: bootloaderPath,
			PackagePath:    pkgDir,
		}
		require.NoError(t, image.WriteFile(imagePath))

		actual, err := os.ReadFile(imagePath)
		require.NoError(t, err)
		assert.Zero(t, len(actual)%bootloader.BlockSize)
		assert.True(t, bytes.HasPrefix(actual[1024:], []byte("070701")),
			"package must be a newc cpio archive")
	})

	t.Run("invalid bootloader leaves no image", func(t *testing.T) {
		outDir := t.TempDir()
		imagePath := filepath.Join(outDir, "bootimage-kernel.bin")

		image := bootloader.Image{BootloaderPath: pkgFile}
		require.Error(t, image.WriteFile(imagePath))

		entries, err := os.ReadDir(outDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("missing package leaves previous image", func(t *testing.T) {
		imagePath := filepath.Join(t.TempDir(), "bootimage-kernel.bin")
		require.NoError(t, os.WriteFile(imagePath, []byte("previous"), 0o600))

		image := bootloader.Image{
			BootloaderPath: bootloaderPath,
			PackagePath:    filepath.Join(dir, "missing"),
		}
		require.ErrorIs(t, image.WriteFile(imagePath), os.ErrNotExist)

		actual, err := os.ReadFile(imagePath)
		require.NoError(t, err)
		assert.Equal(t, "previous", string(actual))
	})
}
