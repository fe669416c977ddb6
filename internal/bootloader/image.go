// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bootloader

import (
	"debug/elf"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aibor/bootimage/internal/archive"
	"github.com/aibor/bootimage/internal/sys"
)

// BlockSize is the size the disk image and the appended package are padded
// to.
const BlockSize = 512

// Image describes the content of a disk image.
type Image struct {
	// BootloaderPath is the bootloader ELF executable with the embedded
	// kernel.
	BootloaderPath string

	// PackagePath is an optional file or directory appended to the image.
	// Directories are packed as cpio archive.
	PackagePath string

	// MinimumSize is the minimum size of the image in bytes.
	MinimumSize uint64
}

// WriteFile writes the disk image to path. The image is created in a
// temporary file next to path and renamed once it is complete, so path either
// does not exist or holds a complete image.
func (i Image) WriteFile(path string) error {
	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}

	// Removal fails after successful rename and is ignored then.
	defer os.Remove(file.Name())

	err = i.write(file)
	if err != nil {
		_ = file.Close()
		return err
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("close image: %w", err)
	}

	err = os.Rename(file.Name(), path)
	if err != nil {
		return fmt.Errorf("move image into place: %w", err)
	}

	return nil
}

func (i Image) write(file *os.File) error {
	elfFile, err := elf.Open(i.BootloaderPath)
	if err != nil {
		return fmt.Errorf("open bootloader executable: %w", err)
	}
	defer elfFile.Close()

	_, err = sys.WriteFlatBinary(file, elfFile)
	if err != nil {
		return fmt.Errorf("write flat binary: %w", err)
	}

	err = padToBlock(file)
	if err != nil {
		return err
	}

	if i.PackagePath != "" {
		err = writePackage(file, i.PackagePath)
		if err != nil {
			return fmt.Errorf("write package: %w", err)
		}

		err = padToBlock(file)
		if err != nil {
			return err
		}
	}

	size, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("image size: %w", err)
	}

	if uint64(size) < i.MinimumSize {
		err = file.Truncate(int64(i.MinimumSize))
		if err != nil {
			return fmt.Errorf("extend image: %w", err)
		}
	}

	return nil
}

func writePackage(w io.Writer, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	if info.IsDir() {
		return archive.PackDir(w, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}

	return nil
}

// padToBlock fills the file with zeros up to the next multiple of
// [BlockSize].
func padToBlock(file *os.File) error {
	size, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("image size: %w", err)
	}

	remainder := size % BlockSize
	if remainder == 0 {
		return nil
	}

	_, err = file.Write(make([]byte, BlockSize-remainder))
	if err != nil {
		return fmt.Errorf("pad image: %w", err)
	}

	return nil
}

// copyFile copies the file at src to dst with the same temporary file and
// rename semantics as [Image.WriteFile].
func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer source.Close()

	file, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer os.Remove(file.Name())

	_, err = io.Copy(file, source)
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("copy: %w", err)
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	err = os.Rename(file.Name(), dst)
	if err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}
