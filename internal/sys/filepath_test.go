// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/bootimage/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsolutePath(t *testing.T) {
	_, err := sys.AbsolutePath("")
	require.ErrorIs(t, err, sys.ErrEmptyPath)

	abs, err := sys.AbsolutePath("/some/../path")
	require.NoError(t, err)
	assert.Equal(t, "/path", abs)
}

func TestFindUpwards(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "arch")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	manifest := filepath.Join(root, "Cargo.toml")
	require.NoError(t, os.WriteFile(manifest, nil, 0o600))

	t.Run("found in parent", func(t *testing.T) {
		path, err := sys.FindUpwards(nested, "Cargo.toml")
		require.NoError(t, err)
		assert.Equal(t, manifest, path)
	})

	t.Run("found in dir", func(t *testing.T) {
		path, err := sys.FindUpwards(root, "Cargo.toml")
		require.NoError(t, err)
		assert.Equal(t, manifest, path)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := sys.FindUpwards(nested, "Missing.toml")
		require.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("directory does not count", func(t *testing.T) {
		_, err := sys.FindUpwards(root, "src")
		require.Error(t, err)
	})
}
