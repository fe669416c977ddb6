// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"testing"

	"github.com/aibor/bootimage/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetName(t *testing.T) {
	assert.Equal(t, "x86_64-unknown-none", sys.TargetName("x86_64-unknown-none"))
	assert.Equal(t, "x86_64-blog_os", sys.TargetName("/src/kernel/x86_64-blog_os.json"))
}

func TestArchFromTarget(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		expected    sys.Arch
		expectedErr error
	}{
		{
			name:     "triple",
			target:   "x86_64-unknown-none",
			expected: sys.AMD64,
		},
		{
			name:     "custom target file",
			target:   "/src/kernel/x86_64-blog_os.json",
			expected: sys.AMD64,
		},
		{
			name:     "arm",
			target:   "aarch64-unknown-none",
			expected: sys.ARM64,
		},
		{
			name:     "riscv",
			target:   "riscv64gc-unknown-none-elf",
			expected: sys.RISCV64,
		},
		{
			name:        "unknown",
			target:      "thumbv7em-none-eabihf",
			expectedErr: sys.ErrArchNotSupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := sys.ArchFromTarget(tt.target)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, actual)
		})
	}
}
