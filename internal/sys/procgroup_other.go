// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !unix

package sys

import (
	"errors"
	"os"
	"os/exec"
)

// SetProcessGroup sets [KillProcessGroup] as cancel function of the command.
// Process groups are not supported on this platform.
func SetProcessGroup(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		return KillProcessGroup(cmd)
	}
}

// KillProcessGroup kills the started process. Children of the process are not
// killed on this platform.
func KillProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}

	err := cmd.Process.Kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err //nolint:wrapcheck
	}

	return nil
}
