// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bootloader

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned if the kernel project does not depend on the
// bootloader package.
var ErrNotFound = errors.New("bootloader dependency not found")

// LinkError is returned if the bootloader build exited with a non-zero exit
// code.
type LinkError struct {
	ExitCode int
	Output   string
}

// Error implements the [error] interface.
func (e *LinkError) Error() string {
	return fmt.Sprintf("bootloader build failed with exit code %d", e.ExitCode)
}

// Is implements the [errors.Is] interface.
func (*LinkError) Is(other error) bool {
	_, ok := other.(*LinkError)
	return ok
}
