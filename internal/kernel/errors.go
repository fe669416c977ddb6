// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kernel

import (
	"errors"
	"fmt"
)

// ErrNoExecutables is returned if a build succeeded but did not produce any
// executable.
var ErrNoExecutables = errors.New("no executables built")

// BuildError is returned if the build command exited with a non-zero exit
// code.
type BuildError struct {
	ExitCode int
	Output   string
}

// Error implements the [error] interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("kernel build failed with exit code %d", e.ExitCode)
}

// Is implements the [errors.Is] interface.
func (*BuildError) Is(other error) bool {
	_, ok := other.(*BuildError)
	return ok
}
