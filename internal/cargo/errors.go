// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cargo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyCommand is returned if a [Command] has no arguments.
var ErrEmptyCommand = errors.New("empty command")

// ExitError is returned if an external command terminated with a non-zero
// exit code.
type ExitError struct {
	Args     []string
	ExitCode int
	// Output is the tail of the command's standard error output.
	Output string
}

// Error implements the [error] interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", strings.Join(e.Args, " "), e.ExitCode)
}

// Is implements the [errors.Is] interface.
func (*ExitError) Is(other error) bool {
	_, ok := other.(*ExitError)
	return ok
}
