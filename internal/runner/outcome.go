// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package runner

import "fmt"

// Kind is the kind of an [Outcome].
type Kind int

// Outcome kinds.
const (
	// Success is a process that exited with exit code 0.
	Success Kind = iota
	// Failure is a process that exited with a non-zero exit code.
	Failure
	// Timeout is a process that was killed after the test timeout.
	Timeout
	// ProcessError is a process that could not be run or did not exit with
	// an exit code.
	ProcessError
)

// String implements the [fmt.Stringer] interface.
func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Timeout:
		return "timeout"
	case ProcessError:
		return "process error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome is the result of running an emulator process.
type Outcome struct {
	Kind Kind

	// ExitCode is the exit code of the process for [Success] and [Failure].
	ExitCode int

	// Err is the cause of a [ProcessError].
	Err error
}

// String implements the [fmt.Stringer] interface.
func (o Outcome) String() string {
	switch o.Kind {
	case Failure:
		return fmt.Sprintf("failure (exit code %d)", o.ExitCode)
	case ProcessError:
		return fmt.Sprintf("process error: %v", o.Err)
	default:
		return o.Kind.String()
	}
}
