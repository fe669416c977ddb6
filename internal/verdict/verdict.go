// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package verdict classifies emulator runs of test executables.
package verdict

import (
	"fmt"

	"github.com/aibor/bootimage/internal/config"
	"github.com/aibor/bootimage/internal/runner"
)

// Verdict is the result of a test run.
type Verdict int

// Verdicts.
const (
	Passed Verdict = iota
	Failed
	TimedOut
	Errored
)

// String implements the [fmt.Stringer] interface.
func (v Verdict) String() string {
	switch v {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed out"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// Classify returns the [Verdict] for the outcome of a test run.
//
// If a test success exit code is configured, only that exit code passes.
// Otherwise exit code 0 passes. Timeouts and process errors never pass.
func Classify(outcome runner.Outcome, cfg config.Run) Verdict {
	switch outcome.Kind {
	case runner.Success, runner.Failure:
		expected := 0
		if cfg.TestSuccessExitCode != nil {
			expected = *cfg.TestSuccessExitCode
		}

		if outcome.ExitCode == expected {
			return Passed
		}

		return Failed
	case runner.Timeout:
		return TimedOut
	default:
		return Errored
	}
}
